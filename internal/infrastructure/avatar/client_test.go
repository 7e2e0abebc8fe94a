package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_AvatarURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead || r.URL.Query().Get("d") != "404" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("retorna URL quando o serviço responde 200", func(t *testing.T) {
		client := NewClient(server.URL+"/", time.Second)

		url, err := client.AvatarURL(context.Background(), " Ana@Example.com ")
		if err != nil {
			t.Fatalf("esperava sucesso, obteve erro: %v", err)
		}
		if !strings.HasPrefix(url, server.URL+"/") || len(url) != len(server.URL)+1+64 {
			t.Errorf("URL inesperada: %s", url)
		}
	})

	t.Run("falha quando o serviço está fora", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

		if _, err := client.AvatarURL(context.Background(), "ana@example.com"); err == nil {
			t.Error("esperava erro de conexão")
		}
	})
}
