package avatar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client consulta um serviço de avatares no formato do Gravatar
// (<base>/<sha256 do email>?d=404).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient cria o cliente com o timeout informado
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AvatarURL retorna a URL do avatar do email.
// Qualquer resposta diferente de 200 é tratada como falha do serviço.
func (c *Client) AvatarURL(ctx context.Context, email string) (string, error) {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	url := c.baseURL + "/" + hex.EncodeToString(sum[:])

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url+"?d=404", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build avatar request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatar service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar service returned status %d", resp.StatusCode)
	}
	return url, nil
}
