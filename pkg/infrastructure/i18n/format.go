package i18n

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPositional substitui {0}, {1}, ... pelos argumentos correspondentes.
// Índices sem argumento e chaves que não são índices permanecem literais.
func FormatPositional(message string, args ...any) string {
	if len(args) == 0 || !strings.Contains(message, "{") {
		return message
	}

	var sb strings.Builder
	sb.Grow(len(message))

	for i := 0; i < len(message); i++ {
		if message[i] != '{' {
			sb.WriteByte(message[i])
			continue
		}

		end := strings.IndexByte(message[i:], '}')
		if end == -1 {
			sb.WriteString(message[i:])
			break
		}

		token := message[i+1 : i+end]
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(args) {
			sb.WriteString(message[i : i+end+1])
		} else {
			sb.WriteString(fmt.Sprint(args[idx]))
		}
		i += end
	}

	return sb.String()
}
