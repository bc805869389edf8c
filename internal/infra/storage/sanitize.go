package storage

import "strings"

// Componentes de caminho derivados de entrada do navegador passam todos
// por aqui. Conjunto permitido: [a-zA-Z0-9_-], tamanho máximo fixo.
// Payloads de traversal ("../../etc") viram apenas caracteres seguros e
// nunca escapam do diretório alvo.

const maxComponentLen = 120

// SafeComponent troca todo caractere fora de [a-zA-Z0-9_-] por "_",
// trunca em 120 e devolve o fallback quando o resultado fica vazio.
func SafeComponent(value, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		if isSafeRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	safe := b.String()
	if len(safe) > maxComponentLen {
		safe = safe[:maxComponentLen]
	}
	if safe == "" {
		return fallback
	}
	return safe
}

// SafeEmail transforma um email em nome de diretório: "@" vira "_at_",
// "." vira "_" e o resto fora de [a-zA-Z0-9_-] é descartado.
func SafeEmail(email string) string {
	replaced := strings.NewReplacer("@", "_at_", ".", "_").Replace(email)

	var b strings.Builder
	for _, r := range replaced {
		if isSafeRune(r) {
			b.WriteRune(r)
		}
	}

	safe := b.String()
	if len(safe) > maxComponentLen {
		safe = safe[:maxComponentLen]
	}
	if safe == "" {
		return "unknown_lead"
	}
	return safe
}

// SafeTimestamp converte um timestamp ISO em nome de arquivo:
// ":" e "." viram "-", "T" vira "_", "Z" é descartado.
func SafeTimestamp(ts string) string {
	replaced := strings.NewReplacer(":", "-", ".", "-", "T", "_", "Z", "").Replace(ts)

	var b strings.Builder
	for _, r := range replaced {
		if isSafeRune(r) {
			b.WriteRune(r)
		}
	}

	safe := b.String()
	if len(safe) > maxComponentLen {
		safe = safe[:maxComponentLen]
	}
	return safe
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}
