package service

import (
	"net/mail"
	"strings"

	"github.com/dom/kanban-board/internal/domain"
)

// normalizeEmail trims and lower-cases a bare address. Display-name forms
// such as "Ada <ada@example.com>" are rejected.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
