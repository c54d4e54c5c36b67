package usecase

import (
	"strings"

	"github.com/google/uuid"
)

// validID evita enviar a la base identificadores que no son UUID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }
