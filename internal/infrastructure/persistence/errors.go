package persistence

import (
	"errors"

	"github.com/agentdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translate maps driver-level errors onto domain errors.
// Requires gorm's TranslateError option.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	default:
		return err
	}
}
