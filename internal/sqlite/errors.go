package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/ganttline/internal/repository"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertError maps a duplicate key to repository.ErrConflict and wraps anything else.
func insertError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", repository.ErrConflict, what)
	default:
		return fmt.Errorf("failed to insert %s: %w", what, err)
	}
}
