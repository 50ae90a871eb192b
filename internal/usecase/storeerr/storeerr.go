// Package storeerr maps persistence errors onto the ledger error kinds.
package storeerr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/errs"
)

// Map turns a missing row into errs.ErrNotFound and a unique-key violation
// into errs.ErrConflict. Other errors pass through.
func Map(err error, what, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(what, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict("%s %s", what, id)
	default:
		return fmt.Errorf("%s %s: %w", what, id, err)
	}
}

// IsNotFound reports whether err is a missing row.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// IsDuplicate reports whether err is a unique-key violation.
func IsDuplicate(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }
