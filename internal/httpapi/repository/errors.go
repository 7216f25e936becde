package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup predicate matches no row. Ownership
// checks are folded into the predicates, so a forbidden row and a missing row
// are indistinguishable to callers.
var ErrNotFound = errors.New("record not found")

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
