package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey is the storage-level uniqueness signal. Repositories
// translate driver errors into it so services never see pgconn.
var ErrDuplicateKey = errors.New("duplicate key value violates a unique constraint")

// postgres unique_violation
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}
