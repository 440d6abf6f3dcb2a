package book

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// The registered driver is pgx/v5/stdlib, so unique violations surface as
// pgx/v5/pgconn.PgError values. This pins the conflict mapping to exactly
// that type, wrapped or not.
func TestIsUniqueViolation_MatchesDriverErrorType(t *testing.T) {
	driverErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "books_title_key",
	}
	assert.True(t, isUniqueViolation(driverErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert books: %w", driverErr)))
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, isUniqueViolation(nil))
}
