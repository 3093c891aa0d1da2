package postgres

import (
	"database/sql"

	"github.com/fwdline/prediction-league/internal/platform/id"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func nullIntToPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func ptrToNullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

var idGenerator id.Generator = id.NewRandomGenerator()

func newRowID() (string, error) {
	return idGenerator.NewID()
}
