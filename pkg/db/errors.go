package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
)

// Postgres SQLSTATE class 23 codes.
var sqlStates = map[string]violation{
	"23505": uniqueViolation,
	"23503": foreignKeyViolation,
	"23514": checkViolation,
}

var sqliteCodes = map[sqlite3.ErrNoExtended]violation{
	sqlite3.ErrConstraintUnique:     uniqueViolation,
	sqlite3.ErrConstraintPrimaryKey: uniqueViolation,
	sqlite3.ErrConstraintForeignKey: foreignKeyViolation,
	sqlite3.ErrConstraintCheck:      checkViolation,
}

func classify(err error) violation {
	if err == nil {
		return noViolation
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKeyViolation
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return checkViolation
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return sqlStates[pgxErr.Code]
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return sqlStates[string(pqErr.Code)]
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return sqliteCodes[liteErr.ExtendedCode]
	}
	return noViolation
}

// IsUniqueViolation reports a duplicate key, e.g. a second part category
// with the same name.
func IsUniqueViolation(err error) bool {
	return classify(err) == uniqueViolation
}

// IsForeignKeyViolation reports a dangling reference, e.g. an order pointing
// at a client that does not exist.
func IsForeignKeyViolation(err error) bool {
	return classify(err) == foreignKeyViolation
}

// IsCheckViolation reports a failed CHECK such as negative stock.
func IsCheckViolation(err error) bool {
	return classify(err) == checkViolation
}
