package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump is the server-side view of a failure, logged for 5xx responses.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	SQLState   string `json:"sql_state,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DBMessage  string `json:"db_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error(), Code: CodeOf(err)}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.fillDatabase(err)
	return d
}

func (d *ErrorDump) fillDatabase(err error) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.SQLState, d.Constraint, d.Table, d.Column = pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName, pgxErr.ColumnName
		d.Detail, d.DBMessage = pgxErr.Detail, pgxErr.Message
		return
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.SQLState, d.Constraint, d.Table, d.Column = string(pqErr.Code), pqErr.Constraint, pqErr.Table, pqErr.Column
		d.Detail, d.DBMessage = pqErr.Detail, pqErr.Message
		return
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		d.SQLState = fmt.Sprintf("sqlite:%d", int(liteErr.ExtendedCode))
		d.DBMessage = liteErr.Error()
	}
}
