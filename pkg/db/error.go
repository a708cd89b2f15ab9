package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSchemaDrift marks a read that failed because a table or column the query
// expects has not been migrated yet.
var ErrSchemaDrift = errors.New("schema_drift")

// SchemaDriftError carries the driver code that identified the drift, if any.
type SchemaDriftError struct {
	Code string
	Err  error
}

func (e *SchemaDriftError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("schema drift (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("schema drift: %v", e.Err)
}

func (e *SchemaDriftError) Unwrap() error { return e.Err }

func (e *SchemaDriftError) Is(target error) bool { return target == ErrSchemaDrift }

var (
	pgDriftCodes = map[string]struct{}{
		"42P01": {}, // undefined_table
		"42703": {}, // undefined_column
	}
	mysqlDriftCodes = map[uint16]struct{}{
		1146: {}, // ER_NO_SUCH_TABLE
		1054: {}, // ER_BAD_FIELD_ERROR
	}
	// PostgREST schema cache misses only surface in the message.
	postgrestDriftCodes = []string{"PGRST204", "PGRST205"}

	driftPhrases = []string{
		"does not exist",
		"could not find",
		"column",
		"relation",
		"no such table",
	}
)

// DriftCode returns the structured driver code for a drift error.
func DriftCode(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := pgDriftCodes[pgErr.Code]
		return pgErr.Code, ok
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := mysqlDriftCodes[myErr.Number]
		return fmt.Sprintf("%d", myErr.Number), ok
	}

	msg := err.Error()
	for _, code := range postgrestDriftCodes {
		if strings.Contains(msg, code) {
			return code, true
		}
	}
	return "", false
}

// IsSchemaDrift reports whether err means the queried table or column is
// absent. Structured driver codes win; drivers that expose no code fall back
// to message matching.
func IsSchemaDrift(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSchemaDrift) {
		return true
	}
	if code, ok := DriftCode(err); ok {
		return true
	} else if code != "" {
		// a structured code that is not a drift code is authoritative
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range driftPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// ClassifyReadErr wraps drift failures in *SchemaDriftError and returns any
// other error unchanged.
func ClassifyReadErr(err error) error {
	if err == nil || errors.Is(err, ErrSchemaDrift) {
		return err
	}
	if !IsSchemaDrift(err) {
		return err
	}
	code, _ := DriftCode(err)
	return &SchemaDriftError{Code: code, Err: err}
}
