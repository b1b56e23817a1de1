// Package errtranslator turns driver specific integrity errors into
// errors that callers can test with errors.Is.
package errtranslator

import (
	"errors"
	"fmt"

	"github.com/forcedfields/forcedfields/dialect"
)

var (
	// ErrDuplicatedKey matches unique and primary key violations.
	ErrDuplicatedKey = errors.New("duplicated key not allowed")
	// ErrNotNullViolation matches NULL written to a NOT NULL column.
	ErrNotNullViolation = errors.New("not null constraint violated")
)

type ErrTranslator interface {
	Translate(err error) error
}

// IntegrityError is a translated driver error. It matches its Kind and
// still unwraps to the driver error.
type IntegrityError struct {
	Kind    error
	Code    interface{}
	Message string
	Err     error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v, code: %v, message: %s", e.Kind, e.Code, e.Message)
}

func (e *IntegrityError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// New returns the translator of a backend. Backends without one get a
// translator that returns errors unchanged.
func New(backend dialect.Backend) ErrTranslator {
	switch backend {
	case dialect.MySQL:
		return &MysqlErrTranslator{}
	case dialect.Postgres:
		return &PostgresErrTranslator{}
	case dialect.SQLite:
		return &SqliteErrTranslator{}
	}
	return noopTranslator{}
}

type noopTranslator struct{}

func (noopTranslator) Translate(err error) error {
	return err
}
