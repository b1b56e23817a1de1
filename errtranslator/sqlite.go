package errtranslator

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
)

const sqliteConstraint = 19

var sqliteErrCodes = map[int]error{
	1299: ErrNotNullViolation, // SQLITE_CONSTRAINT_NOTNULL
	2067: ErrDuplicatedKey,    // SQLITE_CONSTRAINT_UNIQUE
	1555: ErrDuplicatedKey,    // SQLITE_CONSTRAINT_PRIMARYKEY
}

type SqliteErrTranslator struct{}

func (s *SqliteErrTranslator) Translate(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	code := sqliteErr.Code()
	if code&0xff != sqliteConstraint {
		return err
	}

	kind, ok := sqliteErrCodes[code]
	if !ok {
		// primary result code only, fall back to the message
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "NOT NULL"):
			kind = ErrNotNullViolation
		case strings.Contains(msg, "UNIQUE"):
			kind = ErrDuplicatedKey
		default:
			return err
		}
	}
	return &IntegrityError{Kind: kind, Code: code, Message: sqliteErr.Error(), Err: err}
}
