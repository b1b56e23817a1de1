package errtranslator

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var mysqlErrCodes = map[uint16]error{
	1048: ErrNotNullViolation, // ER_BAD_NULL_ERROR
	1364: ErrNotNullViolation, // ER_NO_DEFAULT_FOR_FIELD
	1062: ErrDuplicatedKey,    // ER_DUP_ENTRY
}

type MysqlErrTranslator struct{}

func (m *MysqlErrTranslator) Translate(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}

	if kind, ok := mysqlErrCodes[mysqlErr.Number]; ok {
		return &IntegrityError{Kind: kind, Code: mysqlErr.Number, Message: mysqlErr.Message, Err: err}
	}
	return err
}
