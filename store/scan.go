package store

import (
	"database/sql"
	"time"

	"github.com/forcedfields/forcedfields"
	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/schema"
)

type scanner interface {
	sql.Scanner
	value() interface{}
}

func newScanner(field *schema.Field) scanner {
	if field.Timestamp != nil {
		return &timeScanner{field: field.Timestamp}
	}
	if field.Kind == dialect.DateTime {
		return &timeScanner{field: forcedfields.NewTimestampField(forcedfields.WithName(field.DBName))}
	}
	return &rawScanner{kind: field.Kind}
}

// timeScanner reads a timestamp column. Drivers returning text, as SQLite
// and MySQL without parseTime do, go through the field's Clean.
type timeScanner struct {
	field *forcedfields.TimestampField
	t     *time.Time
}

func (s *timeScanner) Scan(src interface{}) error {
	v, err := s.field.Clean(src)
	if err != nil {
		return err
	}
	if t, ok := v.(time.Time); ok {
		t = t.UTC()
		s.t = &t
	} else {
		s.t = nil
	}
	return nil
}

func (s *timeScanner) value() interface{} {
	if s.t == nil {
		return nil
	}
	return *s.t
}

type rawScanner struct {
	kind dialect.Kind
	v    interface{}
}

func (s *rawScanner) Scan(src interface{}) error {
	if b, ok := src.([]byte); ok {
		if s.kind == dialect.Bytes {
			s.v = append([]byte(nil), b...)
		} else {
			s.v = string(b)
		}
		return nil
	}
	s.v = src
	return nil
}

func (s *rawScanner) value() interface{} {
	return s.v
}
