package forcedfields

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// TimeLocation is the zone used for values parsed from strings and for
// values written to zone-less TIMESTAMP columns.
var TimeLocation = time.UTC

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
}

// dateFormats are the jinzhu/now formats that carry a full date. Bare
// years, times and digit runs are left out so that "12" is not a time.
var dateFormats = []string{
	"2006-1-2", "2006-1-2 15", "2006-1-2 15:4", "2006-1-2 15:4:5",
	"2006-01-02 15:04:05.999999999 -0700 MST", "2006-01-02T15:04:05Z0700", "2006-01-02T15:04:05Z07",
	"2006.1.2", "2006.1.2 15:04:05", "2006.01.02", "2006.01.02 15:04:05", "2006.01.02 15:04:05.999999999",
	"1/2/2006", "1/2/2006 15:4:5", "2006/01/02", "2006/01/02 15:04:05",
}

// parseTime tries the ISO layouts first so that explicit offsets survive,
// then falls back to the date formats of jinzhu/now.
func parseTime(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, TimeLocation); err == nil {
			return t, nil
		}
	}
	config := &now.Config{TimeLocation: TimeLocation, TimeFormats: dateFormats}
	return config.Parse(s)
}

// Clean converts an assigned value into what the column stores: a
// time.Time or nil. Strings are parsed leniently; anything unparsable
// yields a *ValidationError.
func (f *TimestampField) Clean(v interface{}) (interface{}, error) {
	switch data := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return data, nil
	case *time.Time:
		if data == nil {
			return nil, nil
		}
		return *data, nil
	case sql.NullTime:
		if !data.Valid {
			return nil, nil
		}
		return data.Time, nil
	case string:
		return f.parse(v, data)
	case []byte:
		return f.parse(v, string(data))
	}
	return nil, &ValidationError{Field: f.name, Value: v, Err: fmt.Errorf("unsupported type %T", v)}
}

func (f *TimestampField) parse(v interface{}, s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, &ValidationError{Field: f.name, Value: v, Err: err}
	}
	return t, nil
}

// PreSave returns the value to write. When emulate is set the field fills
// itself in: auto_create on INSERT when no value was assigned, and
// auto-update on every UPDATE. Callers enable emulation only where the
// schema cannot do the same.
func (f *TimestampField) PreSave(value interface{}, current time.Time, insert, emulate bool) interface{} {
	if !emulate {
		return value
	}
	if insert && f.autoCreate && value == nil {
		return current
	}
	if !insert && f.AutoUpdate() {
		return current
	}
	return value
}
