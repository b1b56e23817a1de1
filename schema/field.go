package schema

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/forcedfields/forcedfields"
	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/utils"
)

// Field is one column of a model.
type Field struct {
	Name       string
	DBName     string
	Kind       dialect.Kind
	Size       int
	PrimaryKey bool
	Nullable   bool
	// Timestamp is set for columns stored as a forced TIMESTAMP.
	Timestamp *forcedfields.TimestampField
}

// IsTimestamp reports whether the column is a forced timestamp.
func (field *Field) IsTimestamp() bool {
	return field.Timestamp != nil
}

// DataTypeOf renders the column type for d, without the NULL constraint.
func (field *Field) DataTypeOf(d dialect.Dialect) string {
	if field.Timestamp != nil {
		return field.Timestamp.ColumnTypeOf(d).String()
	}
	return d.DataTypeOf(field.Kind, field.Size, field.PrimaryKey)
}

// AllowsNull reports whether the column accepts NULL.
func (field *Field) AllowsNull() bool {
	if field.Timestamp != nil {
		return field.Timestamp.Nullable()
	}
	return field.Nullable && !field.PrimaryKey
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	nullTimeType = reflect.TypeOf(sql.NullTime{})
	bytesType    = reflect.TypeOf([]byte(nil))
)

func kindOf(t reflect.Type) (dialect.Kind, bool) {
	nullable := false
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		nullable = true
	}

	switch t {
	case timeType:
		return dialect.DateTime, nullable
	case nullTimeType:
		return dialect.DateTime, true
	case bytesType:
		return dialect.Bytes, true
	}

	switch t.Kind() {
	case reflect.Bool:
		return dialect.Bool, nullable
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return dialect.Int, nullable
	case reflect.Float32, reflect.Float64:
		return dialect.Float, nullable
	case reflect.String:
		return dialect.String, nullable
	}
	return dialect.Invalid, nullable
}

// timestampKeys maps tag keys onto TimestampField keyword options.
var timestampKeys = map[string]string{
	"AUTO_CREATE": forcedfields.KwAutoCreate,
	"AUTO_UPDATE": forcedfields.KwAutoUpdate,
	"AUTO_NOW":    forcedfields.KwAutoNow,
}

func (schema *Schema) parseField(fieldStruct reflect.StructField) (*Field, error) {
	settings := ParseTagSetting(fieldStruct.Tag.Get("forcedfields"), ";")
	if _, ok := settings["-"]; ok {
		return nil, nil
	}

	if name := settings["COLUMN"]; name != "" && strings.IndexFunc(name, utils.IsValidDBNameChar) >= 0 {
		return nil, fmt.Errorf("field %s: invalid column name %q", fieldStruct.Name, name)
	}

	kind, nullable := kindOf(fieldStruct.Type)
	field := &Field{
		Name:     fieldStruct.Name,
		DBName:   settings["COLUMN"],
		Kind:     kind,
		Nullable: nullable,
	}

	if val, ok := settings["PRIMARYKEY"]; ok && utils.CheckTruth(val) {
		field.PrimaryKey = true
	} else if val, ok := settings["PRIMARY_KEY"]; ok && utils.CheckTruth(val) {
		field.PrimaryKey = true
	}

	if val, ok := settings["NULL"]; ok {
		field.Nullable = utils.CheckTruth(val)
	} else if _, ok := settings["NOT NULL"]; ok {
		field.Nullable = false
	}

	if num, ok := settings["SIZE"]; ok {
		size, err := strconv.Atoi(num)
		if err != nil {
			return nil, fmt.Errorf("field %s: invalid size %q: %w", field.Name, num, err)
		}
		field.Size = size
	}

	if _, ok := settings["TIMESTAMP"]; ok {
		if kind != dialect.DateTime {
			return nil, fmt.Errorf("field %s: timestamp requires a time type, got %s", field.Name, fieldStruct.Type)
		}

		kwargs := map[string]interface{}{}
		for key, kw := range timestampKeys {
			if val, ok := settings[key]; ok {
				kwargs[kw] = utils.CheckTruth(val)
			}
		}
		if field.Nullable {
			kwargs[forcedfields.KwNullable] = true
		}
		if val, ok := settings["DEFAULT"]; ok {
			kwargs[forcedfields.KwDefault] = val
		}

		ts, err := forcedfields.NewTimestampFieldFromKwargs(nil, kwargs)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		field.Timestamp = ts
	} else if kind == dialect.Invalid {
		return nil, fmt.Errorf("field %s: unsupported type %s", field.Name, fieldStruct.Type)
	}

	return field, nil
}

// ParseTagSetting splits a tag such as "column:ts;auto_create" into upper
// cased keys. Only the first colon separates key and value, so values may
// hold times.
func ParseTagSetting(str string, sep string) map[string]string {
	settings := map[string]string{}
	if str == "" {
		return settings
	}

	for _, part := range strings.Split(str, sep) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		key := strings.TrimSpace(strings.ToUpper(kv[0]))
		if len(kv) == 2 {
			settings[key] = strings.TrimSpace(kv[1])
		} else {
			settings[key] = key
		}
	}
	return settings
}
