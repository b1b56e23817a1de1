package forcedfields

import (
	"fmt"
	"time"

	"github.com/forcedfields/forcedfields/dialect"
)

// TimestampFieldPath is the qualified type name recorded by Deconstruct.
const TimestampFieldPath = "github.com/forcedfields/forcedfields.TimestampField"

// Keyword names accepted by NewTimestampFieldFromKwargs.
const (
	KwAutoCreate = "auto_create"
	KwAutoUpdate = "auto_update"
	KwAutoNow    = "auto_now"
	KwNullable   = "nullable"
	KwDefault    = "default"
)

// Deconstruction is enough to rebuild an equivalent field.
type Deconstruction struct {
	Name   string                 `json:"name,omitempty"`
	Path   string                 `json:"path"`
	Args   []interface{}          `json:"args"`
	Kwargs map[string]interface{} `json:"kwargs"`
}

// Deconstruct records the field's configuration. Only non-default options
// are kept. The deprecated auto_now is written as auto_update, except next
// to auto_create where it stays auto_now so Check reports the same issue
// after reconstruction.
func (f *TimestampField) Deconstruct() Deconstruction {
	kwargs := map[string]interface{}{}
	switch {
	case f.autoCreate:
		kwargs[KwAutoCreate] = true
		if f.autoUpdate {
			kwargs[KwAutoUpdate] = true
		}
		if f.autoNow {
			kwargs[KwAutoNow] = true
		}
	case f.AutoUpdate():
		kwargs[KwAutoUpdate] = true
	}
	if f.nullable {
		kwargs[KwNullable] = true
	}
	if f.def != nil {
		kwargs[KwDefault] = *f.def
	}
	return Deconstruction{
		Name:   f.name,
		Path:   TimestampFieldPath,
		Args:   []interface{}{},
		Kwargs: kwargs,
	}
}

// Reconstruct rebuilds a field from its deconstruction.
func Reconstruct(d Deconstruction) (*TimestampField, error) {
	if d.Path != "" && d.Path != TimestampFieldPath {
		return nil, fmt.Errorf("%w: unexpected path %q", ErrInvalidDeconstruction, d.Path)
	}
	f, err := NewTimestampFieldFromKwargs(d.Args, d.Kwargs)
	if err != nil {
		return nil, err
	}
	f.name = d.Name
	return f, nil
}

// NewTimestampFieldFromKwargs builds a field from keyword options, the
// inverse of Deconstruct. The field takes no positional arguments.
func NewTimestampFieldFromKwargs(args []interface{}, kwargs map[string]interface{}) (*TimestampField, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%w: unexpected positional arguments %v", ErrInvalidDeconstruction, args)
	}

	var opts []Option
	for key, value := range kwargs {
		switch key {
		case KwAutoCreate, KwAutoUpdate, KwAutoNow, KwNullable:
			b, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidDeconstruction, key, value)
			}
			opts = append(opts, boolOption(key, b))
		case KwDefault:
			t, err := defaultValue(value)
			if err != nil {
				return nil, err
			}
			if t != nil {
				opts = append(opts, WithDefault(*t))
			}
		default:
			return nil, fmt.Errorf("%w: unknown keyword %q", ErrInvalidDeconstruction, key)
		}
	}
	return NewTimestampField(opts...), nil
}

func boolOption(key string, v bool) Option {
	switch key {
	case KwAutoCreate:
		return WithAutoCreate(v)
	case KwAutoUpdate:
		return WithAutoUpdate(v)
	case KwAutoNow:
		return WithAutoNow(v)
	}
	return WithNullable(v)
}

func defaultValue(value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, dialect.DefaultLayout} {
			if t, err := time.ParseInLocation(layout, v, TimeLocation); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("%w: cannot parse default %q", ErrInvalidDeconstruction, v)
	}
	return nil, fmt.Errorf("%w: default must be a time, got %T", ErrInvalidDeconstruction, value)
}
