// Package fixtures holds the timestamp field configurations shared by the
// tests and the CLI, each with the column types it must render.
package fixtures

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forcedfields/forcedfields"
	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/schema"
)

// ModelPrefix starts every fixture model name.
const ModelPrefix = "TsRecord"

// FieldName is the attribute holding the timestamp in fixture models.
const FieldName = "ts_field_1"

var (
	// DefaultTime is the explicit default of the configurations using one.
	DefaultTime = time.Date(2000, 1, 1, 0, 0, 1, 0, time.UTC)
	// AssignedTime is the value assigned when a fixture saves a value.
	AssignedTime = time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
)

// Outcome is what a saved row is expected to hold.
type Outcome int

const (
	// NotNull means the insert fails with a NOT NULL violation.
	NotNull Outcome = iota
	Null
	// Now means some current time was written.
	Now
	Default
	Assigned
)

// Insert cases, indexing Config.Inserts.
const (
	Unset = iota
	ExplicitNil
	Value
)

// Config is one combination of field options.
type Config struct {
	// Options are keyword names in declaration order.
	Options  []string
	MySQL    string
	Postgres string
	// Issues are the check identifiers the configuration reports.
	Issues []string
	// Inserts are the expected outcomes on a backend without schema level
	// defaults, for an unset, a nil and an assigned value.
	Inserts [3]Outcome
}

// Kwargs returns the options as Deconstruction keywords.
func (c Config) Kwargs() map[string]interface{} {
	kwargs := make(map[string]interface{}, len(c.Options))
	for _, opt := range c.Options {
		if opt == forcedfields.KwDefault {
			kwargs[opt] = DefaultTime
		} else {
			kwargs[opt] = true
		}
	}
	return kwargs
}

// Field builds the configured field, named after FieldName.
func (c Config) Field() *forcedfields.TimestampField {
	f, err := forcedfields.NewTimestampFieldFromKwargs(nil, c.Kwargs())
	if err != nil {
		panic(err)
	}
	return f.Named(FieldName)
}

// ModelName returns the fixture model name for the configuration.
func (c Config) ModelName() string {
	return ModelName(c.Options...)
}

func (c Config) String() string {
	if len(c.Options) == 0 {
		return "no options"
	}
	return strings.Join(c.Options, ", ")
}

// ModelName builds a model name from option names, so that auto_create and
// nullable give "TsRecordAutocreateNullable".
func ModelName(options ...string) string {
	caser := cases.Title(language.Und)
	var sb strings.Builder
	sb.WriteString(ModelPrefix)
	for _, opt := range options {
		sb.WriteString(caser.String(strings.ReplaceAll(opt, "_", "")))
	}
	return sb.String()
}

const (
	mysqlTimestamp    = "timestamp"
	postgresTimestamp = "timestamp without time zone"
	mysqlOnUpdate     = " on update current_timestamp"
	mysqlNow          = " default current_timestamp"
	postgresNow       = " default now()"
	defaultLiteral    = " default '2000-01-01 00:00:01'"
)

// Timestamp lists every fixture configuration.
var Timestamp = []Config{
	{
		Options:  nil,
		MySQL:    mysqlTimestamp,
		Postgres: postgresTimestamp,
		Inserts:  [3]Outcome{NotNull, NotNull, Assigned},
	},
	{
		Options:  []string{"nullable"},
		MySQL:    mysqlTimestamp,
		Postgres: postgresTimestamp,
		Inserts:  [3]Outcome{Null, Null, Assigned},
	},
	{
		Options:  []string{"auto_now"},
		MySQL:    mysqlTimestamp + mysqlOnUpdate,
		Postgres: postgresTimestamp,
		Inserts:  [3]Outcome{NotNull, NotNull, Assigned},
	},
	{
		Options:  []string{"auto_now", "nullable"},
		MySQL:    mysqlTimestamp + mysqlOnUpdate,
		Postgres: postgresTimestamp,
		Inserts:  [3]Outcome{Null, Null, Assigned},
	},
	{
		Options:  []string{"auto_create"},
		MySQL:    mysqlTimestamp + mysqlNow,
		Postgres: postgresTimestamp + postgresNow,
		Inserts:  [3]Outcome{Now, Now, Assigned},
	},
	{
		Options:  []string{"auto_create", "auto_update"},
		MySQL:    mysqlTimestamp + mysqlNow + mysqlOnUpdate,
		Postgres: postgresTimestamp + postgresNow,
		Issues:   []string{forcedfields.IDMutuallyExclusive},
		Inserts:  [3]Outcome{Now, Now, Assigned},
	},
	{
		Options:  []string{"auto_create", "auto_update", "nullable"},
		MySQL:    mysqlTimestamp + mysqlNow + mysqlOnUpdate,
		Postgres: postgresTimestamp + postgresNow,
		Issues:   []string{forcedfields.IDMutuallyExclusive},
		Inserts:  [3]Outcome{Now, Now, Assigned},
	},
	{
		Options:  []string{"auto_create", "nullable"},
		MySQL:    mysqlTimestamp + mysqlNow,
		Postgres: postgresTimestamp + postgresNow,
		Inserts:  [3]Outcome{Now, Now, Assigned},
	},
	{
		Options:  []string{"auto_create", "auto_now"},
		MySQL:    mysqlTimestamp + mysqlNow + mysqlOnUpdate,
		Postgres: postgresTimestamp + postgresNow,
		Issues:   []string{forcedfields.IDLegacyAutoNow},
		Inserts:  [3]Outcome{Now, Now, Assigned},
	},
	{
		Options:  []string{"auto_update"},
		MySQL:    mysqlTimestamp + mysqlOnUpdate,
		Postgres: postgresTimestamp,
		Inserts:  [3]Outcome{NotNull, NotNull, Assigned},
	},
	{
		Options:  []string{"auto_update", "nullable"},
		MySQL:    mysqlTimestamp + mysqlOnUpdate,
		Postgres: postgresTimestamp,
		Inserts:  [3]Outcome{Null, Null, Assigned},
	},
	{
		Options:  []string{"auto_update", "default"},
		MySQL:    mysqlTimestamp + defaultLiteral + mysqlOnUpdate,
		Postgres: postgresTimestamp + defaultLiteral,
		Inserts:  [3]Outcome{Default, NotNull, Assigned},
	},
	{
		Options:  []string{"auto_update", "default", "nullable"},
		MySQL:    mysqlTimestamp + defaultLiteral + mysqlOnUpdate,
		Postgres: postgresTimestamp + defaultLiteral,
		Inserts:  [3]Outcome{Default, Null, Assigned},
	},
	{
		Options:  []string{"default"},
		MySQL:    mysqlTimestamp + defaultLiteral,
		Postgres: postgresTimestamp + defaultLiteral,
		Inserts:  [3]Outcome{Default, NotNull, Assigned},
	},
	{
		Options:  []string{"default", "nullable"},
		MySQL:    mysqlTimestamp + defaultLiteral,
		Postgres: postgresTimestamp + defaultLiteral,
		Inserts:  [3]Outcome{Default, Null, Assigned},
	},
}

// Valid returns the configurations that report no issues.
func Valid() []Config {
	var valid []Config
	for _, c := range Timestamp {
		if len(c.Issues) == 0 {
			valid = append(valid, c)
		}
	}
	return valid
}

// Schema builds the fixture model of the configuration: an integer primary
// key and the timestamp column.
func (c Config) Schema(ns schema.Namer) *schema.Schema {
	return schema.New(c.ModelName(), ns,
		&schema.Field{Name: "ID", DBName: "id", Kind: dialect.Int, PrimaryKey: true},
		&schema.Field{Name: "TsField1", DBName: FieldName, Kind: dialect.DateTime, Timestamp: c.Field()},
	)
}
