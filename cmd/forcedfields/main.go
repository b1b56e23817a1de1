package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/forcedfields/forcedfields"
	"github.com/forcedfields/forcedfields/checks"
	"github.com/forcedfields/forcedfields/config"
	"github.com/forcedfields/forcedfields/connections"
	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/internal/fixtures"
	"github.com/forcedfields/forcedfields/migrator"
	"github.com/forcedfields/forcedfields/schema"
	"github.com/forcedfields/forcedfields/store"
)

const usage = `Usage: forcedfields <command> [flags]

Commands:
  render   print the column type of a timestamp field for a backend
  check    print the configuration issues of a timestamp field
  migrate  create the model table of a timestamp field on a configured database
  inspect  print the columns of a table on a configured database
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var cmd func(context.Context, []string, io.Writer, io.Writer) error
	switch args[0] {
	case "render":
		cmd = render
	case "check":
		cmd = check
	case "migrate":
		cmd = migrate
	case "inspect":
		cmd = inspect
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(ctx, args[1:], stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		var exit exitError
		if errors.As(err, &exit) {
			return int(exit)
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// exitError ends a command with a status and no further message.
type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// --- Field flags ---
type fieldFlags struct {
	autoCreate bool
	autoUpdate bool
	autoNow    bool
	nullable   bool
	def        string
}

func (f *fieldFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.autoCreate, "auto-create", false, "Set the column to the current time on insert")
	fs.BoolVar(&f.autoUpdate, "auto-update", false, "Refresh the column on every update")
	fs.BoolVar(&f.autoNow, "auto-now", false, "Deprecated alias of -auto-update")
	fs.BoolVar(&f.nullable, "nullable", false, "Allow NULL")
	fs.StringVar(&f.def, "default", "", "Explicit default, e.g.: 2000-01-01 00:00:01")
}

// options returns the keyword names set, sorted as the fixture models
// name them.
func (f *fieldFlags) options() []string {
	var opts []string
	for _, o := range []struct {
		set  bool
		name string
	}{
		{f.autoCreate, forcedfields.KwAutoCreate},
		{f.autoNow, forcedfields.KwAutoNow},
		{f.autoUpdate, forcedfields.KwAutoUpdate},
		{f.def != "", forcedfields.KwDefault},
		{f.nullable, forcedfields.KwNullable},
	} {
		if o.set {
			opts = append(opts, o.name)
		}
	}
	return opts
}

func (f *fieldFlags) field(name string) (*forcedfields.TimestampField, error) {
	kwargs := map[string]interface{}{}
	for _, opt := range f.options() {
		if opt == forcedfields.KwDefault {
			kwargs[opt] = f.def
		} else {
			kwargs[opt] = true
		}
	}
	ts, err := forcedfields.NewTimestampFieldFromKwargs(nil, kwargs)
	if err != nil {
		return nil, err
	}
	return ts.Named(name), nil
}

func (f *fieldFlags) schema(ns schema.Namer) (*schema.Schema, error) {
	ts, err := f.field(fixtures.FieldName)
	if err != nil {
		return nil, err
	}
	return schema.New(fixtures.ModelName(f.options()...), ns,
		&schema.Field{Name: "ID", DBName: "id", Kind: dialect.Int, PrimaryKey: true},
		&schema.Field{Name: "TsField1", DBName: fixtures.FieldName, Kind: dialect.DateTime, Timestamp: ts},
	), nil
}

// --- Commands ---
func render(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	backend := fs.String("backend", "mysql", "Backend name: mysql, postgresql, sqlite, sqlserver, oracle")
	asJSON := fs.Bool("json", false, "Also print the field configuration as JSON")
	var ff fieldFlags
	ff.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts, err := ff.field(fixtures.FieldName)
	if err != nil {
		return err
	}

	spec := ts.ColumnType(*backend)
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "backend:\t%s\n", dialect.Normalize(*backend))
	fmt.Fprintf(w, "type:\t%s\n", spec.SQLType)
	fmt.Fprintf(w, "clause:\t%s\n", spec.Clause())
	fmt.Fprintf(w, "db_type:\t%s\n", spec.String())
	if err := w.Flush(); err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ts.Deconstruct())
	}
	return nil
}

func check(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", fixtures.FieldName, "Field name reported with each issue")
	var ff fieldFlags
	ff.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts, err := ff.field(*name)
	if err != nil {
		return err
	}

	issues := ts.Check()
	for _, issue := range issues {
		fmt.Fprintf(stdout, "%s: %s\n", issue.Level, issue)
	}
	if len(checks.Serious(issues)) > 0 {
		return exitError(1)
	}
	fmt.Fprintln(stdout, "System check identified no issues.")
	return nil
}

func openAlias(ctx context.Context, configPath, alias string, stderr io.Writer) (*config.Config, *connections.Connection, *migrator.Migrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	l, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	conn, err := connections.Open(ctx, cfg, alias)
	if err != nil {
		return nil, nil, nil, err
	}
	m := migrator.New(conn.DB, conn.Dialect, migrator.WithLogger(l), migrator.WithStrict(cfg.Checks.Strict))
	return cfg, conn, m, nil
}

func migrate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Config file, default ./forcedfields.yaml")
	alias := fs.String("alias", "sqlite", "Database alias")
	prefix := fs.String("prefix", "", "Table name prefix")
	drop := fs.Bool("drop", false, "Drop the table first")
	insert := fs.Bool("insert", false, "Insert a row with the column unset and print it")
	var ff fieldFlags
	ff.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, conn, m, err := openAlias(ctx, *configPath, *alias, stderr)
	if err != nil {
		return err
	}
	defer conn.Close()

	sch, err := ff.schema(schema.NamingStrategy{TablePrefix: *prefix, SingularTable: true})
	if err != nil {
		return err
	}
	if *drop {
		if err := m.DropTable(ctx, sch.Table); err != nil {
			return err
		}
	}
	if err := m.CreateTable(ctx, sch); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "created %s\n", sch.Table)
	if err := printColumns(ctx, m, sch.Table, stdout); err != nil {
		return err
	}

	if !*insert {
		return nil
	}
	s := store.New(conn.DB, conn.Dialect,
		store.WithLogger(m.Logger), store.WithEmulateAutoUpdate(cfg.Store.EmulateAutoUpdate))
	id, err := s.Insert(ctx, sch, store.Values{})
	if err != nil {
		return err
	}
	row, err := s.Get(ctx, sch, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "inserted id=%d %s=%v\n", id, fixtures.FieldName, row[fixtures.FieldName])
	return nil
}

func inspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Config file, default ./forcedfields.yaml")
	alias := fs.String("alias", "sqlite", "Database alias")
	table := fs.String("table", "", "Table name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *table == "" {
		return errors.New("-table is required")
	}

	_, conn, m, err := openAlias(ctx, *configPath, *alias, stderr)
	if err != nil {
		return err
	}
	defer conn.Close()
	return printColumns(ctx, m, *table, stdout)
}

// --- Helpers ---
func printColumns(ctx context.Context, m *migrator.Migrator, table string, out io.Writer) error {
	columnTypes, err := m.ColumnTypes(ctx, table)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tTYPE\tNULL\tDEFAULT\tEXTRA")
	for _, ct := range columnTypes {
		nullable, _ := ct.Nullable()
		def, ok := ct.DefaultValue()
		if !ok {
			def = "NULL"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", ct.Name(), ct.DataType(), nullable, def, ct.Extra())
	}
	return w.Flush()
}
