package schema

import (
	"fmt"
	"go/ast"
	"reflect"

	"github.com/forcedfields/forcedfields/checks"
)

// Check identifiers reported by Schema.Check.
const (
	IDNoPrimaryKey     = "schema.E001"
	IDDuplicatedColumn = "schema.E002"
)

// Schema is a table and its columns.
type Schema struct {
	Name           string
	Table          string
	Fields         []*Field
	PrimaryField   *Field
	FieldsByDBName map[string]*Field
}

func (schema Schema) String() string {
	return schema.Name
}

// LookUpField finds a field by column or Go name.
func (schema Schema) LookUpField(name string) *Field {
	if field, ok := schema.FieldsByDBName[name]; ok {
		return field
	}
	for _, field := range schema.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// TimestampFields returns the forced timestamp columns in declaration order.
func (schema Schema) TimestampFields() []*Field {
	var fields []*Field
	for _, field := range schema.Fields {
		if field.Timestamp != nil {
			fields = append(fields, field)
		}
	}
	return fields
}

// New builds a schema from fields. Column names left empty are derived
// with ns, and timestamp fields are named "table.column" for checks.
func New(name string, ns Namer, fields ...*Field) *Schema {
	schema := &Schema{
		Name:           name,
		Table:          ns.TableName(name),
		FieldsByDBName: map[string]*Field{},
	}

	for _, field := range fields {
		if field.DBName == "" {
			field.DBName = ns.ColumnName(schema.Table, field.Name)
		}
		if field.Timestamp != nil {
			field.Timestamp = field.Timestamp.Named(schema.Table + "." + field.DBName)
		}
		if _, ok := schema.FieldsByDBName[field.DBName]; !ok {
			schema.FieldsByDBName[field.DBName] = field
		}
		if field.PrimaryKey && schema.PrimaryField == nil {
			schema.PrimaryField = field
		}
		schema.Fields = append(schema.Fields, field)
	}

	if schema.PrimaryField == nil {
		if f, ok := schema.FieldsByDBName["id"]; ok && f.Timestamp == nil {
			f.PrimaryKey = true
			schema.PrimaryField = f
		}
	}
	return schema
}

// Parse reads a struct, or a pointer to one, tagged with "forcedfields".
func Parse(dest interface{}, ns Namer) (*Schema, error) {
	if dest == nil {
		return nil, fmt.Errorf("unsupported data %+v when parsing model", dest)
	}

	modelType := reflect.ValueOf(dest).Type()
	for modelType.Kind() == reflect.Slice || modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unsupported data type %v when parsing model", modelType)
	}

	var (
		parsing = &Schema{Name: modelType.Name()}
		fields  []*Field
	)
	for i := 0; i < modelType.NumField(); i++ {
		fieldStruct := modelType.Field(i)
		if !ast.IsExported(fieldStruct.Name) {
			continue
		}
		field, err := parsing.parseField(fieldStruct)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", modelType.Name(), err)
		}
		if field != nil {
			fields = append(fields, field)
		}
	}
	return New(modelType.Name(), ns, fields...), nil
}

// Check reports timestamp configuration issues and structural problems.
// Issues are returned, never raised.
func (schema *Schema) Check() []checks.Issue {
	var issues []checks.Issue
	seen := map[string]bool{}
	for _, field := range schema.Fields {
		if field.Timestamp != nil {
			issues = append(issues, field.Timestamp.Check()...)
		}
		if seen[field.DBName] {
			issues = append(issues, checks.NewError(
				IDDuplicatedColumn, schema.Table+"."+field.DBName,
				fmt.Sprintf("The column %q is declared more than once.", field.DBName),
				"Set a distinct column tag.",
			))
		}
		seen[field.DBName] = true
	}

	if schema.PrimaryField == nil {
		issues = append(issues, checks.NewError(
			IDNoPrimaryKey, schema.Table,
			fmt.Sprintf("The model %s has no primary key.", schema.Name),
			"Add an ID field or tag one field with primaryKey.",
		))
	}
	return issues
}
