package entity

import (
	"fmt"
	"strings"
)

// FieldType is the scalar kind of a declared field. The values double as
// OpenAPI schema types.
type FieldType string

const (
	Text     FieldType = "string"
	Integer  FieldType = "integer"
	Number   FieldType = "number"
	DateTime FieldType = "date-time"
)

// Field is one column a client may write.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Example     any
}

// Entity describes a record kind: where it lives in the URL space, which table
// backs it and which fields Create and Update bind.
type Entity struct {
	// Name is the singular identifier used for OpenAPI schema and operation ids.
	Name string
	// Label prefixes the messages returned by Update and Delete.
	Label string
	// Tag groups the operations in the documentation.
	Tag string
	// Path is the segment under /api.
	Path   string
	Table  string
	Fields []Field
}

// CollectionPath is the route served by List and Create.
func (e Entity) CollectionPath() string {
	return "/api/" + e.Path
}

// ItemPath is the route served by Update and Delete.
func (e Entity) ItemPath() string {
	return e.CollectionPath() + "/{id}"
}

func (e Entity) NotFoundMessage() string {
	return e.Label + " not found"
}

func (e Entity) UpdatedMessage() string {
	return e.Label + " updated successfully"
}

func (e Entity) DeletedMessage() string {
	return e.Label + " deleted successfully"
}

// FieldNames returns the declared field names in declaration order.
func (e Entity) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

func (e Entity) listStatement() string {
	return "SELECT * FROM " + e.Table
}

func (e Entity) insertStatement() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(e.Fields)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		e.Table, strings.Join(e.FieldNames(), ", "), placeholders)
}

func (e Entity) updateStatement() string {
	assignments := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		assignments[i] = f.Name + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", e.Table, strings.Join(assignments, ", "))
}

func (e Entity) deleteStatement() string {
	return "DELETE FROM " + e.Table + " WHERE id = ?"
}
