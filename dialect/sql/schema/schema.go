// Package schema describes tables as the query builders see them, and
// renders column definitions through dialect formats.
package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// TableSchema is the metadata of one table.
type TableSchema struct {
	Schema       string          `yaml:"schema"`
	Name         string          `yaml:"name"`
	PrimaryKey   []string        `yaml:"primary_key"`
	Columns      []*ColumnSchema `yaml:"columns"`
	SequenceName string          `yaml:"sequence"`
	// Uniques holds unique constraints and unique indexes.
	Uniques []Constraint `yaml:"uniques"`
}

// FullName returns the schema-qualified table name.
func (t *TableSchema) FullName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column returns the named column, or nil.
func (t *TableSchema) Column(name string) *ColumnSchema {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Constraints returns the primary key followed by the unique
// constraints, without duplicates over the same column set.
func (t *TableSchema) Constraints() []Constraint {
	var (
		all  []Constraint
		seen = make(map[string]bool)
	)
	if len(t.PrimaryKey) > 0 {
		all = append(all, Constraint{Name: "PRIMARY", Columns: t.PrimaryKey})
	}
	all = append(all, t.Uniques...)
	out := all[:0:0]
	for _, c := range all {
		key := slices.Clone(c.Columns)
		slices.Sort(key)
		k := strings.Join(key, "\x00")
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// ColumnSchema is the metadata of one column.
type ColumnSchema struct {
	Name string `yaml:"name"`
	// Type is the abstract type tag, such as "string" or "integer".
	Type string `yaml:"type"`
	// DBType is the physical type as reported by the database.
	DBType string `yaml:"db_type"`
	// ValueType is the Go-side kind of the values: string, integer,
	// double, boolean or resource.
	ValueType     string `yaml:"value_type"`
	Size          int    `yaml:"size"`
	Precision     int    `yaml:"precision"`
	Scale         int    `yaml:"scale"`
	AllowNull     bool   `yaml:"allow_null"`
	AutoIncrement bool   `yaml:"auto_increment"`
	IsPrimaryKey  bool   `yaml:"primary_key"`
	DefaultValue  any    `yaml:"default"`
	Comment       string `yaml:"comment"`
	// Dimension is the array dimension of PostgreSQL array columns.
	Dimension int `yaml:"dimension"`
}

// Constraint is a named set of columns.
type Constraint struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// Reader provides table metadata to the query builders. TableSchema
// returns nil without error when the table does not exist.
type Reader interface {
	TableSchema(ctx context.Context, name string) (*TableSchema, error)
	TableNames(ctx context.Context, schema string) ([]string, error)
	ViewNames(ctx context.Context, schema string) ([]string, error)
}

// Static is an in-memory Reader. It is safe for concurrent use.
type Static struct {
	mu     sync.RWMutex
	tables map[string]*TableSchema
	order  []string
	views  map[string][]string
}

var _ Reader = (*Static)(nil)

// NewStatic returns a Static reader holding the given tables.
func NewStatic(tables ...*TableSchema) (*Static, error) {
	s := &Static{
		tables: make(map[string]*TableSchema),
		views:  make(map[string][]string),
	}
	for _, t := range tables {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add validates t and registers it, replacing a table of the same name.
func (s *Static) Add(t *TableSchema) error {
	if r := ValidateTable(t); r.HasErrors() {
		return fmt.Errorf("schema: invalid table %q: %w", t.FullName(), r.Errors[0])
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := t.FullName()
	if _, ok := s.tables[name]; !ok {
		s.order = append(s.order, name)
	}
	s.tables[name] = t
	return nil
}

// AddView registers a view name in the given schema.
func (s *Static) AddView(schema, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[schema] = append(s.views[schema], name)
}

// TableSchema implements Reader. Unqualified names also match tables
// registered with a schema.
func (s *Static) TableSchema(_ context.Context, name string) (*TableSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[name]; ok {
		return t, nil
	}
	for _, key := range s.order {
		if t := s.tables[key]; t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

// TableNames implements Reader. An empty schema lists every table name.
func (s *Static) TableNames(_ context.Context, schema string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, key := range s.order {
		if t := s.tables[key]; schema == "" || t.Schema == schema || t.Schema == "" {
			names = append(names, t.Name)
		}
	}
	return names, nil
}

// ViewNames implements Reader.
func (s *Static) ViewNames(_ context.Context, schema string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.views[schema]), nil
}
