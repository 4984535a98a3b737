package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// config is the statement file.
type config struct {
	Dialect       string                `yaml:"dialect"`
	ServerVersion string                `yaml:"server_version"`
	Tables        []*schema.TableSchema `yaml:"tables"`
	Views         []view                `yaml:"views"`
	Statements    []statement           `yaml:"statements"`
}

type view struct {
	Schema string `yaml:"schema"`
	Name   string `yaml:"name"`
}

// statement describes one operation. Op selects which fields apply.
type statement struct {
	Op      string      `yaml:"op"`
	Table   string      `yaml:"table"`
	Values  row         `yaml:"values"`
	Select  *selectSpec `yaml:"select"`
	Update  updateSpec  `yaml:"update"`
	Where   row         `yaml:"where"`
	Columns row         `yaml:"columns"`
	Options string      `yaml:"options"`

	Column    string   `yaml:"column"`
	Type      string   `yaml:"type"`
	NewName   string   `yaml:"new_name"`
	Comment   *string  `yaml:"comment"`
	Name      string   `yaml:"name"`
	On        []string `yaml:"on"`
	IndexType string   `yaml:"index_type"`

	Start     int64  `yaml:"start"`
	Increment int64  `yaml:"increment"`
	MinValue  *int64 `yaml:"min_value"`
	MaxValue  *int64 `yaml:"max_value"`
	Cache     int64  `yaml:"cache"`
	Cycle     bool   `yaml:"cycle"`
	Value     any    `yaml:"value"`

	Check  *bool  `yaml:"check"`
	Schema string `yaml:"schema"`
}

// selectSpec is a SELECT used as a query or as an insert source.
// OrderBy items prefixed with "-" sort descending.
type selectSpec struct {
	Columns []string `yaml:"columns"`
	From    []string `yaml:"from"`
	Where   row      `yaml:"where"`
	OrderBy []string `yaml:"order_by"`
	Limit   any      `yaml:"limit"`
	Offset  any      `yaml:"offset"`
}

func (s *selectSpec) query() *sql.Query {
	q := sql.Select(s.Columns...).From(s.From...)
	if len(s.Where) > 0 {
		q.Where(s.Where.hash())
	}
	for _, o := range s.OrderBy {
		if len(o) > 1 && o[0] == '-' {
			q.OrderBy(sql.Desc(o[1:]))
		} else {
			q.OrderBy(sql.Asc(o))
		}
	}
	return q.Limit(s.Limit).Offset(s.Offset)
}

// row is a YAML mapping read in document order. A value tagged !expr is
// rendered as raw SQL instead of being bound.
type row sql.Columns

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	cols := make(row, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Tag == "!expr" {
			cols = append(cols, sql.Col(k.Value, sql.Expr(v.Value)))
			continue
		}
		var val any
		if err := v.Decode(&val); err != nil {
			return fmt.Errorf("line %d: %w", v.Line, err)
		}
		cols = append(cols, sql.Col(k.Value, val))
	}
	*r = cols
	return nil
}

func (r row) columns() sql.Columns { return sql.Columns(r) }

func (r row) hash() sql.Expression {
	if len(r) == 0 {
		return nil
	}
	return sql.Hash(r...)
}

// updateSpec is the conflict branch of an upsert: "all", "none" or a
// mapping of assignments. It defaults to all.
type updateSpec struct {
	sql.Update
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *updateSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "all":
			u.Update = sql.UpdateAll
		case "none":
			u.Update = sql.UpdateNone
		default:
			return fmt.Errorf("line %d: update must be all, none or a mapping, got %q", node.Line, node.Value)
		}
	case yaml.MappingNode:
		var r row
		if err := r.UnmarshalYAML(node); err != nil {
			return err
		}
		u.Update = sql.UpdateWith(r.columns())
	default:
		return fmt.Errorf("line %d: update must be all, none or a mapping", node.Line)
	}
	return nil
}

// loadConfig reads and validates a statement file.
func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Dialect == "" {
		return nil, fmt.Errorf("config %s: dialect is required", path)
	}
	if r := schema.ValidateSchema(cfg.Tables); r.HasErrors() {
		return nil, fmt.Errorf("config %s: %w", path, r.Errors[0])
	}
	return &cfg, nil
}

// connection returns the connection the query builder reads table
// metadata from. Validation warnings are logged.
func (c *config) connection(logger *slog.Logger) (*sql.Connection, error) {
	for _, w := range schema.ValidateSchema(c.Tables).Warnings {
		logger.Warn("table definition", "warning", w.Error())
	}
	reader, err := schema.NewStatic(c.Tables...)
	if err != nil {
		return nil, err
	}
	for _, v := range c.Views {
		reader.AddView(v.Schema, v.Name)
	}
	return &sql.Connection{
		Version: c.ServerVersion,
		Schema:  reader,
		Logger:  logger,
	}, nil
}
