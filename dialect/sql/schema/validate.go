package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking marks a change that can fail or lose data.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors reports whether there are validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether there are validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges reports whether any error or warning is breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures ValidateDiff.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowDropUnique    bool
	allowNullToNotNull bool
}

// AllowDropColumn reports dropped columns as warnings.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) { c.allowDropColumn = true }
}

// AllowDropTable reports dropped tables as warnings.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) { c.allowDropTable = true }
}

// AllowDropUnique reports dropped unique constraints as warnings.
func AllowDropUnique() ValidateOption {
	return func(c *validateConfig) { c.allowDropUnique = true }
}

// AllowNullToNotNull reports NULL to NOT NULL changes as warnings.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) { c.allowNullToNotNull = true }
}

// ValidateDiff compares two versions of a set of tables and reports the
// changes that can fail against existing data or lose it.
//
//	result := schema.ValidateDiff(current, desired, schema.AllowDropColumn())
//	if result.HasBreakingChanges() {
//	    return errors.New(result.String())
//	}
func ValidateDiff(current, desired []*TableSchema, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	desiredMap := make(map[string]*TableSchema, len(desired))
	for _, t := range desired {
		desiredMap[t.FullName()] = t
	}
	for _, cur := range current {
		want, ok := desiredMap[cur.FullName()]
		if !ok {
			result.add(&ValidationError{
				Table:    cur.FullName(),
				Message:  "table will be dropped",
				Breaking: true,
			}, cfg.allowDropTable)
			continue
		}
		validateTableDiff(cur, want, cfg, result)
	}
	return result
}

func (r *ValidationResult) add(e *ValidationError, allowed bool) {
	if allowed {
		r.Warnings = append(r.Warnings, e)
	} else {
		r.Errors = append(r.Errors, e)
	}
}

func (r *ValidationResult) warn(table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, &ValidationError{
		Table:   table,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	})
}

func validateTableDiff(current, desired *TableSchema, cfg *validateConfig, result *ValidationResult) {
	name := current.FullName()
	for _, c := range current.Columns {
		if desired.Column(c.Name) == nil {
			result.add(&ValidationError{
				Table:    name,
				Column:   c.Name,
				Message:  "column will be dropped",
				Breaking: true,
			}, cfg.allowDropColumn)
		}
	}
	for _, want := range desired.Columns {
		cur := current.Column(want.Name)
		if cur == nil {
			if !want.AllowNull && want.DefaultValue == nil && !want.AutoIncrement {
				result.warn(name, want.Name, "new NOT NULL column without default value may fail if table has data")
			}
			continue
		}
		if cur.Type != want.Type {
			result.warn(name, want.Name, "column type changing from %s to %s", cur.Type, want.Type)
		}
		if cur.AllowNull && !want.AllowNull {
			result.add(&ValidationError{
				Table:    name,
				Column:   want.Name,
				Message:  "column changing from NULL to NOT NULL may fail if column has NULL values",
				Breaking: true,
			}, cfg.allowNullToNotNull)
		}
		if cur.Size > 0 && want.Size > 0 && want.Size < cur.Size {
			result.warn(name, want.Name, "column size reducing from %d to %d may truncate data", cur.Size, want.Size)
		}
	}
	curUniques := constraintSet(current.Uniques)
	wantUniques := constraintSet(desired.Uniques)
	for key, c := range wantUniques {
		if _, ok := curUniques[key]; !ok {
			result.warn(name, "", "adding unique constraint %q may fail if duplicate values exist", c.Name)
		}
	}
	for key, c := range curUniques {
		if _, ok := wantUniques[key]; !ok {
			result.add(&ValidationError{
				Table:   name,
				Message: fmt.Sprintf("unique constraint %q will be dropped", c.Name),
			}, cfg.allowDropUnique)
		}
	}
}

func constraintSet(cs []Constraint) map[string]Constraint {
	m := make(map[string]Constraint, len(cs))
	for _, c := range cs {
		m[strings.Join(c.Columns, ",")] = c
	}
	return m
}

// ValidateTable checks that a table definition is consistent: column
// names are unique and every key, unique and sequence reference points
// to a declared column.
func ValidateTable(t *TableSchema) *ValidationResult {
	result := &ValidationResult{}
	name := t.FullName()
	if t.Name == "" {
		result.Errors = append(result.Errors, &ValidationError{Table: name, Message: "table has no name"})
	}
	if len(t.PrimaryKey) == 0 {
		result.warn(name, "", "table has no primary key")
	}
	cols := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if cols[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		cols[c.Name] = true
	}
	for _, pk := range t.PrimaryKey {
		if !cols[pk] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Message: fmt.Sprintf("primary key references non-existent column %q", pk),
			})
		}
	}
	for _, u := range t.Uniques {
		for _, col := range u.Columns {
			if !cols[col] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   name,
					Message: fmt.Sprintf("unique constraint %q references non-existent column %q", u.Name, col),
				})
			}
		}
	}
	if t.SequenceName != "" && len(t.PrimaryKey) == 0 {
		result.warn(name, "", "sequence %q is set but the table has no primary key", t.SequenceName)
	}
	return result
}

// ValidateSchema validates all tables and rejects duplicate table names.
func ValidateSchema(tables []*TableSchema) *ValidationResult {
	result := &ValidationResult{}
	names := make(map[string]bool)
	for _, t := range tables {
		if names[t.FullName()] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.FullName(),
				Message: "duplicate table name",
			})
		}
		names[t.FullName()] = true
		r := ValidateTable(t)
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)
	}
	return result
}
