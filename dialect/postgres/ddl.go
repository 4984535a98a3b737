package postgres

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql"
)

var (
	rawAlterRe  = regexp.MustCompile(`(?i)^(DROP|SET|RESET)\s+`)
	defaultRe   = regexp.MustCompile(`(?i)\s+DEFAULT\s+(["']?\w*["']?)`)
	notNullRe   = regexp.MustCompile(`(?i)\s+NOT\s+NULL`)
	nullRe      = regexp.MustCompile(`(?i)\s+NULL`)
	checkRe     = regexp.MustCompile(`(?i)\s+CHECK\s+\((.+)\)`)
	uniqueRe    = regexp.MustCompile(`(?i)\s+UNIQUE`)
	identCharRe = regexp.MustCompile(`(?i)[^a-z0-9_]`)
)

// AlterColumn changes the type of a column. Defaults, nullability,
// CHECK and UNIQUE found in the definition become separate clauses of
// the same statement. Definitions starting with DROP, SET or RESET are
// passed through as an ALTER COLUMN action.
func (qb *QueryBuilder) AlterColumn(ctx context.Context, table, column string, t any) (string, error) {
	q := qb.B.Quoter
	col := q.QuoteColumnName(column)
	stmt := "ALTER TABLE " + q.QuoteTableName(table) + " "
	if s, ok := t.(string); ok && rawAlterRe.MatchString(s) {
		return stmt + "ALTER COLUMN " + col + " " + s, nil
	}
	typ := "TYPE " + qb.B.ColumnType(ctx, t)
	var clauses []string
	if m := defaultRe.FindStringSubmatch(typ); m != nil {
		typ = defaultRe.ReplaceAllString(typ, "")
		clauses = append(clauses, "ALTER COLUMN "+col+" SET DEFAULT "+m[1])
	} else {
		clauses = append(clauses, "ALTER COLUMN "+col+" DROP DEFAULT")
	}
	if notNullRe.MatchString(typ) {
		typ = notNullRe.ReplaceAllString(typ, "")
		clauses = append(clauses, "ALTER COLUMN "+col+" SET NOT NULL")
	} else {
		typ = nullRe.ReplaceAllString(typ, "")
		clauses = append(clauses, "ALTER COLUMN "+col+" DROP NOT NULL")
	}
	if m := checkRe.FindStringSubmatch(typ); m != nil {
		typ = checkRe.ReplaceAllString(typ, "")
		prefix := identCharRe.ReplaceAllString(table+"_"+column, "")
		clauses = append(clauses, "ADD CONSTRAINT "+prefix+"_check CHECK ("+m[1]+")")
	}
	if uniqueRe.MatchString(typ) {
		typ = uniqueRe.ReplaceAllString(typ, "")
		clauses = append(clauses, "ADD UNIQUE ("+col+")")
	}
	clauses = slices.Insert(clauses, 0, "ALTER COLUMN "+col+" "+typ)
	return stmt + strings.Join(clauses, ", "), nil
}

// CreateIndex renders a plain or UNIQUE index, or an index using one of
// the access methods btree, hash, gist, gin, spgist and brin.
func (qb *QueryBuilder) CreateIndex(name, table string, columns []string, indexType string) (string, error) {
	kind, err := qb.IndexType(indexType, sql.IndexUnique, IndexBTree, IndexHash, IndexGist, IndexGin, IndexSPGist, IndexBrin)
	if err != nil {
		return "", err
	}
	b := qb.B
	if kind == "" || kind == sql.IndexUnique {
		return b.CreateIndex(kind, name, table, columns), nil
	}
	return "CREATE INDEX " + b.Quoter.QuoteTableName(name) + " ON " + b.Quoter.QuoteTableName(table) +
		" USING " + kind + " (" + b.BuildColumns(columns) + ")", nil
}

// DropIndex renders "DROP INDEX name". An unqualified index of a
// schema-qualified table is qualified with the table schema.
func (qb *QueryBuilder) DropIndex(_ context.Context, name, table string) (string, error) {
	if strings.Contains(table, ".") && !strings.Contains(name, ".") {
		if t := qb.B.Quoter.SplitTableName(table); t.Schema != "" {
			name = t.Schema + "." + name
		}
	}
	return "DROP INDEX " + qb.B.Quoter.QuoteTableName(name), nil
}

// CreateSequence renders CREATE SEQUENCE for the sequence of table.
func (qb *QueryBuilder) CreateSequence(table string, start, increment int64, opts sql.SequenceOptions) (string, error) {
	if increment == 0 {
		increment = 1
	}
	var sb strings.Builder
	sb.WriteString("CREATE SEQUENCE " + qb.B.SequenceName(table))
	sb.WriteString(" INCREMENT BY " + strconv.FormatInt(increment, 10))
	if opts.MinValue != nil {
		sb.WriteString(" MINVALUE " + strconv.FormatInt(*opts.MinValue, 10))
	} else {
		sb.WriteString(" NO MINVALUE")
	}
	if opts.MaxValue != nil {
		sb.WriteString(" MAXVALUE " + strconv.FormatInt(*opts.MaxValue, 10))
	} else {
		sb.WriteString(" NO MAXVALUE")
	}
	sb.WriteString(" START WITH " + strconv.FormatInt(start, 10))
	if opts.Cache > 0 {
		sb.WriteString(" CACHE " + strconv.FormatInt(opts.Cache, 10))
	}
	if opts.Cycle {
		sb.WriteString(" CYCLE")
	} else {
		sb.WriteString(" NO CYCLE")
	}
	return sb.String(), nil
}

// DropSequence renders DROP SEQUENCE for the sequence of table.
func (qb *QueryBuilder) DropSequence(table string) (string, error) {
	return "DROP SEQUENCE " + qb.B.SequenceName(table), nil
}

// ResetSequence renders a SETVAL of the table sequence. A nil value
// continues after the largest primary key.
func (qb *QueryBuilder) ResetSequence(ctx context.Context, table string, value any) (string, error) {
	b := qb.B
	ts, err := b.RequireTableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts.SequenceName == "" {
		return "", sqlforge.NewInvalidArgumentError(table, "there is no sequence associated with table")
	}
	seq := strings.ReplaceAll(pgx.Identifier(strings.Split(ts.SequenceName, ".")).Sanitize(), "'", "''")
	var next string
	if value == nil {
		if len(ts.PrimaryKey) == 0 {
			return "", sqlforge.NewInvalidArgumentError(table, "table has no primary key")
		}
		next = "(SELECT COALESCE(MAX(" + b.Quoter.QuoteColumnName(ts.PrimaryKey[0]) + "),0) FROM " + b.Quoter.QuoteTableName(table) + ")+1"
	} else {
		n, err := sql.Int64(value)
		if err != nil {
			return "", err
		}
		next = strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("SELECT SETVAL('%s',%s,false)", seq, next), nil
}

// CheckIntegrity enables or disables the triggers, foreign key checks
// included, of table or of every table of the schema. Views are
// skipped.
func (qb *QueryBuilder) CheckIntegrity(ctx context.Context, check bool, schemaName, table string) (string, error) {
	b := qb.B
	if schemaName == "" {
		schemaName = b.DefaultSchema
	}
	tables, err := b.IntegrityTables(ctx, schemaName, table)
	if err != nil {
		return "", err
	}
	action := "DISABLE"
	if check {
		action = "ENABLE"
	}
	var stmts []string
	for _, t := range tables {
		stmts = append(stmts, "ALTER TABLE "+b.Quoter.QuoteTableName(schemaName+"."+t)+" "+action+" TRIGGER ALL;")
	}
	return strings.Join(stmts, " "), nil
}
