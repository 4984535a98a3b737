// Package mysql compiles statements for MySQL and MariaDB.
package mysql

import (
	"context"
	"strings"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// DisplayName names the dialect in errors.
const DisplayName = "MySQL/MariaDB"

// maxLimit stands in for a missing limit when an offset is given.
const maxLimit = "18446744073709551615"

// QueryBuilder is the MySQL and MariaDB query builder.
type QueryBuilder struct {
	sql.Generic
	probe *fractionalProbe
}

// NewQueryBuilder returns a query builder for conn. conn may be nil for
// statements that need no table metadata.
func NewQueryBuilder(conn *sql.Connection) *QueryBuilder {
	b := sql.NewBuilder(dialect.MySQL, NewQuoter(), conn, FractionalTypes)
	qb := &QueryBuilder{
		Generic: sql.Generic{B: b, DisplayName: DisplayName, Format: Format},
		probe:   &fractionalProbe{conn: conn},
	}
	b.Types = qb.types
	b.Limit = BuildLimit
	b.Register(sql.KindJSON, buildJSON)
	return qb
}

// types picks the type map by server capability. Without a way to ask
// the server, fractional seconds are assumed.
func (qb *QueryBuilder) types(ctx context.Context) map[string]string {
	conn := qb.probe.conn
	if conn == nil || (conn.Driver == nil && conn.Version == "") {
		return FractionalTypes
	}
	if qb.probe.supported(ctx) {
		return FractionalTypes
	}
	return LegacyTypes
}

// BuildLimit renders "LIMIT n [OFFSET o]". An offset without a limit
// renders "LIMIT o, max" with the largest unsigned 64-bit row count.
func BuildLimit(limit, offset any) string {
	var s string
	if sql.HasLimit(limit) {
		s = "LIMIT " + sql.LimitString(limit)
		if sql.HasOffset(offset) {
			s += " OFFSET " + sql.LimitString(offset)
		}
	} else if sql.HasOffset(offset) {
		s = "LIMIT " + sql.LimitString(offset) + ", " + maxLimit
	}
	return s
}

func buildJSON(b *sql.Builder, e sql.Expression, p *sql.Params) (string, error) {
	s, err := sql.BuildJSON(b, e, p)
	if err != nil {
		return "", err
	}
	if _, ok := e.(*sql.JSONExpr).Value.(*sql.Query); ok {
		return s, nil
	}
	return "CAST(" + s + " AS JSON)", nil
}

// Insert renders an INSERT. A row without columns inserts DEFAULT into
// the primary key, or "() VALUES ()" for tables without one.
func (qb *QueryBuilder) Insert(ctx context.Context, table string, src sql.InsertSource, p *sql.Params) (string, error) {
	b := qb.B
	names, placeholders, values, err := b.PrepareInsertValues(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	if _, ok := src.(*sql.Query); !ok && len(names) == 0 {
		ts, err := b.TableSchema(ctx, table)
		if err != nil {
			return "", err
		}
		if ts == nil || len(ts.PrimaryKey) == 0 {
			return "INSERT INTO " + b.Quoter.QuoteTableName(table) + " () VALUES ()", nil
		}
		for _, pk := range ts.PrimaryKey {
			names = append(names, b.Quoter.QuoteColumnName(pk))
			placeholders = append(placeholders, "DEFAULT")
		}
	}
	return b.InsertSQL(table, names, placeholders, values), nil
}

// Upsert renders INSERT ... ON DUPLICATE KEY UPDATE, or INSERT IGNORE
// when nothing is to be updated.
func (qb *QueryBuilder) Upsert(ctx context.Context, table string, src sql.InsertSource, up sql.Update, p *sql.Params) (string, error) {
	b := qb.B
	insert, err := qb.Insert(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	uc, err := b.PrepareUpsertColumns(ctx, table, src, up)
	if err != nil {
		return "", err
	}
	if len(uc.Unique) == 0 {
		return insert, nil
	}
	if uc.DoNothing(up) {
		return "INSERT IGNORE" + strings.TrimPrefix(insert, "INSERT"), nil
	}
	sets, err := b.PrepareUpsertSets(ctx, table, uc, up, func(col string) string {
		return "VALUES(" + col + ")"
	}, p)
	if err != nil {
		return "", err
	}
	return insert + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", "), nil
}

// CreateIndex supports plain, UNIQUE, FULLTEXT and SPATIAL indexes.
func (qb *QueryBuilder) CreateIndex(name, table string, columns []string, indexType string) (string, error) {
	kind, err := qb.IndexType(indexType, sql.IndexUnique, sql.IndexFulltext, sql.IndexSpatial)
	if err != nil {
		return "", err
	}
	return qb.B.CreateIndex(kind, name, table, columns), nil
}

// ResetSequence sets the AUTO_INCREMENT counter of table. A nil value
// continues after the largest primary key.
func (qb *QueryBuilder) ResetSequence(ctx context.Context, table string, value any) (string, error) {
	b := qb.B
	ts, err := b.RequireTableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts.SequenceName == "" {
		return "", noSequence(table)
	}
	quoted := b.Quoter.QuoteTableName(table)
	var next int64
	if value == nil {
		if len(ts.PrimaryKey) == 0 {
			return "", noPrimaryKey(table)
		}
		maxPK, err := b.Conn.QueryScalar(ctx, "SELECT MAX("+b.Quoter.QuoteColumnName(ts.PrimaryKey[0])+") FROM "+quoted, []any{})
		if err != nil {
			return "", err
		}
		if next, err = sql.Int64(maxPK); err != nil {
			return "", err
		}
		next++
	} else if next, err = sql.Int64(value); err != nil {
		return "", err
	}
	return "ALTER TABLE " + quoted + " AUTO_INCREMENT=" + itoa(next), nil
}

// CheckIntegrity toggles foreign key checks for the session.
func (qb *QueryBuilder) CheckIntegrity(_ context.Context, check bool, _, _ string) (string, error) {
	if check {
		return "SET FOREIGN_KEY_CHECKS = 1;", nil
	}
	return "SET FOREIGN_KEY_CHECKS = 0;", nil
}

var _ sql.QueryBuilder = (*QueryBuilder)(nil)
