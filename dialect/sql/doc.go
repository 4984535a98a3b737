// Package sql provides the dialect independent half of the SQL compiler
// and the database/sql driver wrapper used to execute its output.
//
// The compiler turns portable operation descriptions into dialect SQL
// text plus a named parameter bag. Dialect packages (mysql, postgres,
// oracle, mssql, sqlite) compose a Builder, adjust its hooks and
// expression builders, and implement QueryBuilder and Command.
//
// # Parameters
//
// Values are never inlined. Each value is added to a Params bag and
// replaced by a named placeholder:
//
//	p := sql.NewParams()
//	query, _ := qb.Insert(ctx, "user", sql.Columns{sql.Col("name", "a8m")}, p)
//	// INSERT INTO `user` (`name`) VALUES (:qp0)
//
// A Binder rewrites the named placeholders into the style of a driver
// when the statement is executed.
//
// # Expressions
//
// Conditions are built from expression variants:
//
//	sql.And(
//		sql.Hash(sql.Col("status", 1)),
//		sql.Or(sql.Like("name", "foo"), sql.In("id", 1, 2, 3)),
//	)
//
// Rendering dispatches on Kind through a per-Builder registry so that a
// dialect can replace the builder of one variant, e.g. the Oracle IN
// builder splitting long value lists.
//
// # Drivers
//
// Driver wraps a *sql.DB. StatsDriver counts statements and reports
// slow ones, DebugDriver logs every statement.
package sql
