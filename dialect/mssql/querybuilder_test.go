package mssql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
	"github.com/syssam/sqlforge/internal/fixture"
)

func newQueryBuilder() *QueryBuilder {
	return NewQueryBuilder(&sql.Connection{Schema: fixture.Static()})
}

func TestQuoter(t *testing.T) {
	q := NewQuoter()
	assert.Equal(t, "[table]", q.QuoteTableName("table"))
	assert.Equal(t, "[dbo].[table]", q.QuoteTableName("dbo.table"))
	assert.Equal(t, "[t].[c]", q.QuoteColumnName("t.c"))
	assert.Equal(t, "[quoted]", q.QuoteSimpleTableName("[quoted]"))
	assert.Equal(t, "table", q.UnquoteSimpleTableName("[table]"))
	assert.Equal(t, sql.TableName{Catalog: "db", Schema: "dbo", Name: "t.x"}, q.SplitTableName("[db].[dbo].[t.x]"))
	assert.Equal(t, `'It''s'`, q.QuoteValue("It's"))
}

func TestColumnType(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()
	for _, typ := range schema.Types() {
		assert.NotEmpty(t, Types[typ], typ)
		assert.Equal(t, Types[typ], qb.ColumnType(ctx, typ))
	}
	tests := []struct {
		in   any
		want string
	}{
		{schema.TypePK, "int IDENTITY PRIMARY KEY"},
		{"string(50)", "nvarchar(50)"},
		{"decimal(12,4)", "decimal(12,4)"},
		{qb.Column(schema.TypeInteger).AutoIncrement().PrimaryKey(), "int IDENTITY PRIMARY KEY"},
		{qb.Column(schema.TypeAuto), "int IDENTITY(1,1)"},
		{qb.Column(schema.TypeAuto).Identity(5, 0), "int IDENTITY(5,1)"},
		{qb.Column(schema.TypeBigAuto).Identity(100, 10).NotNull(), "bigint IDENTITY(100,10) NOT NULL"},
		{qb.Column(schema.TypeInteger).Identity(7, 0), "int IDENTITY(7,1)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qb.ColumnType(ctx, tt.in))
	}
}

func TestPagination(t *testing.T) {
	qb := newQueryBuilder()
	tests := []struct {
		name  string
		query *sql.Query
		want  string
	}{
		{"none", sql.Select("id").From("customer").OrderBy(sql.Asc("id")), `SELECT [id] FROM [customer] ORDER BY [id]`},
		{"limit", sql.Select("id").From("customer").Limit(10), `SELECT [id] FROM [customer] ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY`},
		{"ordered page", sql.Select("id").From("customer").OrderBy(sql.Desc("id")).Limit(10).Offset(5), `SELECT [id] FROM [customer] ORDER BY [id] DESC OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY`},
		{"offset", sql.Select("id").From("customer").Offset(5), `SELECT [id] FROM [customer] ORDER BY (SELECT NULL) OFFSET 5 ROWS`},
		{"zero offset", sql.Select("id").From("customer").Offset(0), `SELECT [id] FROM [customer]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := qb.Select(tt.query, sql.NewParams())
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestExpressions(t *testing.T) {
	b := newQueryBuilder().Builder()
	tests := []struct {
		name   string
		expr   sql.Expression
		want   string
		params map[string]any
	}{
		{
			name:   "like",
			expr:   sql.Like("name", "50%_[x]"),
			want:   `[name] LIKE :qp0`,
			params: map[string]any{":qp0": "%50[%][_][[]x[]]%"},
		},
		{
			name:   "composite in",
			expr:   sql.InTuple([]string{"id", "name"}, []any{1, "a"}, []any{2, nil}),
			want:   `(([id]=:qp0 AND [name]=:qp1) OR ([id]=:qp2 AND [name] IS NULL))`,
			params: map[string]any{":qp0": 1, ":qp1": "a", ":qp2": 2},
		},
		{
			name:   "composite not in",
			expr:   &sql.InExpr{Columns: []string{"id", "name"}, Values: []any{[]any{1, "a"}}, Not: true},
			want:   `(([id]<>:qp0 OR [name]<>:qp1))`,
			params: map[string]any{":qp0": 1, ":qp1": "a"},
		},
		{
			name:   "empty composite in",
			expr:   sql.InTuple([]string{"id", "name"}),
			want:   `0=1`,
			params: map[string]any{},
		},
		{
			name:   "in",
			expr:   sql.In("id", 1, 2),
			want:   `[id] IN (:qp0, :qp1)`,
			params: map[string]any{":qp0": 1, ":qp1": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sql.NewParams()
			s, err := b.BuildExpression(tt.expr, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.params, p.Map())
		})
	}
	_, err := b.BuildExpression(&sql.InExpr{Columns: []string{"id", "name"}, Values: sql.Select("id", "name").From("t")}, sql.NewParams())
	require.True(t, sqlforge.IsNotSupported(err))
}

func TestUpsert(t *testing.T) {
	row := sql.Columns{
		sql.Col("email", "test@example.com"),
		sql.Col("address", "bar"),
		sql.Col("status", 1),
		sql.Col("profile_id", nil),
	}
	const (
		merge  = `MERGE [T_upsert] WITH (HOLDLOCK) USING (VALUES (:qp0, :qp1, :qp2, :qp3)) AS [EXCLUDED] ([email], [address], [status], [profile_id]) ON ([T_upsert].[email]=[EXCLUDED].[email])`
		insert = ` WHEN NOT MATCHED THEN INSERT ([email], [address], [status], [profile_id]) VALUES ([EXCLUDED].[email], [EXCLUDED].[address], [EXCLUDED].[status], [EXCLUDED].[profile_id]);`
	)
	tests := []struct {
		name   string
		table  string
		src    sql.InsertSource
		update sql.Update
		want   string
	}{
		{
			name:   "regular values",
			table:  "T_upsert",
			src:    row,
			update: sql.UpdateAll,
			want:   merge + ` WHEN MATCHED THEN UPDATE SET [address]=[EXCLUDED].[address], [status]=[EXCLUDED].[status], [profile_id]=[EXCLUDED].[profile_id]` + insert,
		},
		{
			name:   "do nothing",
			table:  "T_upsert",
			src:    row,
			update: sql.UpdateNone,
			want:   merge + insert,
		},
		{
			name:   "empty update map",
			table:  "T_upsert",
			src:    row,
			update: sql.UpdateWith(nil),
			want:   merge + insert,
		},
		{
			name:   "explicit update",
			table:  "T_upsert",
			src:    row,
			update: sql.UpdateWith(sql.Columns{sql.Col("address", "foo")}),
			want:   merge + ` WHEN MATCHED THEN UPDATE SET [address]=:qp4` + insert,
		},
		{
			name:   "query source",
			table:  "T_upsert",
			src:    sql.Select("email", "status").From("customer").Where(sql.Hash(sql.Col("id", 1))),
			update: sql.UpdateNone,
			want: `MERGE [T_upsert] WITH (HOLDLOCK) USING (SELECT [email], [status] FROM [customer] WHERE [id]=:qp0) AS [EXCLUDED] ([email], [status]) ON ([T_upsert].[email]=[EXCLUDED].[email]) ` +
				`WHEN NOT MATCHED THEN INSERT ([email], [status]) VALUES ([EXCLUDED].[email], [EXCLUDED].[status]);`,
		},
		{
			name:   "no unique constraint covered",
			table:  "T_upsert",
			src:    sql.Columns{sql.Col("address", "x")},
			update: sql.UpdateAll,
			want:   `INSERT INTO [T_upsert] ([address]) VALUES (:qp0)`,
		},
	}
	qb := newQueryBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := qb.Upsert(context.Background(), tt.table, tt.src, tt.update, sql.NewParams())
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestInsertWithReturningPks(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()
	tests := []struct {
		table string
		cols  sql.Columns
		want  string
	}{
		{
			"customer", sql.Columns{sql.Col("email", "a@b.c")},
			`SET NOCOUNT ON;DECLARE @temporary_inserted TABLE ([id] int);INSERT INTO [customer] ([email]) OUTPUT INSERTED.[id] INTO @temporary_inserted VALUES (:qp0);SELECT * FROM @temporary_inserted;`,
		},
		{
			"customer", sql.Columns{},
			`SET NOCOUNT ON;DECLARE @temporary_inserted TABLE ([id] int);INSERT INTO [customer] OUTPUT INSERTED.[id] INTO @temporary_inserted DEFAULT VALUES;SELECT * FROM @temporary_inserted;`,
		},
		{
			"order_item", sql.Columns{sql.Col("order_id", 1), sql.Col("item_id", 2)},
			`SET NOCOUNT ON;DECLARE @temporary_inserted TABLE ([order_id] int, [item_id] int);INSERT INTO [order_item] ([order_id], [item_id]) OUTPUT INSERTED.[order_id], INSERTED.[item_id] INTO @temporary_inserted VALUES (:qp0, :qp1);SELECT * FROM @temporary_inserted;`,
		},
		{
			"T_upsert_varbinary", sql.Columns{sql.Col("id", "k")},
			`SET NOCOUNT ON;DECLARE @temporary_inserted TABLE ([id] varchar(32));INSERT INTO [T_upsert_varbinary] ([id]) OUTPUT INSERTED.[id] INTO @temporary_inserted VALUES (:qp0);SELECT * FROM @temporary_inserted;`,
		},
		{"type", sql.Columns{sql.Col("int_col", 1)}, `INSERT INTO [type] ([int_col]) VALUES (:qp0)`},
	}
	for _, tt := range tests {
		query, err := qb.InsertWithReturningPks(ctx, tt.table, tt.cols, sql.NewParams())
		require.NoError(t, err)
		assert.Equal(t, tt.want, query)
	}
	assert.Equal(t, "binary(8)", outputType(&schema.ColumnSchema{DBType: "timestamp"}))
	assert.Equal(t, "sql_variant", outputType(nil))
}

func TestAlterColumn(t *testing.T) {
	qb := newQueryBuilder()
	tests := []struct {
		name string
		typ  any
		want string
	}{
		{"abstract type", "string(64)", `ALTER TABLE [foo1] ALTER COLUMN [bar] nvarchar(64)`},
		{
			"builder with default and unique",
			qb.Column(schema.TypeString, 255).NotNull().Default("xxx").Unique(),
			`ALTER TABLE [foo1] ALTER COLUMN [bar] nvarchar(255) NOT NULL; ` +
				`ALTER TABLE [foo1] ADD CONSTRAINT [DF_foo1_bar] DEFAULT 'xxx' FOR [bar]; ` +
				`ALTER TABLE [foo1] ADD CONSTRAINT [UQ_foo1_bar] UNIQUE ([bar])`,
		},
		{
			"check",
			"int CHECK (bar > 0)",
			`ALTER TABLE [foo1] ALTER COLUMN [bar] int; ALTER TABLE [foo1] ADD CONSTRAINT [CK_foo1_bar] CHECK (bar > 0)`,
		},
		{
			"function default",
			"datetime DEFAULT getdate()",
			`ALTER TABLE [foo1] ALTER COLUMN [bar] datetime; ALTER TABLE [foo1] ADD CONSTRAINT [DF_foo1_bar] DEFAULT getdate() FOR [bar]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := qb.AlterColumn(context.Background(), "foo1", "bar", tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestIndexes(t *testing.T) {
	qb := newQueryBuilder()
	for _, tt := range []struct{ kind, want string }{
		{"", `CREATE INDEX [idx] ON [t] ([a])`},
		{"clustered", `CREATE CLUSTERED INDEX [idx] ON [t] ([a])`},
		{sql.IndexNonClustered, `CREATE NONCLUSTERED INDEX [idx] ON [t] ([a])`},
		{sql.IndexUnique, `CREATE UNIQUE INDEX [idx] ON [t] ([a])`},
	} {
		query, err := qb.CreateIndex("idx", "t", []string{"a"}, tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.want, query)
	}
	_, err := qb.CreateIndex("idx", "t", []string{"a"}, "BITMAP")
	require.True(t, sqlforge.IsInvalidArgument(err))

	query, err := qb.DropIndex(context.Background(), "idx", "t")
	require.NoError(t, err)
	assert.Equal(t, `DROP INDEX [idx] ON [t]`, query)
}

func TestRenameColumn(t *testing.T) {
	query, err := newQueryBuilder().RenameColumn(context.Background(), "customer", "name", "full_name")
	require.NoError(t, err)
	assert.Equal(t, `sp_rename '[customer].[name]', [full_name], 'COLUMN'`, query)
}

func TestComments(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()

	query, err := qb.AddCommentOnColumn(ctx, "customer", "email", "It's the mail")
	require.NoError(t, err)
	args := `@name = N'MS_description', @value = N'It''s the mail', @level0type = N'SCHEMA', @level0name = N'dbo', @level1type = N'TABLE', @level1name = N'customer', @level2type = N'COLUMN', @level2name = N'email'`
	assert.Equal(t, `IF NOT EXISTS (SELECT 1 FROM fn_listextendedproperty(N'MS_description', 'SCHEMA', N'dbo', 'TABLE', N'customer', 'COLUMN', N'email')) `+
		`EXEC sys.sp_addextendedproperty `+args+` ELSE EXEC sys.sp_updateextendedproperty `+args+`;`, query)

	query, err = qb.AddCommentOnTable(ctx, "sales.customer", "people")
	require.NoError(t, err)
	args = `@name = N'MS_description', @value = N'people', @level0type = N'SCHEMA', @level0name = N'sales', @level1type = N'TABLE', @level1name = N'customer'`
	assert.Equal(t, `IF NOT EXISTS (SELECT 1 FROM fn_listextendedproperty(N'MS_description', 'SCHEMA', N'sales', 'TABLE', N'customer', DEFAULT, DEFAULT)) `+
		`EXEC sys.sp_addextendedproperty `+args+` ELSE EXEC sys.sp_updateextendedproperty `+args+`;`, query)

	query, err = qb.DropCommentFromColumn(ctx, "customer", "email")
	require.NoError(t, err)
	assert.Equal(t, `IF EXISTS (SELECT 1 FROM fn_listextendedproperty(N'MS_description', 'SCHEMA', N'dbo', 'TABLE', N'customer', 'COLUMN', N'email')) `+
		`EXEC sys.sp_dropextendedproperty @name = N'MS_description', @level0type = N'SCHEMA', @level0name = N'dbo', @level1type = N'TABLE', @level1name = N'customer', @level2type = N'COLUMN', @level2name = N'email';`, query)

	query, err = qb.DropCommentFromTable(ctx, "customer")
	require.NoError(t, err)
	assert.Equal(t, `IF EXISTS (SELECT 1 FROM fn_listextendedproperty(N'MS_description', 'SCHEMA', N'dbo', 'TABLE', N'customer', DEFAULT, DEFAULT)) `+
		`EXEC sys.sp_dropextendedproperty @name = N'MS_description', @level0type = N'SCHEMA', @level0name = N'dbo', @level1type = N'TABLE', @level1name = N'customer';`, query)
}

func TestSequences(t *testing.T) {
	qb := newQueryBuilder()
	query, err := qb.CreateSequence("T_sequence", 1, 1, sql.SequenceOptions{})
	require.NoError(t, err)
	assert.Equal(t, `CREATE SEQUENCE [T_sequence_SEQ] AS bigint START WITH 1 INCREMENT BY 1 NO MINVALUE NO MAXVALUE NO CYCLE NO CACHE`, query)

	minValue, maxValue := int64(1), int64(100)
	query, err = qb.CreateSequence("T_sequence", 5, 2, sql.SequenceOptions{MinValue: &minValue, MaxValue: &maxValue, Cache: 20, Cycle: true})
	require.NoError(t, err)
	assert.Equal(t, `CREATE SEQUENCE [T_sequence_SEQ] AS bigint START WITH 5 INCREMENT BY 2 MINVALUE 1 MAXVALUE 100 CYCLE CACHE 20`, query)

	query, err = qb.DropSequence("T_sequence")
	require.NoError(t, err)
	assert.Equal(t, `DROP SEQUENCE [T_sequence_SEQ]`, query)
}

func TestResetSequence(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()

	query, err := qb.ResetSequence(ctx, "customer", nil)
	require.NoError(t, err)
	assert.Equal(t, `DBCC CHECKIDENT ('[customer]', RESEED, 0) WITH NO_INFOMSGS;DBCC CHECKIDENT ('[customer]', RESEED)`, query)

	query, err = qb.ResetSequence(ctx, "customer", 5)
	require.NoError(t, err)
	assert.Equal(t, `DBCC CHECKIDENT ('[customer]', RESEED, 5)`, query)

	_, err = qb.ResetSequence(ctx, "order_item", nil)
	require.True(t, sqlforge.IsInvalidArgument(err))
}

func TestCheckIntegrity(t *testing.T) {
	st := fixture.Static()
	st.AddView("dbo", "T_upsert_varbinary")
	qb := NewQueryBuilder(&sql.Connection{Schema: st})
	ctx := context.Background()

	query, err := qb.CheckIntegrity(ctx, false, "", "")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE [dbo].[T_upsert] NOCHECK CONSTRAINT ALL; ALTER TABLE [dbo].[customer] NOCHECK CONSTRAINT ALL; ALTER TABLE [dbo].[type] NOCHECK CONSTRAINT ALL; ALTER TABLE [dbo].[order_item] NOCHECK CONSTRAINT ALL;`, query)

	query, err = qb.CheckIntegrity(ctx, true, "sales", "customer")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE [sales].[customer] CHECK CONSTRAINT ALL;`, query)
}
