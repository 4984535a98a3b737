package postgres

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
	assert.Equal(t, `"table"`, q.QuoteTableName("table"))
	assert.Equal(t, `"public"."table"`, q.QuoteTableName("public.table"))
	assert.Equal(t, `"t"."c"`, q.QuoteColumnName("t.c"))
	assert.Equal(t, `"quoted"`, q.QuoteSimpleTableName(`"quoted"`))
	for _, name := range []string{"table", "T_upsert", "with space"} {
		assert.Equal(t, name, q.UnquoteSimpleTableName(q.QuoteSimpleTableName(name)))
	}
	assert.Equal(t, `'It''s'`, q.QuoteValue("It's"))
	assert.Equal(t, `E'a\\b'`, q.QuoteValue(`a\b`))
	assert.Equal(t, true, q.QuoteValue(true))
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
		{schema.TypePK, "serial NOT NULL PRIMARY KEY"},
		{"string(50)", "varchar(50)"},
		{"decimal(12,4)", "numeric(12,4)"},
		{"integer NOT NULL", "integer NOT NULL"},
		{"varchar(10) COLLATE \"C\"", "varchar(10) COLLATE \"C\""},
		{qb.Column(schema.TypeString, 64).NotNull().Default("x"), "varchar(64) NOT NULL DEFAULT 'x'"},
		{qb.Column(schema.TypeInteger).AutoIncrement().PrimaryKey(), "integer GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"},
		{qb.Column(schema.TypeText).Comment("ignored"), "text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qb.ColumnType(ctx, tt.in))
	}
}

func TestSelect(t *testing.T) {
	qb := newQueryBuilder()
	p := sql.NewParams()
	query, err := qb.Select(sql.Select("id").From("customer").
		Where(sql.Or(sql.ILike("name", "x_"), sql.In("status", 1, nil))).
		Limit(10).Offset(20), p)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id" FROM "customer" WHERE ("name" ILIKE :qp0) OR ("status"=:qp1 OR "status" IS NULL) LIMIT 10 OFFSET 20`, query)
	assert.Equal(t, map[string]any{":qp0": `%x\_%`, ":qp1": 1}, p.Map())
}

func TestUpsert(t *testing.T) {
	row := sql.Columns{
		sql.Col("email", "test@example.com"),
		sql.Col("address", "bar"),
		sql.Col("status", 1),
		sql.Col("profile_id", nil),
	}
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
			want:   `INSERT INTO "T_upsert" ("email", "address", "status", "profile_id") VALUES (:qp0, :qp1, :qp2, :qp3) ON CONFLICT ("email") DO UPDATE SET "address"=EXCLUDED."address", "status"=EXCLUDED."status", "profile_id"=EXCLUDED."profile_id"`,
		},
		{
			name:   "do nothing",
			table:  "T_upsert",
			src:    row,
			update: sql.UpdateNone,
			want:   `INSERT INTO "T_upsert" ("email", "address", "status", "profile_id") VALUES (:qp0, :qp1, :qp2, :qp3) ON CONFLICT DO NOTHING`,
		},
		{
			name:   "only unique columns",
			table:  "T_upsert",
			src:    sql.Columns{sql.Col("email", "test@example.com")},
			update: sql.UpdateAll,
			want:   `INSERT INTO "T_upsert" ("email") VALUES (:qp0) ON CONFLICT DO NOTHING`,
		},
		{
			name:   "empty update map",
			table:  "T_upsert",
			src:    sql.Columns{sql.Col("email", "test@example.com")},
			update: sql.UpdateWith(nil),
			want:   `INSERT INTO "T_upsert" ("email") VALUES (:qp0) ON CONFLICT ("email") DO UPDATE SET "email"="T_upsert"."email"`,
		},
		{
			name:   "explicit update",
			table:  "T_upsert",
			src:    row,
			update: sql.UpdateWith(sql.Columns{sql.Col("address", "foo"), sql.Col("status", sql.Expr(`"T_upsert"."status" + 1`))}),
			want:   `INSERT INTO "T_upsert" ("email", "address", "status", "profile_id") VALUES (:qp0, :qp1, :qp2, :qp3) ON CONFLICT ("email") DO UPDATE SET "address"=:qp4, "status"="T_upsert"."status" + 1`,
		},
		{
			name:   "composite key",
			table:  "order_item",
			src:    sql.Columns{sql.Col("order_id", 1), sql.Col("item_id", 2), sql.Col("quantity", 3)},
			update: sql.UpdateAll,
			want:   `INSERT INTO "order_item" ("order_id", "item_id", "quantity") VALUES (:qp0, :qp1, :qp2) ON CONFLICT ("order_id", "item_id") DO UPDATE SET "quantity"=EXCLUDED."quantity"`,
		},
		{
			name:   "no unique constraint covered",
			table:  "T_upsert",
			src:    sql.Columns{sql.Col("address", "x")},
			update: sql.UpdateAll,
			want:   `INSERT INTO "T_upsert" ("address") VALUES (:qp0)`,
		},
		{
			name:   "query source",
			table:  "T_upsert",
			src:    sql.Select("email", "status").From("customer").Where(sql.Hash(sql.Col("id", 1))),
			update: sql.UpdateNone,
			want:   `INSERT INTO "T_upsert" ("email", "status") SELECT "email", "status" FROM "customer" WHERE "id"=:qp0 ON CONFLICT DO NOTHING`,
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

func TestInsert(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()

	query, err := qb.Insert(ctx, "customer", sql.Columns{}, sql.NewParams())
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "customer" DEFAULT VALUES`, query)

	p := sql.NewParams()
	query, err = qb.Insert(ctx, "type", sql.Columns{
		sql.Col("int_col", 1),
		sql.Col("json_col", map[string]any{"a": 1}),
		sql.Col("intarray_col", []int{1, 2, 3}),
	}, p)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "type" ("int_col", "json_col", "intarray_col") VALUES (:qp0, :qp1::jsonb, ARRAY[:qp2, :qp3, :qp4]::int4[])`, query)
	assert.Equal(t, map[string]any{":qp0": 1, ":qp1": `{"a":1}`, ":qp2": 1, ":qp3": 2, ":qp4": 3}, p.Map())

	query, err = qb.Insert(ctx, "type", sql.Columns{sql.Col("intarray_col", []int{}), sql.Col("json_col", nil)}, sql.NewParams())
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "type" ("intarray_col", "json_col") VALUES ('{}'::int4[], :qp0)`, query)
}

func TestInsertWithReturningPks(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()
	tests := []struct {
		table string
		cols  sql.Columns
		want  string
	}{
		{"customer", sql.Columns{sql.Col("email", "a@b.c")}, `INSERT INTO "customer" ("email") VALUES (:qp0) RETURNING "id"`},
		{"order_item", sql.Columns{sql.Col("order_id", 1), sql.Col("item_id", 2)}, `INSERT INTO "order_item" ("order_id", "item_id") VALUES (:qp0, :qp1) RETURNING "order_id", "item_id"`},
		{"type", sql.Columns{sql.Col("int_col", 1)}, `INSERT INTO "type" ("int_col") VALUES (:qp0)`},
		{"customer", sql.Columns{}, `INSERT INTO "customer" DEFAULT VALUES RETURNING "id"`},
	}
	for _, tt := range tests {
		query, err := qb.InsertWithReturningPks(ctx, tt.table, tt.cols, sql.NewParams())
		require.NoError(t, err)
		assert.Equal(t, tt.want, query)
	}
}

func TestExpressions(t *testing.T) {
	qb := newQueryBuilder()
	tests := []struct {
		name string
		expr sql.Expression
		want string
		n    int
	}{
		{"array", sql.Array([]int{1, 2}, "integer"), `ARRAY[:qp0, :qp1]::integer[]`, 2},
		{"untyped array", sql.Array([]string{"a"}, ""), `ARRAY[:qp0]`, 1},
		{"empty array", sql.Array([]int{}, "integer"), `'{}'::integer[]`, 0},
		{"nil array", sql.Array(nil, "integer"), `NULL`, 0},
		{"array literal", sql.Array("{1,2}", "integer"), `:qp0::integer[]`, 1},
		{"nested array", &sql.ArrayExpr{Value: [][]int{{1, 2}, {3}}, Type: "integer", Dimension: 2}, `ARRAY[ARRAY[:qp0, :qp1]::integer[], ARRAY[:qp2]::integer[]]::integer[][]`, 3},
		{"array query", sql.Array(sql.Select("id").From("customer"), "integer"), `ARRAY(SELECT "id" FROM "customer")::integer[]`, 0},
		{"json", sql.JSON(map[string]any{"a": []int{1}}), `:qp0`, 1},
		{"typed json", sql.JSONAs([]string{"x"}, "json"), `:qp0::json`, 1},
		{"json query", sql.JSONAs(sql.Select("data").From("doc"), "jsonb"), `(SELECT "data" FROM "doc")::jsonb`, 0},
		{"json array", sql.JSON(sql.Array([]int{1, 2}, "integer")), `array_to_json(ARRAY[:qp0, :qp1]::integer[])`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sql.NewParams()
			s, err := qb.Builder().BuildExpression(tt.expr, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.n, p.Len())
		})
	}
}

func TestCreateTable(t *testing.T) {
	query, err := newQueryBuilder().CreateTable(context.Background(), "test", []sql.ColumnDef{
		{Name: "id", Type: schema.TypePK},
		{Name: "name", Type: "string(64) NOT NULL"},
		{Name: "created_at", Type: schema.TypeDateTime},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE \"test\" (\n\t\"id\" serial NOT NULL PRIMARY KEY,\n\t\"name\" varchar(64) NOT NULL,\n\t\"created_at\" timestamp(0)\n)", query)
}

func TestAlterColumn(t *testing.T) {
	qb := newQueryBuilder()
	tests := []struct {
		name string
		typ  any
		want string
	}{
		{
			name: "physical type",
			typ:  "varchar(255)",
			want: `ALTER TABLE "foo1" ALTER COLUMN "bar" TYPE varchar(255), ALTER COLUMN "bar" DROP DEFAULT, ALTER COLUMN "bar" DROP NOT NULL`,
		},
		{
			name: "raw action",
			typ:  "SET NOT NULL",
			want: `ALTER TABLE "foo1" ALTER COLUMN "bar" SET NOT NULL`,
		},
		{
			name: "drop default",
			typ:  "drop default",
			want: `ALTER TABLE "foo1" ALTER COLUMN "bar" drop default`,
		},
		{
			name: "builder with constraints",
			typ:  qb.Column(schema.TypeString, 255).NotNull().Default("xxx").Check("char_length(bar) > 5").Unique(),
			want: `ALTER TABLE "foo1" ALTER COLUMN "bar" TYPE varchar(255), ALTER COLUMN "bar" SET DEFAULT 'xxx', ALTER COLUMN "bar" SET NOT NULL, ADD CONSTRAINT foo1_bar_check CHECK (char_length(bar) > 5), ADD UNIQUE ("bar")`,
		},
		{
			name: "nullable",
			typ:  qb.Column(schema.TypeTimestamp).Null(),
			want: `ALTER TABLE "foo1" ALTER COLUMN "bar" TYPE timestamp(0), ALTER COLUMN "bar" SET DEFAULT NULL, ALTER COLUMN "bar" DROP NOT NULL`,
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
	tests := []struct {
		kind string
		want string
	}{
		{"", `CREATE INDEX "idx" ON "t" ("a", "b")`},
		{"unique", `CREATE UNIQUE INDEX "idx" ON "t" ("a", "b")`},
		{"GIN", `CREATE INDEX "idx" ON "t" USING gin ("a", "b")`},
		{IndexBrin, `CREATE INDEX "idx" ON "t" USING brin ("a", "b")`},
	}
	for _, tt := range tests {
		query, err := qb.CreateIndex("idx", "t", []string{"a", "b"}, tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.want, query)
	}
	_, err := qb.CreateIndex("idx", "t", []string{"a"}, "FULLTEXT")
	require.True(t, sqlforge.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "PostgreSQL")

	ctx := context.Background()
	for _, tt := range []struct{ name, table, want string }{
		{"idx", "t", `DROP INDEX "idx"`},
		{"idx", "public.t", `DROP INDEX "public"."idx"`},
		{"s.idx", "other.t", `DROP INDEX "s"."idx"`},
	} {
		query, err := qb.DropIndex(ctx, tt.name, tt.table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, query)
	}
}

func TestComments(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()
	query, err := qb.AddCommentOnColumn(ctx, "customer", "email", "It's the mail")
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON COLUMN "customer"."email" IS 'It''s the mail'`, query)
	query, err = qb.AddCommentOnTable(ctx, "customer", "people")
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON TABLE "customer" IS 'people'`, query)
	query, err = qb.DropCommentFromColumn(ctx, "customer", "email")
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON COLUMN "customer"."email" IS NULL`, query)
	query, err = qb.DropCommentFromTable(ctx, "customer")
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON TABLE "customer" IS NULL`, query)
}

func TestRenameColumn(t *testing.T) {
	query, err := newQueryBuilder().RenameColumn(context.Background(), "customer", "name", "full_name")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "customer" RENAME COLUMN "name" TO "full_name"`, query)
}

func TestSequences(t *testing.T) {
	qb := newQueryBuilder()
	query, err := qb.CreateSequence("T_sequence", 1, 1, sql.SequenceOptions{})
	require.NoError(t, err)
	assert.Equal(t, `CREATE SEQUENCE "T_sequence_SEQ" INCREMENT BY 1 NO MINVALUE NO MAXVALUE START WITH 1 NO CYCLE`, query)

	minValue, maxValue := int64(1), int64(100)
	query, err = qb.CreateSequence("T_sequence", 5, 2, sql.SequenceOptions{MinValue: &minValue, MaxValue: &maxValue, Cache: 20, Cycle: true})
	require.NoError(t, err)
	assert.Equal(t, `CREATE SEQUENCE "T_sequence_SEQ" INCREMENT BY 2 MINVALUE 1 MAXVALUE 100 START WITH 5 CACHE 20 CYCLE`, query)

	query, err = qb.CreateSequence("T_sequence", 1, 0, sql.SequenceOptions{})
	require.NoError(t, err)
	assert.Contains(t, query, "INCREMENT BY 1 ")

	query, err = qb.DropSequence("T_sequence")
	require.NoError(t, err)
	assert.Equal(t, `DROP SEQUENCE "T_sequence_SEQ"`, query)
}

func TestResetSequence(t *testing.T) {
	qb := newQueryBuilder()
	ctx := context.Background()
	query, err := qb.ResetSequence(ctx, "customer", nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT SETVAL('"customer_id_seq"',(SELECT COALESCE(MAX("id"),0) FROM "customer")+1,false)`, query)

	query, err = qb.ResetSequence(ctx, "customer", 5)
	require.NoError(t, err)
	assert.Equal(t, `SELECT SETVAL('"customer_id_seq"',5,false)`, query)

	_, err = qb.ResetSequence(ctx, "order_item", nil)
	require.True(t, sqlforge.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "order_item")

	_, err = qb.ResetSequence(ctx, "missing", nil)
	require.True(t, sqlforge.IsInvalidArgument(err))

	_, err = qb.ResetSequence(ctx, "customer", "five")
	require.Error(t, err)
}

func TestCheckIntegrity(t *testing.T) {
	st := fixture.Static()
	st.AddView("public", "T_upsert_varbinary")
	qb := NewQueryBuilder(&sql.Connection{Schema: st})
	ctx := context.Background()

	query, err := qb.CheckIntegrity(ctx, false, "", "")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "public"."T_upsert" DISABLE TRIGGER ALL; ALTER TABLE "public"."customer" DISABLE TRIGGER ALL; ALTER TABLE "public"."type" DISABLE TRIGGER ALL; ALTER TABLE "public"."order_item" DISABLE TRIGGER ALL;`, query)

	query, err = qb.CheckIntegrity(ctx, true, "app", "customer")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "app"."customer" ENABLE TRIGGER ALL;`, query)

	query, err = qb.CheckIntegrity(ctx, true, "", "T_upsert_varbinary")
	require.NoError(t, err)
	assert.Empty(t, query)

	_, err = NewQueryBuilder(nil).CheckIntegrity(ctx, true, "", "")
	require.True(t, sqlforge.IsInvalidArgument(err))
	query, err = NewQueryBuilder(nil).CheckIntegrity(ctx, true, "", "customer")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "public"."customer" ENABLE TRIGGER ALL;`, query)
}
