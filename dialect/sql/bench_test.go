package sql

import (
	"context"
	"testing"
)

func BenchmarkInsert(b *testing.B) {
	ctx := context.Background()
	bd := newTestBuilder()
	cols := Columns{Col("email", "a@example.com"), Col("name", "a"), Col("status", 1)}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := bd.Insert(ctx, "customer", cols, NewParams()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSelect(b *testing.B) {
	bd := newTestBuilder()
	q := Select("id", "name", "email").
		From("customer").
		Where(And(EQ("status", 1), Like("name", "a"), In("id", 1, 2, 3))).
		OrderBy(Desc("id")).
		Limit(10).
		Offset(20)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := bd.Build(q, NewParams()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBind(b *testing.B) {
	p := NewParams()
	for i := 0; i < 20; i++ {
		p.Add(i)
	}
	query := "SELECT * FROM t WHERE " + buildBenchWhere(p)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := DollarBinder.Bind(query, p); err != nil {
			b.Fatal(err)
		}
	}
}

func buildBenchWhere(p *Params) string {
	s := ""
	for i, name := range p.Names() {
		if i > 0 {
			s += " AND "
		}
		s += "c = " + name
	}
	return s
}
