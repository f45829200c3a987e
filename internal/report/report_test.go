package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketForge/internal/generator"
	"MarketForge/internal/model"
)

func TestViewSQLEscapesQuotes(t *testing.T) {
	got := viewSQL("/tmp/it's.csv")
	if !strings.Contains(got, "read_csv_auto('/tmp/it''s.csv', header=true)") {
		t.Errorf("unexpected view sql: %s", got)
	}
}

func TestGroupSQL(t *testing.T) {
	got := groupSQL("year", "sp500_index")
	for _, want := range []string{"CAST(year AS VARCHAR)", "AVG(sp500_index)", "GROUP BY k"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %s", want, got)
		}
	}
}

func TestDetectIndexColumn(t *testing.T) {
	if got := detectIndexColumn([]string{"id", "csi500_index"}); got != "csi500_index" {
		t.Errorf("unexpected column %q", got)
	}
	if got := detectIndexColumn([]string{"id"}); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestRunMatchesGeneratorSummary(t *testing.T) {
	v := generator.SP500()
	g := generator.New(v, generator.Options{
		IndexSeed: 42,
		RowSeed:   7,
		Now:       func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) },
	})
	companies := []*model.Company{
		{Symbol: "AAPL", Security: "Apple Inc.", Sector: "Information Technology", Exchange: "NASDAQ", HasExchange: true},
		{Symbol: "KO", Security: "Coca-Cola", Sector: "Consumer Staples", Exchange: "NYSE", HasExchange: true},
	}
	records, err := g.Generate(companies, 40)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sp500.csv")
	if err := generator.WriteCSV(path, v, records); err != nil {
		t.Fatal(err)
	}

	r, err := Open("")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	defer r.Close()

	rep, err := r.Run(path)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := generator.Summarize(records)
	if rep.TotalRecords != want.TotalRecords || rep.Companies != want.Companies || rep.IndexColumn != "sp500_index" {
		t.Errorf("unexpected totals %+v", rep)
	}
	if len(rep.BySector) != len(want.BySector) {
		t.Fatalf("sector groups %d vs %d", len(rep.BySector), len(want.BySector))
	}
	for i := range want.BySector {
		if rep.BySector[i].Key != want.BySector[i].Key || rep.BySector[i].Count != want.BySector[i].Count {
			t.Errorf("sector %d: %+v vs %+v", i, rep.BySector[i], want.BySector[i])
		}
	}
}
