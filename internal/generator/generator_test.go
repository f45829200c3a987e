package generator

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketForge/internal/csvfile"
	"MarketForge/internal/model"
)

var fixedNow = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func csiCompanies() []*model.Company {
	return []*model.Company{
		{Symbol: "000002.SZ", Name: "万科A"},
		{Symbol: "600000.SH", Name: "浦发银行"},
		{Symbol: "601088.SS", Name: "中国神华"},
		{Symbol: "300033.SZ", Name: "同花顺"},
		{Symbol: "000001.SZ", Name: "平安银行"},
		{Symbol: "600028.SH", Name: "中国石化"},
		{Symbol: "002415.SZ", Name: "海康威视"},
	}
}

func TestBusinessDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC) // 周一
	end := time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC)   // 周日

	days := BusinessDays(start, end)
	if len(days) != 10 {
		t.Fatalf("expected 10 business days, got %d", len(days))
	}
	for _, d := range days {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			t.Errorf("weekend day in grid: %s", d)
		}
		if d.Hour() != 0 {
			t.Errorf("expected midnight, got %s", d)
		}
	}
	if !days[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first day %s", days[0])
	}
	if BusinessDays(end, start) != nil {
		t.Error("expected nil for reversed range")
	}
}

func TestWindow(t *testing.T) {
	start, end := Window(fixedNow, 10)
	if end.Sub(start) != 3650*24*time.Hour {
		t.Errorf("expected 3650 days, got %v", end.Sub(start))
	}
}

func TestQuarter(t *testing.T) {
	cases := map[time.Month]int{time.January: 1, time.March: 1, time.April: 2, time.September: 3, time.December: 4}
	for m, want := range cases {
		if got := Quarter(time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC)); got != want {
			t.Errorf("month %s: expected Q%d, got Q%d", m, want, got)
		}
	}
}

func TestIndexSeriesDeterministicAndClipped(t *testing.T) {
	for _, v := range []*Variant{CSI500(), SP500()} {
		a := IndexSeries(2600, v.Index, 42)
		b := IndexSeries(2600, v.Index, 42)
		if len(a) != 2600 {
			t.Fatalf("%s: expected 2600 values, got %d", v.Name, len(a))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: series differs at %d", v.Name, i)
			}
			if a[i] < v.Index.ClipMin || a[i] > v.Index.ClipMax {
				t.Fatalf("%s: value %f outside [%f, %f]", v.Name, a[i], v.Index.ClipMin, v.Index.ClipMax)
			}
		}
	}
}

func TestIndexSeriesClipsWideNoise(t *testing.T) {
	p := IndexParams{Base: 5000, TrendSpan: 0, NoiseSigma: 5000, ClipMin: 3000, ClipMax: 9000}
	values := IndexSeries(500, p, 7)
	hitBound := false
	for _, v := range values {
		if v < 3000 || v > 9000 {
			t.Fatalf("value %f escaped clip band", v)
		}
		if v == 3000 || v == 9000 {
			hitBound = true
		}
	}
	if !hitBound {
		t.Error("expected wide noise to reach a clip bound")
	}
	if IndexSeries(0, p, 7) != nil {
		t.Error("expected nil for empty series")
	}
}

func TestGenerateCount(t *testing.T) {
	g := New(CSI500(), Options{IndexSeed: 42, RowSeed: 1, Now: clock})
	companies := csiCompanies()

	records, err := g.Generate(companies, 100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := (100 / len(companies)) * len(companies)
	if len(records) != want {
		t.Fatalf("expected %d records, got %d", want, len(records))
	}
	for i, r := range records {
		if r.ID != int64(i+1) {
			t.Fatalf("expected id %d, got %d", i+1, r.ID)
		}
	}
}

func TestGenerateTargetBelowCompanyCount(t *testing.T) {
	g := New(SP500(), Options{RowSeed: 1, Now: clock})
	records, err := g.Generate(csiCompanies(), 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
}

func TestGenerateNoCompanies(t *testing.T) {
	g := New(CSI500(), Options{RowSeed: 1, Now: clock})
	if _, err := g.Generate(nil, 100); !errors.Is(err, ErrNoCompanies) {
		t.Errorf("expected ErrNoCompanies, got %v", err)
	}
}

func TestStockPriceFormula(t *testing.T) {
	v := CSI500()
	v.PriceMultiplier = Range{2, 2}
	g := New(v, Options{IndexSeed: 42, RowSeed: 3, Now: clock})

	levels := map[time.Time]float64{}
	for _, p := range g.Series() {
		levels[p.Date] = p.Value
	}

	records, err := g.Generate(csiCompanies(), 70)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		level, ok := levels[r.ObservationDate]
		if !ok {
			t.Fatalf("record date %s not in series", r.ObservationDate)
		}
		if want := round2(level / 10 * 2); r.StockPrice != want {
			t.Errorf("expected price %f, got %f", want, r.StockPrice)
		}
		if r.IndexLevel != round2(level) {
			t.Errorf("expected level %f, got %f", round2(level), r.IndexLevel)
		}
	}
}

func TestDerivedFieldRanges(t *testing.T) {
	for _, v := range []*Variant{CSI500(), SP500()} {
		g := New(v, Options{IndexSeed: 42, RowSeed: 11, Now: clock})
		records, err := g.Generate(csiCompanies(), 700)
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range records {
			if r.StockPrice <= 0 {
				t.Fatalf("%s: non-positive price %f", v.Name, r.StockPrice)
			}
			if r.IndexLevel < v.Index.ClipMin || r.IndexLevel > v.Index.ClipMax {
				t.Fatalf("%s: level %f outside band", v.Name, r.IndexLevel)
			}
			m := r.StockPrice / (r.IndexLevel / 10)
			if m < 0.5-0.001 || m > 3.0+0.001 {
				t.Fatalf("%s: multiplier %f outside [0.5, 3.0]", v.Name, m)
			}
			if r.Volume < v.Volume.Min || r.Volume > v.Volume.Max {
				t.Fatalf("%s: volume %d outside range", v.Name, r.Volume)
			}
			if !v.PriceChange.Contains(r.PriceChangePct) || !v.PE.Contains(r.PERatio) ||
				!v.PB.Contains(r.PBRatio) || !v.DividendYield.Contains(r.DividendYield) || !v.Beta.Contains(r.Beta) {
				t.Fatalf("%s: ratio outside range: %+v", v.Name, r)
			}
			if r.Quarter != (r.Month-1)/3+1 || r.DayOfWeek == "Saturday" || r.DayOfWeek == "Sunday" {
				t.Fatalf("%s: bad calendar fields %+v", v.Name, r)
			}
			if math.Abs(r.Beta*1000-math.Round(r.Beta*1000)) > 1e-6 {
				t.Fatalf("%s: beta not rounded to 3 places: %v", v.Name, r.Beta)
			}
		}
	}
}

func TestRowSeedReproducible(t *testing.T) {
	encode := func() []string {
		v := SP500()
		g := New(v, Options{IndexSeed: 42, RowSeed: 99, Now: clock})
		records, err := g.Generate(csiCompanies(), 50)
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, r := range records {
			out = append(out, strings.Join(v.Encode(r), ","))
		}
		return out
	}

	a, b := encode(), encode()
	if len(a) != len(b) {
		t.Fatalf("length differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs:\n%s\n%s", i, a[i], b[i])
		}
	}
}

func TestCSIRecordFields(t *testing.T) {
	v := CSI500()
	g := New(v, Options{IndexSeed: 42, RowSeed: 5, Now: clock})
	companies := []*model.Company{
		{Symbol: "600000.SH", Name: "浦发银行"},
		{Symbol: "601088.SS", Name: "中国神华"},
		{Symbol: "000002.SZ", Name: "万科A"},
	}
	records, err := g.Generate(companies, 30)
	if err != nil {
		t.Fatal(err)
	}

	wantExchange := map[string]string{"600000.SH": "Shanghai", "601088.SS": "Shanghai", "000002.SZ": "Shenzhen"}
	for _, r := range records {
		if r.Exchange != wantExchange[r.Symbol] {
			t.Errorf("%s: expected %s, got %s", r.Symbol, wantExchange[r.Symbol], r.Exchange)
		}
		if r.StockCode != strings.Split(r.Symbol, ".")[0] {
			t.Errorf("unexpected stock code %s for %s", r.StockCode, r.Symbol)
		}
		if r.CompanyNameEN != r.CompanyName+" Co., Ltd." {
			t.Errorf("unexpected english name %s", r.CompanyNameEN)
		}
		if CSISectorLabels[r.SectorKey] != r.Sector {
			t.Errorf("sector label %s does not match key %s", r.Sector, r.SectorKey)
		}
		if r.SubIndustry != r.Sector+" - Various" {
			t.Errorf("unexpected sub industry %s", r.SubIndustry)
		}
		if r.IsTech != boolFlag(r.SectorKey == "Technology") || r.IsConsumer != boolFlag(r.SectorKey == "Consumer") {
			t.Errorf("sector flags inconsistent: %+v", r)
		}
		if r.Country != "China" || !r.GeneratedAt.Equal(fixedNow) {
			t.Errorf("unexpected country/timestamp: %s %s", r.Country, r.GeneratedAt)
		}
		if got := len(v.Encode(r)); got != len(v.Header()) {
			t.Fatalf("encoded %d fields, header has %d", got, len(v.Header()))
		}
	}
}

func TestSPRecordFields(t *testing.T) {
	v := SP500()
	g := New(v, Options{IndexSeed: 42, RowSeed: 5, Now: clock})
	companies := []*model.Company{
		{Symbol: "AAPL", Security: "Apple Inc.", Sector: "Information Technology", Exchange: "NASDAQ", HasExchange: true},
		{Symbol: "KO", Security: "Coca-Cola", Sector: "Consumer Staples", Exchange: "NYSE", HasExchange: true},
		{Symbol: "XYZ", Security: "No Exchange", Exchange: "", HasExchange: false},
	}
	records, err := g.Generate(companies, 9)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range records {
		switch r.Symbol {
		case "AAPL":
			if r.Exchange != "NASDAQ" || r.Sector != "Information Technology" || r.IsTech != 1 {
				t.Errorf("unexpected AAPL record %+v", r)
			}
		case "KO":
			if r.Exchange != "NYSE" || r.IsTech != 0 || r.IsConsumer != 0 {
				t.Errorf("unexpected KO record %+v", r)
			}
		case "XYZ":
			if r.Exchange != "NYSE" {
				t.Errorf("expected NYSE default, got %s", r.Exchange)
			}
			found := false
			for _, s := range GICSSectors {
				if s == r.Sector {
					found = true
				}
			}
			if !found {
				t.Errorf("random sector %s not in GICS list", r.Sector)
			}
		}
		if r.CompanyName == "" || r.Country != "USA" {
			t.Errorf("unexpected record %+v", r)
		}
		if got := len(v.Encode(r)); got != len(v.Header()) {
			t.Fatalf("encoded %d fields, header has %d", got, len(v.Header()))
		}
	}
}

func TestWriteCSV(t *testing.T) {
	v := SP500()
	g := New(v, Options{IndexSeed: 42, RowSeed: 8, Now: clock})
	records, err := g.Generate(csiCompanies(), 21)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "sp500.csv")
	if err := WriteCSV(path, v, records); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	tbl, err := csvfile.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != len(records) {
		t.Errorf("expected %d rows, got %d", len(records), tbl.Len())
	}
	if err := tbl.Require("id", "sp500_index", "stock_price"); err != nil {
		t.Error(err)
	}
}

func TestSummarize(t *testing.T) {
	g := New(CSI500(), Options{IndexSeed: 42, RowSeed: 2, Now: clock})
	records, err := g.Generate(csiCompanies(), 140)
	if err != nil {
		t.Fatal(err)
	}

	stats := Summarize(records)
	if stats.TotalRecords != int64(len(records)) || stats.Companies != 7 {
		t.Errorf("unexpected totals %+v", stats)
	}
	for _, groups := range [][]*model.GroupStat{stats.BySector, stats.ByYear, stats.ByExchange} {
		var n int64
		for _, s := range groups {
			n += s.Count
		}
		if n != stats.TotalRecords {
			t.Errorf("group counts sum to %d, want %d", n, stats.TotalRecords)
		}
	}
}

func TestLookup(t *testing.T) {
	if v, err := Lookup("CSI500"); err != nil || v.IndexColumn != "csi500_index" {
		t.Errorf("unexpected lookup result %v %v", v, err)
	}
	if v, err := Lookup("sp500"); err != nil || v.Country != "USA" {
		t.Errorf("unexpected lookup result %v %v", v, err)
	}
	if _, err := Lookup("nikkei"); model.CodeOf(err) != 400 {
		t.Errorf("expected invalid parameter, got %v", err)
	}
}
