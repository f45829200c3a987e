package service

import (
	"errors"
	"testing"

	"MarketForge/internal/model"
)

type fakeStore struct {
	queries int
	stats   int
	err     error
	total   int64
}

func (f *fakeStore) QueryRecords(q *model.RecordQuery) (*model.RecordPage, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return &model.RecordPage{Total: 1, Records: []*model.SyntheticRecord{{ID: 1, Symbol: q.Symbol}}}, nil
}

func (f *fakeStore) GetStats(market string) (*model.DatasetStats, error) {
	f.stats++
	if f.err != nil {
		return nil, f.err
	}
	return &model.DatasetStats{TotalRecords: f.total}, nil
}

func TestQueryRecordsCached(t *testing.T) {
	store := &fakeStore{}
	s := NewRecordService(store, 1024*1024)

	for i := 0; i < 3; i++ {
		page, err := s.QueryRecords(&model.RecordQuery{Symbol: "AAPL"})
		if err != nil {
			t.Fatal(err)
		}
		if page.Records[0].Symbol != "AAPL" {
			t.Fatalf("unexpected page %+v", page)
		}
	}
	if store.queries != 1 {
		t.Errorf("expected one store query, got %d", store.queries)
	}

	if _, err := s.QueryRecords(&model.RecordQuery{Symbol: "KO"}); err != nil {
		t.Fatal(err)
	}
	if store.queries != 2 {
		t.Errorf("expected distinct query to miss cache, got %d", store.queries)
	}

	cs := s.GetCacheStats()
	if cs["hits"].(int64) != 2 || cs["misses"].(int64) != 2 {
		t.Errorf("unexpected cache stats %v", cs)
	}
}

func TestQueryRecordsInvalid(t *testing.T) {
	s := NewRecordService(&fakeStore{}, 1024)
	_, err := s.QueryRecords(&model.RecordQuery{Limit: 10000})
	if model.CodeOf(err) != 400 {
		t.Errorf("expected 400, got %v", err)
	}
	_, err = s.QueryRecords(&model.RecordQuery{From: "2024-02-01", To: "2024-01-01"})
	if model.CodeOf(err) != 400 {
		t.Errorf("expected 400 for reversed range, got %v", err)
	}
}

func TestStoreErrorIsInternal(t *testing.T) {
	s := NewRecordService(&fakeStore{err: errors.New("disk")}, 1024)
	if _, err := s.QueryRecords(&model.RecordQuery{}); model.CodeOf(err) != 500 {
		t.Errorf("expected 500, got %v", err)
	}
	if _, err := s.GetStats(""); model.CodeOf(err) != 500 {
		t.Errorf("expected 500, got %v", err)
	}
}

func TestGetStatsUnknownMarket(t *testing.T) {
	store := &fakeStore{}
	s := NewRecordService(store, 1024*1024)
	if _, err := s.GetStats("nikkei"); model.CodeOf(err) != 404 {
		t.Errorf("expected 404, got %v", err)
	}

	store.total = 10
	for i := 0; i < 2; i++ {
		if _, err := s.GetStats("sp500"); err != nil {
			t.Fatal(err)
		}
	}
	if store.stats != 2 {
		t.Errorf("expected stats cached after first hit, store calls %d", store.stats)
	}
}
