package main

import (
	"errors"
	"testing"

	"MarketForge/internal/model"
	"MarketForge/internal/repository"
)

type fakeSink struct {
	saveErr error
	saved   int
	closed  bool
}

func (f *fakeSink) SaveRecords(market string, records []*model.SyntheticRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved += len(records)
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

func TestSaveToSinksClosesOnFailure(t *testing.T) {
	failing := &fakeSink{saveErr: errors.New("disk full")}
	later := &fakeSink{}
	records := []*model.SyntheticRecord{{ID: 1, Market: "csi500", Symbol: "600000.SH"}}

	err := saveToSinks([]repository.RecordRepository{failing, later}, "csi500", records)
	if err == nil {
		t.Fatal("expected save error")
	}
	if !failing.closed || !later.closed {
		t.Errorf("expected all sinks closed, got %v %v", failing.closed, later.closed)
	}
	if later.saved != 0 {
		t.Errorf("expected later sink untouched, saved=%d", later.saved)
	}
}

func TestSaveToSinksWritesAll(t *testing.T) {
	a, b := &fakeSink{}, &fakeSink{}
	records := []*model.SyntheticRecord{{ID: 1}, {ID: 2}}

	if err := saveToSinks([]repository.RecordRepository{a, b}, "sp500", records); err != nil {
		t.Fatal(err)
	}
	if a.saved != 2 || b.saved != 2 || !a.closed || !b.closed {
		t.Errorf("unexpected sink state %+v %+v", a, b)
	}
}
