package common

import (
	"testing"

	"MarketForge/pkg/json"
)

func TestByteViewCopies(t *testing.T) {
	src := []byte("000905.SS")
	v := NewByteView(src)
	src[0] = 'X'

	if v.String() != "000905.SS" {
		t.Errorf("view changed with source: %s", v.String())
	}

	out := v.ByteSlice()
	out[0] = 'Y'
	if v.String() != "000905.SS" {
		t.Errorf("view changed with returned slice: %s", v.String())
	}
	if v.Len() != 9 {
		t.Errorf("expected len 9, got %d", v.Len())
	}
}

func TestByteViewJSON(t *testing.T) {
	v := NewByteView([]byte(`{"longName":"Foo"}`))
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back ByteView
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != v.String() {
		t.Errorf("expected %s, got %s", v.String(), back.String())
	}
}
