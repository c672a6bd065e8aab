package nullable

import (
	"encoding/json"
	"testing"
)

func TestFieldStates(t *testing.T) {
	type patch struct {
		MaxStock Field[int] `json:"max_stock"`
	}

	tests := []struct {
		name  string
		body  string
		set   bool
		valid bool
		value int
	}{
		{"absent", `{}`, false, false, 0},
		{"null", `{"max_stock":null}`, true, false, 0},
		{"value", `{"max_stock":40}`, true, true, 40},
		{"zero", `{"max_stock":0}`, true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.MaxStock.Set != tt.set || p.MaxStock.Valid != tt.valid || p.MaxStock.Value != tt.value {
				t.Fatalf("got %+v", p.MaxStock)
			}
		})
	}
}

func TestFieldRejectsWrongType(t *testing.T) {
	var p struct {
		Qty Field[int] `json:"qty"`
	}
	if err := json.Unmarshal([]byte(`{"qty":"ten"}`), &p); err == nil {
		t.Fatalf("expected type error")
	}
	if err := json.Unmarshal([]byte(`{"qty":2.5}`), &p); err == nil {
		t.Fatalf("expected error for fractional qty")
	}
}

func TestPtr(t *testing.T) {
	if Null[int]().Ptr() != nil {
		t.Fatalf("null must give nil")
	}
	if p := Of(7).Ptr(); p == nil || *p != 7 {
		t.Fatalf("Of(7).Ptr() = %v", p)
	}
}
