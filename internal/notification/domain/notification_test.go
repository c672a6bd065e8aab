package domain

import "testing"

func TestRender(t *testing.T) {
	cases := []struct {
		body   string
		params map[string]string
		want   string
	}{
		{"Hi {{name}}", map[string]string{"name": "Jane"}, "Hi Jane"},
		{"Hi {{ name }}, order {{sale_id}}", map[string]string{"name": "Jane", "sale_id": "7"}, "Hi Jane, order 7"},
		{"{{missing}}!", nil, "!"},
		{"no placeholders", map[string]string{"x": "y"}, "no placeholders"},
		{"{{a.b}}", map[string]string{"a.b": "dot"}, "dot"},
	}
	for _, tc := range cases {
		if got := Render(tc.body, tc.params); got != tc.want {
			t.Errorf("Render(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestStockLevelLow(t *testing.T) {
	if !(StockLevel{StockQty: 5, MinStock: 5}).Low() {
		t.Error("stock at the floor should be low")
	}
	if (StockLevel{StockQty: 6, MinStock: 5}).Low() {
		t.Error("stock above the floor should not be low")
	}
}
