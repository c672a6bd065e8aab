package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/apperror"
)

type lineRequest struct {
	ItemID uint `json:"item_id" validate:"required"`
	Qty    int  `json:"qty" validate:"gt=0"`
}

type orderRequest struct {
	SupplierID uint             `json:"supplier_id" validate:"required"`
	TaxAmount  *decimal.Decimal `json:"tax_amount" validate:"omitempty,gte=0"`
	Lines      []lineRequest    `json:"lines" validate:"min=1,dive"`
}

func decode(t *testing.T, body string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst orderRequest
	return DecodeAndValidate(req, &dst)
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"valid", `{"supplier_id":1,"lines":[{"item_id":2,"qty":3}]}`, ""},
		{"missing supplier", `{"lines":[{"item_id":2,"qty":3}]}`, "supplier_id is required"},
		{"empty lines", `{"supplier_id":1,"lines":[]}`, "lines must contain at least one entry"},
		{"nested field", `{"supplier_id":1,"lines":[{"item_id":2,"qty":0}]}`, "lines[0].qty must be > 0"},
		{"negative decimal", `{"supplier_id":1,"tax_amount":-1,"lines":[{"item_id":2,"qty":1}]}`, "tax_amount must be >= 0"},
		{"malformed number", `{"supplier_id":"abc"}`, "Invalid value for supplier_id"},
		{"malformed json", `{"supplier_id":`, "Invalid request body"},
		{"empty body", ``, "supplier_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decode(t, tt.body)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperror.Is(err, apperror.KindValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
			if got := apperror.Message(err); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{apperror.NotFound("Sale not found"), http.StatusNotFound, "Sale not found"},
		{apperror.Conflict("SKU already exists"), http.StatusConflict, "SKU already exists"},
		{apperror.ExceedsRemaining("too many"), http.StatusBadRequest, "too many"},
		{apperror.InternalConsistency("unmapped return qty"), http.StatusInternalServerError, "unmapped return qty"},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

		if rec.Code != tt.status {
			t.Fatalf("%v: status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body ErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error != tt.body {
			t.Fatalf("body = %q, want %q", body.Error, tt.body)
		}
	}
}
