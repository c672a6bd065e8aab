package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
	"github.com/tair/pharmacy-backend/internal/settings/usecase/command"
	"github.com/tair/pharmacy-backend/internal/settings/usecase/query"
)

type memRepo struct {
	values  map[string]*string
	failKey string
}

func (r *memRepo) List(context.Context) ([]domain.Setting, error) {
	var out []domain.Setting
	for k, v := range r.values {
		out = append(out, domain.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *memRepo) Get(_ context.Context, keys ...string) (map[string]*string, error) {
	out := map[string]*string{}
	for _, k := range keys {
		if v, ok := r.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Upsert applies all pairs or none
func (r *memRepo) Upsert(_ context.Context, values map[string]*string) error {
	if _, ok := values[r.failKey]; ok && r.failKey != "" {
		return errors.New("write failed")
	}
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

type memProfile struct {
	profile *domain.CompanyProfile
	saves   int
}

func (r *memProfile) Get(context.Context) (*domain.CompanyProfile, error) {
	return r.profile, nil
}

func (r *memProfile) Save(_ context.Context, p *domain.CompanyProfile) error {
	p.ID = domain.CompanyProfileID
	stored := *p
	r.profile = &stored
	r.saves++
	return nil
}

func newTestRouter(repo *memRepo) *mux.Router {
	return newProfileRouter(repo, &memProfile{})
}

func newProfileRouter(repo *memRepo, profiles *memProfile) *mux.Router {
	h := NewSettingsHandler(
		command.NewUpdateSettingsHandler(repo),
		query.NewListSettingsHandler(repo),
		query.NewPublicSettingsHandler(repo),
		query.NewGetCompanyProfileHandler(profiles),
		command.NewUpdateCompanyProfileHandler(profiles),
	)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func serve(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicSettingsDefaults(t *testing.T) {
	router := newTestRouter(&memRepo{values: map[string]*string{}})

	rec := serve(router, "GET", "/settings/public", "")
	var got domain.PublicSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Currency != "USD" || got.DefaultTaxRate != "0" {
		t.Errorf("public = %+v, want USD / 0", got)
	}
}

func TestUpdateSettings(t *testing.T) {
	repo := &memRepo{values: map[string]*string{}}
	router := newTestRouter(repo)

	rec := serve(router, "PUT", "/settings", `{"currency":"EUR","default_tax_rate":7.5,"print_receipt":true,"footer":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, "GET", "/settings/public", "")
	var public domain.PublicSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &public); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if public.Currency != "EUR" || public.DefaultTaxRate != "7.5" {
		t.Errorf("public = %+v", public)
	}

	rec = serve(router, "GET", "/settings", "")
	var rows []domain.Setting
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %+v, want 4", rows)
	}
	if rows[2].Key != "footer" || rows[2].Value != nil {
		t.Errorf("footer = %+v, want stored NULL", rows[2])
	}
	if rows[3].Value == nil || *rows[3].Value != "true" {
		t.Errorf("print_receipt = %+v", rows[3])
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty object", `{}`, http.StatusBadRequest},
		{"blank key", `{"  ":"x"}`, http.StatusBadRequest},
		{"nested value", `{"logo":{"url":"x"}}`, http.StatusBadRequest},
		{"not an object", `["currency"]`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := serve(router, "PUT", "/settings", tc.body); rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	repo.failKey = "broken"
	if rec := serve(router, "PUT", "/settings", `{"currency":"GBP","broken":"x"}`); rec.Code != http.StatusInternalServerError {
		t.Errorf("failed upsert status = %d, want 500", rec.Code)
	}
	if *repo.values["currency"] != "EUR" {
		t.Errorf("currency = %s, want unchanged EUR", *repo.values["currency"])
	}
}

func TestCompanyProfile(t *testing.T) {
	profiles := &memProfile{}
	router := newProfileRouter(&memRepo{values: map[string]*string{}}, profiles)

	rec := serve(router, "GET", "/settings/company-profile", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("empty profile: status %d body %q", rec.Code, rec.Body.String())
	}

	for _, body := range []string{`{}`, `{"name":"   "}`} {
		if rec := serve(router, "PUT", "/settings/company-profile", body); rec.Code != http.StatusBadRequest {
			t.Errorf("PUT %s status = %d, want 400", body, rec.Code)
		}
	}
	if profiles.saves != 0 {
		t.Fatalf("saves = %d after rejected requests", profiles.saves)
	}

	rec = serve(router, "PUT", "/settings/company-profile", `{"name":" Corner Pharmacy ","phone":"","tax_id":"TX-9"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, "GET", "/settings/company-profile", "")
	var got domain.CompanyProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != domain.CompanyProfileID || got.Name != "Corner Pharmacy" {
		t.Errorf("profile = %+v", got)
	}
	if got.Phone != nil || got.TaxID == nil || *got.TaxID != "TX-9" {
		t.Errorf("phone = %v, tax_id = %v, want blank phone stored as null", got.Phone, got.TaxID)
	}
}
