package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/internal/notification/usecase/command"
	"github.com/tair/pharmacy-backend/internal/notification/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

type memTemplates struct {
	rows []domain.Template
}

func (r *memTemplates) List(context.Context) ([]domain.Template, error) { return r.rows, nil }

func (r *memTemplates) FindByID(_ context.Context, id uint) (*domain.Template, error) {
	for _, t := range r.rows {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, apperror.NotFound("Template not found")
}

func (r *memTemplates) EnsureByName(ctx context.Context, name, body string) (*domain.Template, error) {
	for _, t := range r.rows {
		if t.Name == name {
			return &t, nil
		}
	}
	t := &domain.Template{Name: name, Body: body}
	return t, r.Create(ctx, t)
}

func (r *memTemplates) Create(_ context.Context, t *domain.Template) error {
	for _, row := range r.rows {
		if row.Name == t.Name {
			return apperror.Conflict("Template name already exists")
		}
	}
	t.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *t)
	return nil
}

func (r *memTemplates) Update(_ context.Context, t *domain.Template) error {
	for i, row := range r.rows {
		if row.ID != t.ID && row.Name == t.Name {
			return apperror.Conflict("Template name already exists")
		}
		if row.ID == t.ID {
			r.rows[i] = *t
		}
	}
	return nil
}

func (r *memTemplates) Delete(_ context.Context, id uint) error {
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("Template not found")
}

type memOutbox struct {
	rows []domain.OutboxMessage
}

func (r *memOutbox) Create(_ context.Context, m *domain.OutboxMessage) error {
	m.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *m)
	return nil
}

func (r *memOutbox) MarkSent(_ context.Context, id uint, providerID string) error {
	r.rows[id-1].Status = domain.StatusSent
	r.rows[id-1].ProviderMessageID = &providerID
	return nil
}

func (r *memOutbox) MarkFailed(_ context.Context, id uint, reason string) error {
	r.rows[id-1].Status = domain.StatusFailed
	r.rows[id-1].Error = &reason
	return nil
}

func (r *memOutbox) Recent(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	var out []domain.OutboxMessage
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

type stubProvider struct {
	bodies []string
}

func (*stubProvider) Name() string { return "stub" }

func (p *stubProvider) Send(_ context.Context, to, body string) (string, error) {
	if strings.HasPrefix(to, "+0") {
		return "", errors.New("unreachable number")
	}
	p.bodies = append(p.bodies, body)
	return "msg-1", nil
}

func newTestRouter(reg *prometheus.Registry) (*mux.Router, *memOutbox, *stubProvider) {
	templates, outbox, provider := &memTemplates{}, &memOutbox{}, &stubProvider{}
	h := NewNotificationHandler(
		command.NewCreateTemplateHandler(templates),
		command.NewUpdateTemplateHandler(templates),
		command.NewDeleteTemplateHandler(templates),
		command.NewSendSMSHandler(templates, outbox, provider, reg),
		query.NewListTemplatesHandler(templates),
		query.NewListOutboxHandler(outbox),
	)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router, outbox, provider
}

func serve(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func counterValue(t *testing.T, reg *prometheus.Registry, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "pharmacy_sms_messages_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestTemplateCRUD(t *testing.T) {
	router, _, _ := newTestRouter(prometheus.NewRegistry())

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"create", "POST", "/sms/templates", `{"name":" Welcome ","body":"Hi {{name}}"}`, http.StatusCreated},
		{"missing body", "POST", "/sms/templates", `{"name":"Other"}`, http.StatusBadRequest},
		{"duplicate name", "POST", "/sms/templates", `{"name":"Welcome","body":"x"}`, http.StatusConflict},
		{"empty update", "PUT", "/sms/templates/1", `{}`, http.StatusBadRequest},
		{"update body", "PUT", "/sms/templates/1", `{"body":"Hello {{name}}"}`, http.StatusOK},
		{"update missing", "PUT", "/sms/templates/9", `{"body":"x"}`, http.StatusNotFound},
		{"delete", "DELETE", "/sms/templates/1", "", http.StatusOK},
		{"delete again", "DELETE", "/sms/templates/1", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		if rec := serve(router, tc.method, tc.path, tc.body); rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d (body %s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestSendRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	router, outbox, provider := newTestRouter(reg)
	serve(router, "POST", "/sms/templates", `{"name":"Pickup","body":"Order {{sale_id}} ready, {{name}}"}`)

	rec := serve(router, "POST", "/sms/send", `{"to":"+123","template_id":1,"params":{"sale_id":"7","name":"Jane"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("send status = %d body %s", rec.Code, rec.Body.String())
	}
	var msg domain.OutboxMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Status != domain.StatusSent || msg.Body != "Order 7 ready, Jane" {
		t.Errorf("message = %+v", msg)
	}
	if len(provider.bodies) != 1 {
		t.Errorf("provider calls = %d", len(provider.bodies))
	}

	rec = serve(router, "POST", "/sms/send", `{"to":"+000","body":"ping"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed send status = %d, want 201 with FAILED row", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Status != domain.StatusFailed || msg.Error == nil || *msg.Error != "unreachable number" {
		t.Errorf("failed message = %+v", msg)
	}
	if outbox.rows[1].Status != domain.StatusFailed {
		t.Errorf("stored status = %s", outbox.rows[1].Status)
	}

	for _, body := range []string{`{"body":"x"}`, `{"to":"+1"}`, `{"to":"+1","template_id":42}`} {
		if rec := serve(router, "POST", "/sms/send", body); rec.Code != http.StatusBadRequest {
			t.Errorf("send %s: status = %d, want 400", body, rec.Code)
		}
	}

	rec = serve(router, "GET", "/sms/outbox", "")
	var rows []domain.OutboxMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 2 {
		t.Errorf("outbox = %+v, want newest first", rows)
	}

	if got := counterValue(t, reg, "sent"); got != 1 {
		t.Errorf("sent counter = %v", got)
	}
	if got := counterValue(t, reg, "failed"); got != 1 {
		t.Errorf("failed counter = %v", got)
	}
}
