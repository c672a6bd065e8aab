package command_test

import (
	"context"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/tair/pharmacy-backend/internal/customer/domain"
	"github.com/tair/pharmacy-backend/internal/customer/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/nullable"
)

// fakeRepo copies its rows for Execute and keeps the copy only on success
type fakeRepo struct {
	rows   map[uint]domain.Customer
	next   uint
	failOn string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uint]domain.Customer{}}
}

func (r *fakeRepo) Search(_ context.Context, q string, limit int) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range r.rows {
		if q == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*domain.Customer, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("Customer not found")
	}
	return &c, nil
}

func (r *fakeRepo) ExistsByContact(_ context.Context, phone, email *string, excludeID uint) (bool, error) {
	for _, c := range r.rows {
		if c.ID == excludeID {
			continue
		}
		if same(c.Phone, phone) || same(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Create(_ context.Context, c *domain.Customer) error {
	if r.failOn != "" && c.Name == r.failOn {
		return errors.New("connection reset")
	}
	r.next++
	c.ID = r.next
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeRepo) Update(_ context.Context, c *domain.Customer) error {
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.rows[id]; !ok {
		return apperror.NotFound("Customer not found")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) Execute(ctx context.Context, fn func(tx domain.CustomerRepository) error) error {
	tx := &fakeRepo{rows: maps.Clone(r.rows), next: r.next, failOn: r.failOn}
	if err := fn(tx); err != nil {
		return err
	}
	r.rows, r.next = tx.rows, tx.next
	return nil
}

func same(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func ptr[T any](v T) *T { return &v }

func TestCreateCustomerRejectsDuplicateContact(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	create := command.NewCreateCustomerHandler(repo)

	c, err := create.Handle(ctx, command.CreateCustomerCommand{Name: " Jane ", Phone: ptr("555-0100"), Email: ptr("  ")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "Jane" || c.Email != nil {
		t.Errorf("customer = %+v, want trimmed name and nil email", c)
	}

	_, err = create.Handle(ctx, command.CreateCustomerCommand{Name: "John", Phone: ptr("555-0100")})
	if !apperror.Is(err, apperror.KindConflict) {
		t.Errorf("duplicate phone err = %v, want conflict", err)
	}

	_, err = create.Handle(ctx, command.CreateCustomerCommand{Name: ""})
	if !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("blank name err = %v, want validation", err)
	}
}

func TestUpdateCustomer(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	create := command.NewCreateCustomerHandler(repo)
	update := command.NewUpdateCustomerHandler(repo)

	jane, _ := create.Handle(ctx, command.CreateCustomerCommand{Name: "Jane", Phone: ptr("1"), Address: ptr("Main St")})
	_, _ = create.Handle(ctx, command.CreateCustomerCommand{Name: "John", Phone: ptr("2")})

	got, err := update.Handle(ctx, command.UpdateCustomerCommand{ID: jane.ID, Phone: nullable.Of("1"), Address: nullable.Null[string]()})
	if err != nil {
		t.Fatalf("keeping own phone: %v", err)
	}
	if got.Address != nil || got.Phone == nil || *got.Phone != "1" {
		t.Errorf("customer = %+v, want address cleared", got)
	}

	_, err = update.Handle(ctx, command.UpdateCustomerCommand{ID: jane.ID, Phone: nullable.Of("2")})
	if !apperror.Is(err, apperror.KindConflict) {
		t.Errorf("taking John's phone err = %v, want conflict", err)
	}

	_, err = update.Handle(ctx, command.UpdateCustomerCommand{ID: 99, Name: ptr("X")})
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("missing customer err = %v, want not found", err)
	}
}

func TestImportCustomers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	_, _ = command.NewCreateCustomerHandler(repo).Handle(ctx, command.CreateCustomerCommand{Name: "Existing", Email: ptr("a@example.com")})
	imp := command.NewImportCustomersHandler(repo)

	result, err := imp.Handle(ctx, []command.CreateCustomerCommand{
		{Name: "New One", Phone: ptr("100")},
		{Name: "", Phone: ptr("101")},
		{Name: "Same Email", Email: ptr("a@example.com")},
		{Name: "Same Phone As Row One", Phone: ptr("100")},
		{Name: "No Contact"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := domain.ImportResult{Imported: 2, Duplicates: 2, Invalid: 1}
	if *result != want {
		t.Errorf("result = %+v, want %+v", *result, want)
	}
	if len(repo.rows) != 3 {
		t.Errorf("rows = %d, want 3", len(repo.rows))
	}
}

func TestImportRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.failOn = "Broken"
	imp := command.NewImportCustomersHandler(repo)

	_, err := imp.Handle(ctx, []command.CreateCustomerCommand{{Name: "Fine"}, {Name: "Broken"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.rows) != 0 {
		t.Errorf("rows after failed import = %d, want 0", len(repo.rows))
	}

	_, err = imp.Handle(ctx, nil)
	if !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("empty import err = %v, want validation", err)
	}
}
