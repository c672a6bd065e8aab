package command

import (
	"context"
	"strings"
	"time"

	"github.com/tair/pharmacy-backend/internal/customer/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/nullable"
)

const duplicateContact = "Customer with same phone/email exists"

// CreateCustomerCommand represents the command to create a customer
type CreateCustomerCommand struct {
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// CreateCustomerHandler handles customer creation
type CreateCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewCreateCustomerHandler creates a new create customer handler
func NewCreateCustomerHandler(repo domain.CustomerRepository) *CreateCustomerHandler {
	return &CreateCustomerHandler{repo: repo}
}

// Handle executes the create customer command
func (h *CreateCustomerHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (*domain.Customer, error) {
	c, err := newCustomer(cmd)
	if err != nil {
		return nil, err
	}
	if dup, err := h.repo.ExistsByContact(ctx, c.Phone, c.Email, 0); err != nil {
		return nil, err
	} else if dup {
		return nil, apperror.Conflict(duplicateContact)
	}
	if err := h.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCustomerCommand is a partial update; null clears an optional field
type UpdateCustomerCommand struct {
	ID      uint
	Name    *string
	Phone   nullable.Field[string]
	Email   nullable.Field[string]
	Address nullable.Field[string]
}

// UpdateCustomerHandler handles customer updates
type UpdateCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewUpdateCustomerHandler creates a new update customer handler
func NewUpdateCustomerHandler(repo domain.CustomerRepository) *UpdateCustomerHandler {
	return &UpdateCustomerHandler{repo: repo}
}

// Handle executes the update customer command
func (h *UpdateCustomerHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) (*domain.Customer, error) {
	c, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, apperror.Validation("name is required")
		}
		c.Name = name
	}
	contactChanged := cmd.Phone.Set || cmd.Email.Set
	if cmd.Phone.Set {
		c.Phone = clean(cmd.Phone.Ptr())
	}
	if cmd.Email.Set {
		c.Email = clean(cmd.Email.Ptr())
	}
	if cmd.Address.Set {
		c.Address = clean(cmd.Address.Ptr())
	}

	// The unique constraints still guard against a concurrent insert
	if contactChanged {
		dup, err := h.repo.ExistsByContact(ctx, c.Phone, c.Email, c.ID)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, apperror.Conflict(duplicateContact)
		}
	}
	if err := h.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCustomerHandler handles customer deletion
type DeleteCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewDeleteCustomerHandler creates a new delete customer handler
func NewDeleteCustomerHandler(repo domain.CustomerRepository) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{repo: repo}
}

func (h *DeleteCustomerHandler) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}

func newCustomer(cmd CreateCustomerCommand) (*domain.Customer, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	return &domain.Customer{
		Name:      name,
		Phone:     clean(cmd.Phone),
		Email:     clean(cmd.Email),
		Address:   clean(cmd.Address),
		CreatedAt: time.Now(),
	}, nil
}

// clean trims v and maps blanks to nil
func clean(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
