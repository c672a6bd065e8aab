package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/customer/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Search matches name, phone or email case-insensitively
func (r *GormCustomerRepository) Search(ctx context.Context, q string, limit int) ([]domain.Customer, error) {
	tx := r.db.WithContext(ctx).Order("name").Limit(limit)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var customers []domain.Customer
	if err := tx.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// FindByID retrieves a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) ExistsByContact(ctx context.Context, phone, email *string, excludeID uint) (bool, error) {
	if phone == nil && email == nil {
		return false, nil
	}
	tx := r.db.WithContext(ctx).Model(&domain.Customer{})
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	switch {
	case phone != nil && email != nil:
		tx = tx.Where("phone = ? OR email = ?", *phone, *email)
	case phone != nil:
		tx = tx.Where("phone = ?", *phone)
	default:
		tx = tx.Where("email = ?", *email)
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check customer contact: %w", err)
	}
	return n > 0, nil
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update saves every column of c
func (r *GormCustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Customer{}, id)
	if res.Error != nil {
		err := translate(res.Error)
		if apperror.Is(err, apperror.KindForeignKey) {
			return apperror.Conflict("Customer is referenced by sales")
		}
		return err
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Customer not found")
	}
	return nil
}

func (r *GormCustomerRepository) Execute(ctx context.Context, fn func(tx domain.CustomerRepository) error) error {
	return database.NewTransactor(r.db).WithTransaction(ctx, func(tx *gorm.DB) error {
		return fn(&GormCustomerRepository{db: tx})
	})
}

func translate(err error) error {
	translated := database.TranslateError(err)
	switch apperror.KindOf(translated) {
	case apperror.KindNotFound:
		return apperror.NotFound("Customer not found")
	case apperror.KindInternal:
		return fmt.Errorf("failed to access customers: %w", translated)
	}
	return translated
}
