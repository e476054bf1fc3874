package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/legumemart/backend/internal/domain/shared"
)

const maxSupplierNameLength = 200

var validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

// Supplier is a farmer, trader or market stall that sells bulk stock.
// Purchases reference it; it carries no derived state.
type Supplier struct {
	shared.BaseAggregateRoot
	Name     string
	District string // district or market area, e.g. Lilongwe, Mzuzu
	Phone    string
	Notes    string
	IsActive bool
}

// NewSupplier creates an active supplier
func NewSupplier(name, district, phone, notes string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		District:          strings.TrimSpace(district),
		Phone:             phone,
		Notes:             notes,
		IsActive:          true,
	}
	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))
	return supplier, nil
}

// SupplierDetails carries edits. Nil fields are left unchanged.
type SupplierDetails struct {
	Name     *string
	District *string
	Phone    *string
	Notes    *string
}

// Update applies descriptive edits
func (s *Supplier) Update(d SupplierDetails) error {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		if err := validateSupplierName(name); err != nil {
			return err
		}
		s.Name = name
	}
	if d.Phone != nil {
		phone := strings.TrimSpace(*d.Phone)
		if err := validatePhone(phone); err != nil {
			return err
		}
		s.Phone = phone
	}
	if d.District != nil {
		s.District = strings.TrimSpace(*d.District)
	}
	if d.Notes != nil {
		s.Notes = *d.Notes
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s))
	return nil
}

// Deactivate hides the supplier from new purchases. Past purchases keep the reference.
func (s *Supplier) Deactivate() {
	if !s.IsActive {
		return
	}
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s))
}

// Activate reverses Deactivate
func (s *Supplier) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func validateSupplierName(name string) error {
	if name == "" {
		return shared.NewValidationError("supplier name cannot be empty")
	}
	if len([]rune(name)) > maxSupplierNameLength {
		return shared.NewValidationError("supplier name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 50 {
		return shared.NewValidationError("phone number cannot exceed 50 characters")
	}
	if !validPhone.MatchString(phone) {
		return shared.NewValidationError("invalid phone number format")
	}
	return nil
}

// SupplierFilter narrows supplier queries
type SupplierFilter struct {
	shared.Filter
	IsActive *bool
	District string
}
