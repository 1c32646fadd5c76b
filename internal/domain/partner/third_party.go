package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

var (
	phoneRegex          = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailRegex          = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	identificationRegex = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
)

// ThirdParty is a customer and/or supplier identified by a document
// type and number (e.g. CC 1020304050, NIT 900123456-7).
type ThirdParty struct {
	shared.BaseAggregateRoot
	IdentificationTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_third_party_identification,priority:1"`
	IdentificationNumber string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_third_party_identification,priority:2"`
	FirstName            string    `gorm:"type:varchar(100)"`
	LastName             string    `gorm:"type:varchar(100)"`
	BusinessName         string    `gorm:"type:varchar(200)"`
	Email                string    `gorm:"type:varchar(200)"`
	Phone                string    `gorm:"type:varchar(50)"`
	Address              string    `gorm:"type:varchar(300)"`
	IsCustomer           bool      `gorm:"not null"`
	IsSupplier           bool      `gorm:"not null;default:false"`
	Active               bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ThirdParty) TableName() string {
	return "third_parties"
}

// NewThirdParty creates an active third party flagged as customer.
// Either a person name or a business name must be given.
func NewThirdParty(identificationTypeID uuid.UUID, number, firstName, lastName, businessName string) (*ThirdParty, error) {
	tp := &ThirdParty{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsCustomer:        true,
		Active:            true,
	}
	if err := tp.SetIdentification(identificationTypeID, number); err != nil {
		return nil, err
	}
	if err := tp.SetNames(firstName, lastName, businessName); err != nil {
		return nil, err
	}
	return tp, nil
}

// SetIdentification sets the identification document
func (t *ThirdParty) SetIdentification(identificationTypeID uuid.UUID, number string) error {
	number = strings.TrimSpace(number)
	if identificationTypeID == uuid.Nil {
		return shared.NewValidationError("Identification type is required")
	}
	if number == "" || len(number) > 30 {
		return shared.NewValidationError("Identification number must be between 1 and 30 characters")
	}
	if !identificationRegex.MatchString(number) {
		return shared.NewValidationError("Identification number can only contain letters, numbers, and hyphens")
	}
	t.IdentificationTypeID = identificationTypeID
	t.IdentificationNumber = strings.ToUpper(number)
	t.Touch()
	return nil
}

// SetNames sets the person or business name
func (t *ThirdParty) SetNames(firstName, lastName, businessName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	businessName = strings.TrimSpace(businessName)
	if firstName == "" && businessName == "" {
		return shared.NewValidationError("Either first name or business name is required")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewValidationError("Names cannot exceed 100 characters")
	}
	if len(businessName) > 200 {
		return shared.NewValidationError("Business name cannot exceed 200 characters")
	}
	t.FirstName = firstName
	t.LastName = lastName
	t.BusinessName = businessName
	t.Touch()
	return nil
}

// SetContact sets the third party's contact information
func (t *ThirdParty) SetContact(email, phone, address string) error {
	if email != "" {
		if len(email) > 200 || !emailRegex.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if phone != "" {
		if len(phone) > 50 || !phoneRegex.MatchString(phone) {
			return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
		}
	}
	if len(address) > 300 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 300 characters")
	}
	t.Email = strings.ToLower(email)
	t.Phone = phone
	t.Address = address
	t.Touch()
	return nil
}

// SetRoles sets the customer and supplier flags; at least one is required.
func (t *ThirdParty) SetRoles(isCustomer, isSupplier bool) error {
	if !isCustomer && !isSupplier {
		return shared.NewValidationError("Third party must be a customer, a supplier, or both")
	}
	t.IsCustomer = isCustomer
	t.IsSupplier = isSupplier
	t.Touch()
	return nil
}

// SetActive toggles the active flag
func (t *ThirdParty) SetActive(active bool) {
	if t.Active == active {
		return
	}
	t.Active = active
	t.IncrementVersion()
}

// IsActive returns true if the third party is active
func (t *ThirdParty) IsActive() bool {
	return t.Active
}

// DisplayName returns the business name, or the person's full name
func (t *ThirdParty) DisplayName() string {
	if t.BusinessName != "" {
		return t.BusinessName
	}
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}
