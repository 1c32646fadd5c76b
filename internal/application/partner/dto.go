package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/partner"
)

// ThirdPartyRequest creates or updates a third party
type ThirdPartyRequest struct {
	IdentificationTypeID uuid.UUID `json:"tipoIdentificacionId" binding:"required"`
	IdentificationNumber string    `json:"numeroIdentificacion" binding:"required,min=1,max=30"`
	FirstName            string    `json:"nombres" binding:"max=100"`
	LastName             string    `json:"apellidos" binding:"max=100"`
	BusinessName         string    `json:"razonSocial" binding:"max=200"`
	Email                string    `json:"email" binding:"omitempty,email,max=200"`
	Phone                string    `json:"telefono" binding:"max=50"`
	Address              string    `json:"direccion" binding:"max=300"`
	IsCustomer           *bool     `json:"esCliente"`
	IsSupplier           *bool     `json:"esProveedor"`
	Active               *bool     `json:"activo"`
}

// ThirdPartyResponse represents a third party in API responses
type ThirdPartyResponse struct {
	ID                   uuid.UUID `json:"id"`
	IdentificationTypeID uuid.UUID `json:"tipoIdentificacionId"`
	IdentificationNumber string    `json:"numeroIdentificacion"`
	FirstName            string    `json:"nombres"`
	LastName             string    `json:"apellidos"`
	BusinessName         string    `json:"razonSocial"`
	DisplayName          string    `json:"nombreCompleto"`
	Email                string    `json:"email"`
	Phone                string    `json:"telefono"`
	Address              string    `json:"direccion"`
	IsCustomer           bool      `json:"esCliente"`
	IsSupplier           bool      `json:"esProveedor"`
	Active               bool      `json:"activo"`
	Version              int       `json:"version"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// IdentificationTypeRequest creates or updates an identification type
type IdentificationTypeRequest struct {
	Code   string `json:"codigo" binding:"required,min=1,max=10"`
	Name   string `json:"nombre" binding:"required,min=1,max=100"`
	Active *bool  `json:"activo"`
}

// IdentificationTypeResponse represents an identification type in API responses
type IdentificationTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"codigo"`
	Name      string    `json:"nombre"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToThirdPartyResponse converts a domain ThirdParty to a response
func ToThirdPartyResponse(t *partner.ThirdParty) ThirdPartyResponse {
	return ThirdPartyResponse{
		ID:                   t.ID,
		IdentificationTypeID: t.IdentificationTypeID,
		IdentificationNumber: t.IdentificationNumber,
		FirstName:            t.FirstName,
		LastName:             t.LastName,
		BusinessName:         t.BusinessName,
		DisplayName:          t.DisplayName(),
		Email:                t.Email,
		Phone:                t.Phone,
		Address:              t.Address,
		IsCustomer:           t.IsCustomer,
		IsSupplier:           t.IsSupplier,
		Active:               t.Active,
		Version:              t.Version,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// ToIdentificationTypeResponse converts a domain IdentificationType to a response
func ToIdentificationTypeResponse(i *partner.IdentificationType) IdentificationTypeResponse {
	return IdentificationTypeResponse{
		ID:        i.ID,
		Code:      i.Code,
		Name:      i.Name,
		Active:    i.Active,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
