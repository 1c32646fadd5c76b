package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

// Movement is the generic document header. Each invoice hangs off exactly
// one movement, which carries the allocated document number.
type Movement struct {
	shared.BaseEntity
	DocumentTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	ConsecutiveID  uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	IssuedAt       time.Time `gorm:"not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ThirdPartyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Notes          string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates the header of a new document
func NewMovement(documentTypeID, consecutiveID uuid.UUID, documentNumber string, issuedAt time.Time, userID, thirdPartyID uuid.UUID, notes string) *Movement {
	return &Movement{
		BaseEntity:     shared.NewBaseEntity(),
		DocumentTypeID: documentTypeID,
		ConsecutiveID:  consecutiveID,
		DocumentNumber: documentNumber,
		IssuedAt:       issuedAt,
		UserID:         userID,
		ThirdPartyID:   thirdPartyID,
		Notes:          strings.TrimSpace(notes),
	}
}

// AppendNote adds a line to the notes, keeping what was there
func (m *Movement) AppendNote(note string) {
	if m.Notes == "" {
		m.Notes = note
	} else {
		m.Notes = m.Notes + "\n" + note
	}
	m.Touch()
}

// FormatVoidNote renders the audit line written when an invoice is voided
func FormatVoidNote(reason string, userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("[ANULADA %s] user=%s reason=%s", at.UTC().Format(time.RFC3339), userID, strings.TrimSpace(reason))
}
