package billing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

// documentNumberWidth is the zero-padded width of the numeric suffix
const documentNumberWidth = 6

// Consecutive is the numbering counter of a document type.
// CurrentNumber holds the last number handed out; the next document gets
// CurrentNumber+1 as long as it does not pass RangeEnd.
type Consecutive struct {
	shared.BaseAggregateRoot
	DocumentTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Prefix         string    `gorm:"type:varchar(10);not null"`
	RangeStart     int64     `gorm:"not null"`
	RangeEnd       int64     `gorm:"not null"`
	CurrentNumber  int64     `gorm:"not null"`
	Active         bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Consecutive) TableName() string {
	return "consecutives"
}

// NewConsecutive creates an active counter positioned at rangeStart
func NewConsecutive(documentTypeID uuid.UUID, prefix string, rangeStart, rangeEnd int64) (*Consecutive, error) {
	if documentTypeID == uuid.Nil {
		return nil, shared.NewValidationError("Document type is required")
	}
	c := &Consecutive{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentTypeID:    documentTypeID,
		Active:            true,
	}
	if err := c.Configure(prefix, rangeStart, rangeEnd, rangeStart); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure sets prefix, range and position. It is the manual edit path and
// the only way the counter can move backwards.
func (c *Consecutive) Configure(prefix string, rangeStart, rangeEnd, current int64) error {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" || len(prefix) > 10 {
		return shared.NewValidationError("Consecutive prefix must be between 1 and 10 characters")
	}
	if rangeStart < 0 || rangeEnd <= rangeStart {
		return shared.NewValidationError("Consecutive range end must be greater than range start")
	}
	if current < rangeStart || current > rangeEnd {
		return shared.NewValidationError("Current number %d must be within [%d, %d]", current, rangeStart, rangeEnd)
	}
	c.Prefix = prefix
	c.RangeStart = rangeStart
	c.RangeEnd = rangeEnd
	c.CurrentNumber = current
	c.IncrementVersion()
	return nil
}

// NextNumber returns the number the next document would receive without
// moving the counter. Fails with RANGE_EXHAUSTED once current reaches the end.
func (c *Consecutive) NextNumber() (int64, error) {
	if c.CurrentNumber >= c.RangeEnd {
		return 0, NewRangeExhaustedError(c.Prefix, c.RangeEnd)
	}
	return c.CurrentNumber + 1, nil
}

// FormatDocumentNumber renders number as prefix plus a zero-padded suffix
func (c *Consecutive) FormatDocumentNumber(number int64) string {
	return fmt.Sprintf("%s%0*d", c.Prefix, documentNumberWidth, number)
}

// Advance moves the counter by one after a document was persisted
func (c *Consecutive) Advance() error {
	next, err := c.NextNumber()
	if err != nil {
		return err
	}
	c.CurrentNumber = next
	c.IncrementVersion()
	return nil
}

// Remaining returns how many numbers are still available
func (c *Consecutive) Remaining() int64 {
	return c.RangeEnd - c.CurrentNumber
}

// SetActive toggles the active flag
func (c *Consecutive) SetActive(active bool) {
	c.Active = active
	c.Touch()
}
