package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// withCommonSortFields adds the base entity columns to a whitelist
func withCommonSortFields(fields ...string) map[string]bool {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}

var (
	// ProductSortFields contains allowed sort fields for products
	ProductSortFields = withCommonSortFields("code", "barcode", "name", "unit_price", "stock_current", "stock_min", "active")

	// TaxRateSortFields contains allowed sort fields for tax rates
	TaxRateSortFields = withCommonSortFields("code", "name", "percentage", "active")

	// ThirdPartySortFields contains allowed sort fields for third parties
	ThirdPartySortFields = withCommonSortFields("identification_number", "first_name", "last_name", "business_name", "email", "active")

	// IdentificationTypeSortFields contains allowed sort fields for identification types
	IdentificationTypeSortFields = withCommonSortFields("code", "name", "active")

	// UserSortFields contains allowed sort fields for users
	UserSortFields = withCommonSortFields("name", "email", "active", "last_login_at")

	// RoleSortFields contains allowed sort fields for roles
	RoleSortFields = withCommonSortFields("name", "active")

	// DocumentTypeSortFields contains allowed sort fields for document types
	DocumentTypeSortFields = withCommonSortFields("code", "name", "active")

	// PaymentMethodSortFields contains allowed sort fields for payment methods
	PaymentMethodSortFields = withCommonSortFields("code", "name", "active")

	// ConsecutiveSortFields contains allowed sort fields for consecutives
	ConsecutiveSortFields = withCommonSortFields("prefix", "range_start", "range_end", "current_number", "active")
)
