package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/identity"
	"github.com/supermercado/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// Passwords of the seeded users
const (
	AdminPassword   = "Admin2024seguro"
	CashierPassword = "Cajero2024seguro"
)

// Fixtures is the master data of a small store, ready for invoicing
type Fixtures struct {
	AdminRole   *identity.Role
	CashierRole *identity.Role
	Admin       *identity.User
	Cashier     *identity.User
	Inactive    *identity.User

	IVA19  *catalog.TaxRate
	Exempt *catalog.TaxRate

	Rice    *catalog.Product // 5000.00, IVA 19%, 10 on hand
	Milk    *catalog.Product // 3200.00, exempt, 5 on hand
	Soap    *catalog.Product // 1500.00, IVA 19%, out of stock
	Retired *catalog.Product // inactive

	CC               *partner.IdentificationType
	Customer         *partner.ThirdParty
	Supplier         *partner.ThirdParty
	InactiveCustomer *partner.ThirdParty

	SalesInvoice *billing.DocumentType
	Consecutive  *billing.Consecutive // FV, 0..999999, next FV000001
	Cash         *billing.PaymentMethod
	Card         *billing.PaymentMethod
	Voucher      *billing.PaymentMethod // inactive
}

// Seed inserts the fixtures into db, which must already be migrated
func Seed(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	f := &Fixtures{}
	var err error

	f.AdminRole, err = identity.NewRole(identity.RoleAdministrator, "Store administrator")
	require.NoError(t, err)
	f.CashierRole, err = identity.NewRole("Cajero", "Point of sale cashier")
	require.NoError(t, err)

	f.Admin, err = identity.NewUser("Ana Gerente", "admin@supermercado.co", AdminPassword, f.AdminRole.ID)
	require.NoError(t, err)
	f.Cashier, err = identity.NewUser("Carlos Caja", "cajero@supermercado.co", CashierPassword, f.CashierRole.ID)
	require.NoError(t, err)
	f.Inactive, err = identity.NewUser("Pedro Retirado", "retirado@supermercado.co", CashierPassword, f.CashierRole.ID)
	require.NoError(t, err)
	f.Inactive.SetActive(false)

	f.IVA19, err = catalog.NewTaxRate("IVA19", "IVA 19%", decimal.NewFromInt(19))
	require.NoError(t, err)
	f.Exempt, err = catalog.NewTaxRate("EXENTO", "Exento", decimal.Zero)
	require.NoError(t, err)

	f.Rice = newProduct(t, "ARROZ-500", "7701234000011", "Arroz 500g", "5000", "10", f.IVA19)
	f.Milk = newProduct(t, "LECHE-1L", "7701234000028", "Leche 1L", "3200", "5", f.Exempt)
	f.Soap = newProduct(t, "JABON-3", "7701234000035", "Jabon x3", "1500", "0", f.IVA19)
	f.Retired = newProduct(t, "VELA-1", "7701234000042", "Vela", "800", "4", f.IVA19)
	require.NoError(t, f.Retired.Deactivate())

	f.CC, err = partner.NewIdentificationType("CC", "Cedula de ciudadania")
	require.NoError(t, err)
	f.Customer, err = partner.NewThirdParty(f.CC.ID, "1020304050", "Maria", "Lopez", "")
	require.NoError(t, err)
	f.Supplier, err = partner.NewThirdParty(f.CC.ID, "900123456", "", "", "Distribuidora Andina")
	require.NoError(t, err)
	require.NoError(t, f.Supplier.SetRoles(false, true))
	f.InactiveCustomer, err = partner.NewThirdParty(f.CC.ID, "55555555", "Luis", "Gomez", "")
	require.NoError(t, err)
	f.InactiveCustomer.SetActive(false)

	f.SalesInvoice, err = billing.NewDocumentType(billing.DocumentTypeSalesInvoice, "Factura de venta")
	require.NoError(t, err)
	f.Consecutive, err = billing.NewConsecutive(f.SalesInvoice.ID, "FV", 0, 999999)
	require.NoError(t, err)
	f.Cash, err = billing.NewPaymentMethod("EFECTIVO", "Efectivo")
	require.NoError(t, err)
	f.Card, err = billing.NewPaymentMethod("TARJETA", "Tarjeta debito")
	require.NoError(t, err)
	f.Voucher, err = billing.NewPaymentMethod("BONO", "Bono regalo")
	require.NoError(t, err)
	f.Voucher.SetActive(false)

	for _, entity := range []any{
		f.AdminRole, f.CashierRole, f.Admin, f.Cashier, f.Inactive,
		f.IVA19, f.Exempt, f.Rice, f.Milk, f.Soap, f.Retired,
		f.CC, f.Customer, f.Supplier, f.InactiveCustomer,
		f.SalesInvoice, f.Consecutive, f.Cash, f.Card, f.Voucher,
	} {
		require.NoError(t, db.Create(entity).Error)
	}
	return f
}

func newProduct(t *testing.T, code, barcode, name, price, stock string, tax *catalog.TaxRate) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, barcode, name, decimal.RequireFromString(price), tax.ID)
	require.NoError(t, err)
	require.NoError(t, p.SetOpeningStock(decimal.RequireFromString(stock)))
	return p
}

// ReloadProduct reads the stored product again
func ReloadProduct(t *testing.T, db *gorm.DB, p *catalog.Product) *catalog.Product {
	t.Helper()
	var fresh catalog.Product
	require.NoError(t, db.First(&fresh, "id = ?", p.ID).Error)
	return &fresh
}

// ReloadConsecutive reads the stored counter again
func ReloadConsecutive(t *testing.T, db *gorm.DB, c *billing.Consecutive) *billing.Consecutive {
	t.Helper()
	var fresh billing.Consecutive
	require.NoError(t, db.First(&fresh, "id = ?", c.ID).Error)
	return &fresh
}

// CountRows counts the rows of a model's table
func CountRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
