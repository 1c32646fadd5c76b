// Package billing holds the invoicing domain of the store.
//
// An invoice is issued in one unit of work that touches several tables:
//   - Movement: the document header carrying the allocated document number
//   - Invoice: totals and status of the sale
//   - InvoiceLine / InvoicePayment: what was sold and how it was paid
//   - Consecutive: the numbering counter the document number comes from
//   - catalog.Product: stock is decremented for every line
//
// The package provides the pure parts of that workflow (pricing, numbering,
// stock checks, void rules) and the repository ports the application layer
// drives inside a transaction. Voiding is the inverse: stock comes back and the
// invoice moves to VOIDED.
package billing
