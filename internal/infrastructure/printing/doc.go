// Package printing renders sales invoices to PDF with maroto.
//
// Amounts are formatted for the locale configured under company.locale:
//
//	renderer := printing.NewInvoiceRenderer(cfg.Company, cfg.Billing.Location(), logger)
//	pdf, err := renderer.RenderInvoice(ctx, view)
//	if err != nil {
//	    return err
//	}
//	c.Data(http.StatusOK, "application/pdf", pdf)
package printing
