package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/partner"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// InvoiceService issues, voids and queries invoices
type InvoiceService struct {
	txScope           TransactionScope
	reader            billing.InvoiceReader
	productRepo       catalog.ProductRepository
	taxRateRepo       catalog.TaxRateRepository
	thirdPartyRepo    partner.ThirdPartyRepository
	paymentMethodRepo billing.PaymentMethodRepository
	salesDocumentCode string
	minInvoiceTotal   decimal.Decimal
	voidWindow        time.Duration
	location          *time.Location
	now               func() time.Time
	metrics           InvoiceMetrics
	logger            *zap.Logger
}

// InvoiceMetrics receives the outcome of issuance and void operations
type InvoiceMetrics interface {
	InvoiceIssued(ctx context.Context, netTotal decimal.Decimal, elapsed time.Duration)
	IssuanceFailed(ctx context.Context, step, code string, elapsed time.Duration)
	InvoiceVoided(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) InvoiceIssued(context.Context, decimal.Decimal, time.Duration) {}
func (noopMetrics) IssuanceFailed(context.Context, string, string, time.Duration) {}
func (noopMetrics) InvoiceVoided(context.Context) {}

// InvoiceServiceConfig holds the collaborators and rules of the invoice service
type InvoiceServiceConfig struct {
	TxScope           TransactionScope
	Reader            billing.InvoiceReader
	ProductRepo       catalog.ProductRepository
	TaxRateRepo       catalog.TaxRateRepository
	ThirdPartyRepo    partner.ThirdPartyRepository
	PaymentMethodRepo billing.PaymentMethodRepository
	SalesDocumentCode string
	MinInvoiceTotal   decimal.Decimal
	VoidWindow        time.Duration
	Location          *time.Location // defines the business day; UTC when nil
	Clock             func() time.Time
	Metrics           InvoiceMetrics
	Logger            *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(config InvoiceServiceConfig) *InvoiceService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	code := config.SalesDocumentCode
	if code == "" {
		code = billing.DocumentTypeSalesInvoice
	}
	window := config.VoidWindow
	if window == 0 {
		window = billing.DefaultVoidWindow
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &InvoiceService{
		txScope:           config.TxScope,
		reader:            config.Reader,
		productRepo:       config.ProductRepo,
		taxRateRepo:       config.TaxRateRepo,
		thirdPartyRepo:    config.ThirdPartyRepo,
		paymentMethodRepo: config.PaymentMethodRepo,
		salesDocumentCode: code,
		minInvoiceTotal:   config.MinInvoiceTotal,
		voidWindow:        window,
		location:          location,
		now:               func() time.Time { return clock().UTC() },
		metrics:           metrics,
		logger:            logger,
	}
}

// issuance carries the state of one invoice creation attempt between steps
type issuance struct {
	req    CreateInvoiceRequest
	repos  TransactionalRepositories
	now    time.Time
	userID uuid.UUID

	products map[uuid.UUID]*catalog.Product
	taxRates map[uuid.UUID]decimal.Decimal

	consecutive    *billing.Consecutive
	documentTypeID uuid.UUID
	documentNumber string

	inputs  []billing.LineInput
	amounts []billing.LineAmounts
	totals  billing.Totals

	movement *billing.Movement
	invoice  *billing.Invoice
}

type issuanceStep struct {
	name string
	run  func(ctx context.Context, is *issuance) error
}

// issuanceSteps lists the issuance steps in execution order. Every step runs
// inside the same transaction; the first error rolls everything back.
func (s *InvoiceService) issuanceSteps() []issuanceStep {
	return []issuanceStep{
		{"check_references", s.checkReferences},
		{"validate_stock", s.validateStock},
		{"allocate_number", s.allocateNumber},
		{"compute_totals", s.computeTotals},
		{"verify_payments", s.verifyPayments},
		{"insert_movement", s.insertMovement},
		{"insert_invoice", s.insertInvoice},
		{"insert_lines", s.insertLines},
		{"insert_payments", s.insertPayments},
		{"decrement_stock", s.decrementStock},
		{"advance_consecutive", s.advanceConsecutive},
	}
}

// Create issues a sales invoice. actorID is the authenticated user and is
// used when the request names no user.
func (s *InvoiceService) Create(ctx context.Context, actorID uuid.UUID, req CreateInvoiceRequest) (*billing.InvoiceView, error) {
	is := &issuance{req: req, now: s.now(), userID: actorID}
	if req.UserID != nil && *req.UserID != uuid.Nil {
		is.userID = *req.UserID
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SpanAttrThirdPartyID, req.ThirdPartyID.String(),
		telemetry.SpanAttrUserID, is.userID.String(),
		telemetry.SpanAttrLineCount, len(req.Lines),
		telemetry.SpanAttrPaymentCount, len(req.Payments),
	)
	defer span.End()

	started := time.Now()
	failedStep := "commit"
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		is.repos = repos
		for _, step := range s.issuanceSteps() {
			if err := step.run(ctx, is); err != nil {
				failedStep = step.name
				telemetry.SetAttributes(span, telemetry.SpanAttrStep, step.name)
				s.logger.Warn("Invoice issuance failed",
					zap.String("step", step.name),
					zap.String("third_party_id", req.ThirdPartyID.String()),
					zap.String("user_id", is.userID.String()),
					zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		err = asDomainError(err)
		s.metrics.IssuanceFailed(ctx, failedStep, errorCode(err), time.Since(started))
		return nil, err
	}
	s.metrics.InvoiceIssued(ctx, is.totals.Net, time.Since(started))

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, is.invoice.ID.String(),
		telemetry.SpanAttrDocumentNumber, is.documentNumber,
		telemetry.SpanAttrNetTotal, is.totals.Net.StringFixed(2),
	)
	s.logger.Info("Invoice issued",
		zap.String("invoice_id", is.invoice.ID.String()),
		zap.String("document_number", is.documentNumber),
		zap.String("net_total", is.totals.Net.StringFixed(2)),
		zap.Int("lines", len(is.inputs)))

	return s.reader.FindView(ctx, is.invoice.ID)
}

func (s *InvoiceService) checkReferences(ctx context.Context, is *issuance) error {
	req := is.req
	if len(req.Lines) == 0 {
		return shared.NewValidationError("An invoice needs at least one line")
	}
	if len(req.Payments) == 0 {
		return shared.NewValidationError("An invoice needs at least one payment")
	}

	thirdParty, err := is.repos.ThirdPartyRepo().FindByID(ctx, req.ThirdPartyID)
	if err != nil {
		return notFoundAs(err, "Third party", req.ThirdPartyID)
	}
	if !thirdParty.IsActive() {
		return shared.NewInactiveError("Third party", thirdParty.DisplayName())
	}
	if !thirdParty.IsCustomer {
		return shared.NewBusinessRuleError("Third party %s is not a customer", thirdParty.DisplayName())
	}

	user, err := is.repos.UserRepo().FindByID(ctx, is.userID)
	if err != nil {
		return notFoundAs(err, "User", is.userID)
	}
	if !user.IsActive() {
		return shared.NewInactiveError("User", user.Email)
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, line := range req.Lines {
		if seen[line.ProductID] {
			return shared.NewValidationError("Product %s appears on more than one line", line.ProductID)
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}

	products, err := is.repos.ProductRepo().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	is.products = make(map[uuid.UUID]*catalog.Product, len(products))
	taxIDs := make([]uuid.UUID, 0, len(products))
	for i := range products {
		is.products[products[i].ID] = &products[i]
		taxIDs = append(taxIDs, products[i].TaxRateID)
	}
	for _, id := range ids {
		product, ok := is.products[id]
		if !ok {
			return shared.NewNotFoundError("Product", id)
		}
		if !product.IsActive() {
			return shared.NewInactiveError("Product", product.Code)
		}
	}

	taxRates, err := is.repos.TaxRateRepo().FindByIDs(ctx, taxIDs)
	if err != nil {
		return err
	}
	is.taxRates = make(map[uuid.UUID]decimal.Decimal, len(taxRates))
	for _, rate := range taxRates {
		is.taxRates[rate.ID] = rate.Percentage
	}
	for _, product := range is.products {
		if _, ok := is.taxRates[product.TaxRateID]; !ok {
			return shared.NewNotFoundError("Tax rate", product.TaxRateID)
		}
	}

	for _, payment := range req.Payments {
		method, err := is.repos.PaymentMethodRepo().FindByID(ctx, payment.PaymentMethodID)
		if err != nil {
			return notFoundAs(err, "Payment method", payment.PaymentMethodID)
		}
		if !method.Active {
			return shared.NewInactiveError("Payment method", method.Name)
		}
	}
	return nil
}

func (s *InvoiceService) validateStock(ctx context.Context, is *issuance) error {
	requests := make([]billing.StockRequest, len(is.req.Lines))
	for i, line := range is.req.Lines {
		requests[i] = billing.StockRequest{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return billing.NewStockValidator(is.repos.ProductRepo()).Validate(ctx, requests)
}

func (s *InvoiceService) allocateNumber(ctx context.Context, is *issuance) error {
	docType, err := is.repos.DocumentTypeRepo().FindByCode(ctx, s.salesDocumentCode)
	if err != nil {
		return notFoundAs(err, "Document type", s.salesDocumentCode)
	}
	if !docType.Active {
		return shared.NewInactiveError("Document type", docType.Code)
	}

	consecutive, err := is.repos.ConsecutiveRepo().FindActiveByDocumentTypeForUpdate(ctx, docType.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(shared.CodeNotFound,
				"No active consecutive is configured for document type "+docType.Code)
		}
		return err
	}

	number, err := consecutive.NextNumber()
	if err != nil {
		return err
	}
	is.documentTypeID = docType.ID
	is.consecutive = consecutive
	is.documentNumber = consecutive.FormatDocumentNumber(number)
	return nil
}

func (s *InvoiceService) computeTotals(_ context.Context, is *issuance) error {
	is.inputs = make([]billing.LineInput, len(is.req.Lines))
	is.amounts = make([]billing.LineAmounts, len(is.req.Lines))
	for i, line := range is.req.Lines {
		product := is.products[line.ProductID]
		price := product.UnitPrice
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		is.inputs[i] = billing.LineInput{
			Quantity:           line.Quantity,
			UnitPrice:          price,
			DiscountPercentage: line.DiscountPercentage,
			DiscountValue:      line.DiscountValue,
			TaxPercentage:      is.taxRates[product.TaxRateID],
		}
		amounts, err := billing.CalculateLine(is.inputs[i])
		if err != nil {
			return err
		}
		is.amounts[i] = amounts
	}

	is.totals = billing.SumTotals(is.amounts)
	if is.totals.Net.LessThan(s.minInvoiceTotal) {
		return shared.NewBusinessRuleError("Invoice total %s is below the minimum of %s",
			is.totals.Net.StringFixed(2), s.minInvoiceTotal.StringFixed(2))
	}
	return nil
}

func (s *InvoiceService) verifyPayments(_ context.Context, is *issuance) error {
	amounts := make([]decimal.Decimal, len(is.req.Payments))
	for i, payment := range is.req.Payments {
		if !payment.Amount.IsPositive() {
			return shared.NewValidationError("Payment amount must be greater than zero")
		}
		amounts[i] = payment.Amount
	}
	paid := billing.SumAmounts(amounts)
	if !billing.WithinTolerance(paid, is.totals.Net) {
		return shared.NewValidationError("Payments total %s does not match invoice total %s",
			paid.StringFixed(2), is.totals.Net.StringFixed(2))
	}
	return nil
}

func (s *InvoiceService) insertMovement(ctx context.Context, is *issuance) error {
	is.movement = billing.NewMovement(is.documentTypeID, is.consecutive.ID, is.documentNumber,
		is.now, is.userID, is.req.ThirdPartyID, is.req.Notes)
	return is.repos.MovementRepo().Create(ctx, is.movement)
}

func (s *InvoiceService) insertInvoice(ctx context.Context, is *issuance) error {
	invoice, err := billing.NewInvoice(is.movement.ID, is.totals)
	if err != nil {
		return err
	}
	is.invoice = invoice
	return is.repos.InvoiceRepo().Create(ctx, invoice)
}

func (s *InvoiceService) insertLines(ctx context.Context, is *issuance) error {
	for i, line := range is.req.Lines {
		product, err := is.repos.ProductRepo().FindByID(ctx, line.ProductID)
		if err != nil {
			return notFoundAs(err, "Product", line.ProductID)
		}
		amounts, err := billing.CalculateLine(is.inputs[i])
		if err != nil {
			return err
		}
		record := billing.NewInvoiceLine(is.invoice.ID, product.ID, is.inputs[i], amounts)
		if err := is.repos.InvoiceRepo().CreateLine(ctx, &record); err != nil {
			return err
		}
	}
	return nil
}

func (s *InvoiceService) insertPayments(ctx context.Context, is *issuance) error {
	payments := make([]billing.InvoicePayment, 0, len(is.req.Payments))
	for _, p := range is.req.Payments {
		payment, err := billing.NewInvoicePayment(is.invoice.ID, p.PaymentMethodID, p.Amount, p.Reference)
		if err != nil {
			return err
		}
		payments = append(payments, payment)
	}
	return is.repos.InvoiceRepo().CreatePayments(ctx, payments)
}

func (s *InvoiceService) decrementStock(ctx context.Context, is *issuance) error {
	for _, line := range is.req.Lines {
		err := is.repos.ProductRepo().DecreaseStock(ctx, line.ProductID, line.Quantity)
		if err == nil {
			continue
		}
		if errors.Is(err, shared.ErrInsufficientStock) {
			product := is.products[line.ProductID]
			if current, findErr := is.repos.ProductRepo().FindByID(ctx, line.ProductID); findErr == nil {
				product = current
			}
			return billing.NewInsufficientStockError(product.ID, product.Name, product.StockCurrent, line.Quantity)
		}
		return err
	}
	return nil
}

func (s *InvoiceService) advanceConsecutive(ctx context.Context, is *issuance) error {
	return is.repos.ConsecutiveRepo().AdvanceFrom(ctx, is.consecutive.ID, is.consecutive.CurrentNumber)
}

// Void cancels an invoice inside the void window and returns its stock.
// The invoice and its movement are kept; the movement notes get an audit line.
func (s *InvoiceService) Void(ctx context.Context, id, actorID uuid.UUID, reason string) (*billing.InvoiceView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewValidationError("A reason is required to void an invoice")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "void",
		telemetry.SpanAttrInvoiceID, id.String(),
		telemetry.SpanAttrUserID, actorID.String(),
	)
	defer span.End()

	var documentNumber string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, "Invoice", id)
		}
		movement, err := repos.MovementRepo().FindByID(ctx, invoice.MovementID)
		if err != nil {
			return err
		}
		documentNumber = movement.DocumentNumber

		now := s.now()
		if err := invoice.Void(actorID, reason, movement.IssuedAt, now, s.voidWindow); err != nil {
			return err
		}
		for _, line := range invoice.Lines {
			if err := repos.ProductRepo().IncreaseStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := repos.InvoiceRepo().UpdateStatus(ctx, invoice); err != nil {
			return err
		}
		movement.AppendNote(billing.FormatVoidNote(reason, actorID, now))
		return repos.MovementRepo().UpdateNotes(ctx, movement.ID, movement.Notes)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Invoice void failed",
			zap.String("invoice_id", id.String()),
			zap.String("user_id", actorID.String()),
			zap.Error(err))
		return nil, asDomainError(err)
	}

	s.metrics.InvoiceVoided(ctx)
	s.logger.Info("Invoice voided",
		zap.String("invoice_id", id.String()),
		zap.String("document_number", documentNumber),
		zap.String("user_id", actorID.String()))

	return s.reader.FindView(ctx, id)
}

// GetByID returns the assembled invoice
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceView, error) {
	view, err := s.reader.FindView(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Invoice", id)
	}
	return view, nil
}

// Search lists invoices matching the request, newest first
func (s *InvoiceService) Search(ctx context.Context, req SearchInvoicesRequest) (*InvoiceListResponse, error) {
	filter, err := s.toInvoiceFilter(req)
	if err != nil {
		return nil, err
	}
	views, total, err := s.reader.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResponse{
		Items:    views,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *InvoiceService) toInvoiceFilter(req SearchInvoicesRequest) (billing.InvoiceFilter, error) {
	page := shared.Filter{Page: req.Page, PageSize: req.PageSize}.Normalize()
	filter := billing.InvoiceFilter{
		ThirdPartyID:   req.ThirdPartyID,
		UserID:         req.UserID,
		MinAmount:      req.MinAmount,
		MaxAmount:      req.MaxAmount,
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		Page:           page.Page,
		PageSize:       page.PageSize,
	}

	if req.From != "" {
		from, _, err := s.parseDateBound(req.From)
		if err != nil {
			return filter, shared.NewValidationError("fechaInicio must be yyyy-MM-dd or RFC 3339")
		}
		filter.From = &from
	}
	if req.To != "" {
		to, dateOnly, err := s.parseDateBound(req.To)
		if err != nil {
			return filter, shared.NewValidationError("fechaFin must be yyyy-MM-dd or RFC 3339")
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, shared.NewValidationError("fechaInicio must be before fechaFin")
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return filter, shared.NewValidationError("montoMinimo cannot exceed montoMaximo")
	}
	if req.Status != "" {
		status := billing.InvoiceStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		if !status.IsValid() {
			return filter, shared.NewValidationError("estado must be ISSUED or VOIDED")
		}
		filter.Status = status
	}
	return filter, nil
}

// parseDateBound accepts a calendar date in the business location or a full
// RFC 3339 timestamp. dateOnly tells which one was given.
func (s *InvoiceService) parseDateBound(value string) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if day, err := time.ParseInLocation(dateLayout, value, s.location); err == nil {
		return day, true, nil
	}
	t, err = time.Parse(time.RFC3339, value)
	return t, false, err
}

// PendingPayment lists issued invoices whose payments fall short of the total
func (s *InvoiceService) PendingPayment(ctx context.Context, filter shared.Filter) ([]billing.InvoiceView, error) {
	return s.reader.FindPendingPayment(ctx, filter)
}

// Today lists the invoices issued since midnight
func (s *InvoiceService) Today(ctx context.Context) ([]billing.InvoiceView, error) {
	from := s.startOfDay(s.now())
	to := from.AddDate(0, 0, 1)
	views, _, err := s.reader.Search(ctx, billing.InvoiceFilter{From: &from, To: &to})
	return views, err
}

// DailySummary aggregates the invoices of one calendar day (yyyy-MM-dd)
func (s *InvoiceService) DailySummary(ctx context.Context, date string) (*billing.DailySummary, error) {
	from, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), s.location)
	if err != nil {
		return nil, shared.NewValidationError("Date %q must use the yyyy-MM-dd format", date)
	}
	to := from.AddDate(0, 0, 1)
	views, _, err := s.reader.Search(ctx, billing.InvoiceFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	summary := billing.Summarize(from.Format(dateLayout), views)
	return &summary, nil
}

// Statistics returns the sales dashboard figures
func (s *InvoiceService) Statistics(ctx context.Context) (*billing.SalesStatistics, error) {
	today := s.startOfDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.location)

	todayCount, todaySales, err := s.reader.SalesTotals(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	monthCount, monthSales, err := s.reader.SalesTotals(ctx, monthStart, tomorrow)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.CountBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.thirdPartyRepo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if monthCount > 0 {
		average = billing.Round2(monthSales.Div(decimal.NewFromInt(monthCount)))
	}
	return &billing.SalesStatistics{
		TodaySales:       todaySales,
		TodayInvoices:    int(todayCount),
		MonthSales:       monthSales,
		MonthInvoices:    int(monthCount),
		AverageTicket:    average,
		LowStockProducts: lowStock,
		ActiveCustomers:  customers,
	}, nil
}

// AvailableProducts lists active products with stock, with their tax percentage
func (s *InvoiceService) AvailableProducts(ctx context.Context, filter shared.Filter) ([]AvailableProductResponse, error) {
	products, err := s.productRepo.FindAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}
	taxIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		taxIDs = append(taxIDs, p.TaxRateID)
	}
	rates, err := s.taxRateRepo.FindByIDs(ctx, taxIDs)
	if err != nil {
		return nil, err
	}
	percentages := make(map[uuid.UUID]decimal.Decimal, len(rates))
	for _, r := range rates {
		percentages[r.ID] = r.Percentage
	}

	result := make([]AvailableProductResponse, len(products))
	for i := range products {
		result[i] = toAvailableProduct(&products[i], percentages[products[i].TaxRateID])
	}
	return result, nil
}

// PaymentMethods lists the active payment methods
func (s *InvoiceService) PaymentMethods(ctx context.Context) ([]PaymentMethodOption, error) {
	methods, err := s.paymentMethodRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]PaymentMethodOption, len(methods))
	for i, m := range methods {
		result[i] = PaymentMethodOption{ID: m.ID, Code: m.Code, Name: m.Name}
	}
	return result, nil
}

// Customers lists the active customers
func (s *InvoiceService) Customers(ctx context.Context, filter shared.Filter) ([]CustomerOption, error) {
	customers, err := s.thirdPartyRepo.FindCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]CustomerOption, len(customers))
	for i := range customers {
		result[i] = toCustomerOption(&customers[i])
	}
	return result, nil
}

func (s *InvoiceService) startOfDay(t time.Time) time.Time {
	local := t.In(s.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
}

// notFoundAs names the missing entity when err is a not-found error
func notFoundAs(err error, entity string, key any) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(entity, key)
	}
	return err
}

// errorCode returns the domain error code of err, or a coarse label for
// cancellations
func errorCode(err error) string {
	var domainErr *shared.DomainError
	switch {
	case errors.As(err, &domainErr):
		return domainErr.Code
	case errors.Is(err, context.DeadlineExceeded):
		return "DEADLINE_EXCEEDED"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// asDomainError keeps domain errors and cancellations as they are and turns
// anything else into a persistence failure carrying the raw message.
func asDomainError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return shared.NewDomainError(shared.CodePersistence, err.Error())
}
