package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appbilling "github.com/supermercado/backend/internal/application/billing"
	"github.com/supermercado/backend/internal/application/identity"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/auth"
	"github.com/supermercado/backend/internal/interfaces/http/dto"
	"github.com/supermercado/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// authenticated simulates the JWT middleware without signing a token
func authenticated(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti-" + userID.String(),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
			},
			UserID: userID.String(),
			Role:   role,
		})
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, role)
		c.Next()
	}
}

func newEngine(pre ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(pre...)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// MockInvoiceService is a testify mock of InvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, actorID uuid.UUID, req appbilling.CreateInvoiceRequest) (*billing.InvoiceView, error) {
	args := m.Called(ctx, actorID, req)
	return viewArg(args, 0), args.Error(1)
}

func (m *MockInvoiceService) Void(ctx context.Context, id, actorID uuid.UUID, reason string) (*billing.InvoiceView, error) {
	args := m.Called(ctx, id, actorID, reason)
	return viewArg(args, 0), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceView, error) {
	args := m.Called(ctx, id)
	return viewArg(args, 0), args.Error(1)
}

func (m *MockInvoiceService) Search(ctx context.Context, req appbilling.SearchInvoicesRequest) (*appbilling.InvoiceListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.InvoiceListResponse), args.Error(1)
}

func (m *MockInvoiceService) PendingPayment(ctx context.Context, filter shared.Filter) ([]billing.InvoiceView, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.InvoiceView), args.Error(1)
}

func (m *MockInvoiceService) Today(ctx context.Context) ([]billing.InvoiceView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]billing.InvoiceView), args.Error(1)
}

func (m *MockInvoiceService) DailySummary(ctx context.Context, date string) (*billing.DailySummary, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.DailySummary), args.Error(1)
}

func (m *MockInvoiceService) Statistics(ctx context.Context) (*billing.SalesStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SalesStatistics), args.Error(1)
}

func (m *MockInvoiceService) AvailableProducts(ctx context.Context, filter shared.Filter) ([]appbilling.AvailableProductResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appbilling.AvailableProductResponse), args.Error(1)
}

func (m *MockInvoiceService) PaymentMethods(ctx context.Context) ([]appbilling.PaymentMethodOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]appbilling.PaymentMethodOption), args.Error(1)
}

func (m *MockInvoiceService) Customers(ctx context.Context, filter shared.Filter) ([]appbilling.CustomerOption, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appbilling.CustomerOption), args.Error(1)
}

func viewArg(args mock.Arguments, i int) *billing.InvoiceView {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*billing.InvoiceView)
}

// MockAuthService is a testify mock of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, jti string, remaining time.Duration) error {
	return m.Called(ctx, jti, remaining).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.CurrentUserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.CurrentUserResponse), args.Error(1)
}

// MockRenderer is a testify mock of InvoiceRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderInvoice(ctx context.Context, view *billing.InvoiceView) ([]byte, error) {
	args := m.Called(ctx, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
