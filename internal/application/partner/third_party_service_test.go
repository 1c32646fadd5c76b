package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/domain/partner"
	"github.com/supermercado/backend/internal/domain/shared"
)

// MockThirdPartyRepository is a mock implementation of ThirdPartyRepository
type MockThirdPartyRepository struct {
	mock.Mock
}

func (m *MockThirdPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ThirdParty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ThirdParty), args.Error(1)
}

func (m *MockThirdPartyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.ThirdParty, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.ThirdParty), args.Error(1)
}

func (m *MockThirdPartyRepository) Save(ctx context.Context, party *partner.ThirdParty) error {
	return m.Called(ctx, party).Error(0)
}

func (m *MockThirdPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockThirdPartyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockThirdPartyRepository) ExistsByIdentification(ctx context.Context, idTypeID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, idTypeID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockThirdPartyRepository) FindCustomers(ctx context.Context, filter shared.Filter) ([]partner.ThirdParty, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.ThirdParty), args.Error(1)
}

func (m *MockThirdPartyRepository) CountCustomers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdentificationTypeRepository is a mock implementation of IdentificationTypeRepository
type MockIdentificationTypeRepository struct {
	mock.Mock
}

func (m *MockIdentificationTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.IdentificationType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.IdentificationType), args.Error(1)
}

func (m *MockIdentificationTypeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.IdentificationType, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.IdentificationType), args.Error(1)
}

func (m *MockIdentificationTypeRepository) Save(ctx context.Context, idType *partner.IdentificationType) error {
	return m.Called(ctx, idType).Error(0)
}

func (m *MockIdentificationTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockIdentificationTypeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdentificationTypeRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func newCC(t *testing.T) *partner.IdentificationType {
	t.Helper()
	cc, err := partner.NewIdentificationType("CC", "Cedula de ciudadania")
	require.NoError(t, err)
	return cc
}

func boolPtr(b bool) *bool {
	return &b
}

func TestThirdPartyService_Create(t *testing.T) {
	ctx := context.Background()
	cc := newCC(t)

	t.Run("registers a customer by default", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)

		idTypes.On("FindByID", ctx, cc.ID).Return(cc, nil)
		repo.On("ExistsByIdentification", ctx, cc.ID, "1020304050", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.ThirdParty")).Return(nil)

		resp, err := svc.Create(ctx, ThirdPartyRequest{
			IdentificationTypeID: cc.ID,
			IdentificationNumber: " 1020304050 ",
			FirstName:            "Maria",
			LastName:             "Lopez",
			Email:                "Maria.Lopez@Correo.co",
			Phone:                "+57 300 123 4567",
		})
		require.NoError(t, err)
		assert.Equal(t, "Maria Lopez", resp.DisplayName)
		assert.Equal(t, "maria.lopez@correo.co", resp.Email)
		assert.True(t, resp.IsCustomer)
		assert.False(t, resp.IsSupplier)
		assert.True(t, resp.Active)
		repo.AssertExpectations(t)
	})

	t.Run("supplier only", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)

		idTypes.On("FindByID", ctx, cc.ID).Return(cc, nil)
		repo.On("ExistsByIdentification", ctx, cc.ID, "900123456-7", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ThirdPartyRequest{
			IdentificationTypeID: cc.ID,
			IdentificationNumber: "900123456-7",
			BusinessName:         "Distribuidora Andina",
			IsCustomer:           boolPtr(false),
			IsSupplier:           boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Distribuidora Andina", resp.DisplayName)
		assert.False(t, resp.IsCustomer)
		assert.True(t, resp.IsSupplier)
	})

	t.Run("duplicate identification", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)

		idTypes.On("FindByID", ctx, cc.ID).Return(cc, nil)
		repo.On("ExistsByIdentification", ctx, cc.ID, "1020304050", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, ThirdPartyRequest{IdentificationTypeID: cc.ID, IdentificationNumber: "1020304050", FirstName: "Maria"})
		assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown identification type", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)
		missing := uuid.New()

		idTypes.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, ThirdPartyRequest{IdentificationTypeID: missing, IdentificationNumber: "1", FirstName: "X"})
		assert.Equal(t, shared.CodeValidation, codeOf(t, err))
	})

	t.Run("inactive identification type", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)
		passport := newCC(t)
		passport.SetActive(false)

		idTypes.On("FindByID", ctx, passport.ID).Return(passport, nil)

		_, err := svc.Create(ctx, ThirdPartyRequest{IdentificationTypeID: passport.ID, IdentificationNumber: "1", FirstName: "X"})
		assert.Equal(t, shared.CodeInactiveEntity, codeOf(t, err))
	})

	t.Run("neither customer nor supplier", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)

		idTypes.On("FindByID", ctx, cc.ID).Return(cc, nil)

		_, err := svc.Create(ctx, ThirdPartyRequest{
			IdentificationTypeID: cc.ID,
			IdentificationNumber: "1",
			FirstName:            "X",
			IsCustomer:           boolPtr(false),
		})
		assert.Equal(t, shared.CodeValidation, codeOf(t, err))
	})

	t.Run("bad email", func(t *testing.T) {
		repo := new(MockThirdPartyRepository)
		idTypes := new(MockIdentificationTypeRepository)
		svc := NewThirdPartyService(repo, idTypes, nil)

		idTypes.On("FindByID", ctx, cc.ID).Return(cc, nil)

		_, err := svc.Create(ctx, ThirdPartyRequest{IdentificationTypeID: cc.ID, IdentificationNumber: "1", FirstName: "X", Email: "no-es-correo"})
		assert.Equal(t, "INVALID_EMAIL", codeOf(t, err))
	})
}

func TestThirdPartyService_Update(t *testing.T) {
	ctx := context.Background()
	cc := newCC(t)
	existing, err := partner.NewThirdParty(cc.ID, "1020304050", "Maria", "Lopez", "")
	require.NoError(t, err)

	repo := new(MockThirdPartyRepository)
	idTypes := new(MockIdentificationTypeRepository)
	svc := NewThirdPartyService(repo, idTypes, nil)

	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("ExistsByIdentification", ctx, cc.ID, "1020304050", existing.ID).Return(false, nil)
	repo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.Update(ctx, existing.ID, ThirdPartyRequest{
		IdentificationTypeID: cc.ID,
		IdentificationNumber: "1020304050",
		FirstName:            "Maria Fernanda",
		LastName:             "Lopez",
		Address:              "Calle 10 # 20-30",
		Active:               boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Fernanda Lopez", resp.DisplayName)
	assert.Equal(t, "Calle 10 # 20-30", resp.Address)
	assert.False(t, resp.Active)
	assert.True(t, resp.IsCustomer, "flags not sent are kept")
	idTypes.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)

	t.Run("unknown id", func(t *testing.T) {
		missing := uuid.New()
		repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
		_, err := svc.Update(ctx, missing, ThirdPartyRequest{IdentificationTypeID: cc.ID, IdentificationNumber: "1", FirstName: "X"})
		assert.Equal(t, shared.CodeNotFound, codeOf(t, err))
	})
}

func TestThirdPartyService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	cc := newCC(t)
	maria, err := partner.NewThirdParty(cc.ID, "1020304050", "Maria", "Lopez", "")
	require.NoError(t, err)

	repo := new(MockThirdPartyRepository)
	svc := NewThirdPartyService(repo, new(MockIdentificationTypeRepository), nil)
	filter := shared.Filter{Search: "maria"}.Normalize()

	repo.On("FindAll", ctx, filter).Return([]partner.ThirdParty{*maria}, nil)
	repo.On("Count", ctx, filter).Return(int64(1), nil)

	page, err := svc.List(ctx, shared.Filter{Search: "maria"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, maria.ID, page.Items[0].ID)

	missing := uuid.New()
	repo.On("Delete", ctx, maria.ID).Return(nil)
	repo.On("Delete", ctx, missing).Return(shared.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, maria.ID))
	assert.Equal(t, shared.CodeNotFound, codeOf(t, svc.Delete(ctx, missing)))
}

func TestIdentificationTypeService(t *testing.T) {
	ctx := context.Background()

	t.Run("create uppercases and checks the code", func(t *testing.T) {
		repo := new(MockIdentificationTypeRepository)
		svc := NewIdentificationTypeService(repo, nil)

		repo.On("ExistsByCode", ctx, "NIT", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.IdentificationType")).Return(nil)

		resp, err := svc.Create(ctx, IdentificationTypeRequest{Code: "nit", Name: "Numero de identificacion tributaria"})
		require.NoError(t, err)
		assert.Equal(t, "NIT", resp.Code)
		assert.True(t, resp.Active)
	})

	t.Run("create rejects a taken code", func(t *testing.T) {
		repo := new(MockIdentificationTypeRepository)
		svc := NewIdentificationTypeService(repo, nil)

		repo.On("ExistsByCode", ctx, "CC", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, IdentificationTypeRequest{Code: "cc", Name: "Cedula"})
		assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))
	})

	t.Run("update deactivates", func(t *testing.T) {
		repo := new(MockIdentificationTypeRepository)
		svc := NewIdentificationTypeService(repo, nil)
		cc := newCC(t)

		repo.On("FindByID", ctx, cc.ID).Return(cc, nil)
		repo.On("ExistsByCode", ctx, "CC", cc.ID).Return(false, nil)
		repo.On("Save", ctx, cc).Return(nil)

		resp, err := svc.Update(ctx, cc.ID, IdentificationTypeRequest{Code: "CC", Name: "Cedula", Active: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, resp.Active)
		assert.Equal(t, "Cedula", resp.Name)
	})

	t.Run("update of unknown id", func(t *testing.T) {
		repo := new(MockIdentificationTypeRepository)
		svc := NewIdentificationTypeService(repo, nil)
		missing := uuid.New()

		repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, missing, IdentificationTypeRequest{Code: "CC", Name: "Cedula"})
		assert.Equal(t, shared.CodeNotFound, codeOf(t, err))
	})

	t.Run("blank name", func(t *testing.T) {
		svc := NewIdentificationTypeService(new(MockIdentificationTypeRepository), nil)
		_, err := svc.Create(ctx, IdentificationTypeRequest{Code: "PP", Name: "  "})
		assert.Equal(t, shared.CodeValidation, codeOf(t, err))
	})
}
