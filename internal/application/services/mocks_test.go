package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
)

// Mocks

type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.CompletionResponse), args.Error(1)
}

func (m *MockCompletionProvider) Name() string {
	return "mock"
}

type MockEntityResolver struct {
	mock.Mock
}

func (m *MockEntityResolver) FindByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ingredient), args.Error(1)
}

func (m *MockEntityResolver) SearchByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ingredient), args.Error(1)
}

func (m *MockEntityResolver) CreatePlaceholder(ctx context.Context, name string) (*entities.Ingredient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ingredient), args.Error(1)
}

type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) FindByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) SearchByName(ctx context.Context, query string, limit int) ([]*entities.Ingredient, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) CreateIfAbsent(ctx context.Context, ingredient *entities.Ingredient) (*entities.Ingredient, error) {
	args := m.Called(ctx, ingredient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) List(ctx context.Context, afterID string, limit int) ([]*entities.Ingredient, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ingredient), args.Error(1)
}

type MockIngredientSearchProvider struct {
	mock.Mock
}

func (m *MockIngredientSearchProvider) Search(ctx context.Context, query string, limit int) ([]*entities.Ingredient, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ingredient), args.Error(1)
}

func (m *MockIngredientSearchProvider) Index(ctx context.Context, ingredient *entities.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ListByTaxonomy(ctx context.Context, taxonomy entities.Taxonomy) ([]*entities.TaxonomyTerm, error) {
	args := m.Called(ctx, taxonomy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TaxonomyTerm), args.Error(1)
}

func (m *MockTaxonomyRepository) EnsureTerm(ctx context.Context, taxonomy entities.Taxonomy, name string) (*entities.TaxonomyTerm, error) {
	args := m.Called(ctx, taxonomy, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TaxonomyTerm), args.Error(1)
}

type MockMigrationRecordRepository struct {
	mock.Mock
}

func (m *MockMigrationRecordRepository) InsertIfAbsent(ctx context.Context, sourceID string) error {
	args := m.Called(ctx, sourceID)
	return args.Error(0)
}

func (m *MockMigrationRecordRepository) MarkInProgress(ctx context.Context, sourceID string, startedAt time.Time) (bool, error) {
	args := m.Called(ctx, sourceID, startedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockMigrationRecordRepository) Complete(ctx context.Context, record *entities.MigrationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMigrationRecordRepository) GetBySourceID(ctx context.Context, sourceID string) (*entities.MigrationRecord, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MigrationRecord), args.Error(1)
}

func (m *MockMigrationRecordRepository) CountByStatus(ctx context.Context) (map[entities.MigrationStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.MigrationStatus]int), args.Error(1)
}

func (m *MockMigrationRecordRepository) ListByStatus(ctx context.Context, status entities.MigrationStatus, limit, offset int) ([]*entities.MigrationRecord, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MigrationRecord), args.Error(1)
}

type MockRunLock struct {
	mock.Mock
}

func (m *MockRunLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, name, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}
