package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curiomuse/artefact-catalog/internal/modules/model"
	"github.com/curiomuse/artefact-catalog/internal/modules/repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockDocumentStore is a mock implementation of repo.DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, collection string, id uuid.UUID) (*model.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Query(ctx context.Context, collection string, constraints ...repo.Constraint) ([]*model.Document, error) {
	args := m.Called(ctx, collection, constraints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Create(ctx context.Context, collection string, data map[string]any) (uuid.UUID, error) {
	args := m.Called(ctx, collection, data)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockDocumentStore) Set(ctx context.Context, collection string, id uuid.UUID, data map[string]any) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection string, id uuid.UUID, data map[string]any) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

const fixedStamp = "2026-08-31T12:00:00Z"

func newTestService(docs repo.DocumentStore) ArtefactService {
	return &artefactService{
		docs: docs,
		log:  zap.NewNop(),
		now:  func() time.Time { return fixedNow },
	}
}

func TestArtefactService_Create(t *testing.T) {
	id := uuid.New()

	t.Run("stamps timestamps and defaults status", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Create", mock.Anything, "artefacts", mock.MatchedBy(func(data map[string]any) bool {
			return data["createdAt"] == fixedStamp &&
				data["updatedAt"] == fixedStamp &&
				data["status"] == "draft" &&
				data["id"] == nil
		})).Return(id, nil)

		svc := newTestService(docs)
		got, err := svc.Create(context.Background(), &model.Artefact{Title: "Bronze Horse"})

		assert.NoError(t, err)
		assert.Equal(t, id, got)
		docs.AssertExpectations(t)
	})

	t.Run("keeps provided status", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Create", mock.Anything, "artefacts", mock.MatchedBy(func(data map[string]any) bool {
			return data["status"] == "published"
		})).Return(id, nil)

		svc := newTestService(docs)
		_, err := svc.Create(context.Background(), &model.Artefact{Status: model.StatusPublished})

		assert.NoError(t, err)
		docs.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Create", mock.Anything, "artefacts", mock.Anything).Return(uuid.Nil, errors.New("insert failed"))

		svc := newTestService(docs)
		_, err := svc.Create(context.Background(), &model.Artefact{})

		assert.Error(t, err)
	})
}

func TestArtefactService_Get(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Get", mock.Anything, "artefacts", id).Return(&model.Document{
			ID:   id,
			Data: map[string]any{"title": "Etching", "status": "draft"},
		}, nil)

		svc := newTestService(docs)
		got, err := svc.Get(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id.String(), got.ID)
		assert.Equal(t, "Etching", got.Title)
	})

	t.Run("missing yields nil, nil", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Get", mock.Anything, "artefacts", id).Return(nil, nil)

		svc := newTestService(docs)
		got, err := svc.Get(context.Background(), id)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store error", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Get", mock.Anything, "artefacts", id).Return(nil, errors.New("connection refused"))

		svc := newTestService(docs)
		_, err := svc.Get(context.Background(), id)

		assert.Error(t, err)
	})
}

func TestArtefactService_GetFiltered(t *testing.T) {
	status := model.StatusPublished
	public := true
	category := "painting"

	t.Run("all filters become constraints", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Query", mock.Anything, "artefacts", []repo.Constraint{
			repo.Where("status", "==", "published"),
			repo.Where("isPublic", "==", true),
			repo.Where("category", "==", "painting"),
			repo.Limit(5),
		}).Return([]*model.Document{}, nil)

		svc := newTestService(docs)
		got, err := svc.GetFiltered(context.Background(), ArtefactFilters{
			Status:   &status,
			IsPublic: &public,
			Category: &category,
			Limit:    5,
		})

		assert.NoError(t, err)
		assert.Empty(t, got)
		docs.AssertExpectations(t)
	})

	t.Run("omitted filters apply no predicate", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Query", mock.Anything, "artefacts", mock.MatchedBy(func(cs []repo.Constraint) bool {
			return len(cs) == 0
		})).Return([]*model.Document{
			{ID: uuid.New(), Data: map[string]any{"title": "A"}},
			{ID: uuid.New(), Data: map[string]any{"title": "B"}},
		}, nil)

		svc := newTestService(docs)
		got, err := svc.GetFiltered(context.Background(), ArtefactFilters{})

		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestArtefactService_Update(t *testing.T) {
	id := uuid.New()

	t.Run("strips immutables and refreshes updatedAt", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Update", mock.Anything, "artefacts", id, mock.MatchedBy(func(data map[string]any) bool {
			_, hasID := data["id"]
			_, hasCreated := data["createdAt"]
			return !hasID && !hasCreated &&
				data["updatedAt"] == fixedStamp &&
				data["title"] == "Renamed"
		})).Return(nil)

		svc := newTestService(docs)
		err := svc.Update(context.Background(), id, map[string]any{
			"id":        "spoofed",
			"createdAt": "1999-01-01T00:00:00Z",
			"title":     "Renamed",
		})

		assert.NoError(t, err)
		docs.AssertExpectations(t)
	})

	t.Run("missing artefact surfaces store error unwrapped", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Update", mock.Anything, "artefacts", id, mock.Anything).Return(gorm.ErrRecordNotFound)

		svc := newTestService(docs)
		err := svc.Update(context.Background(), id, map[string]any{"title": "x"})

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestArtefactService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("no existence pre-check", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Delete", mock.Anything, "artefacts", id).Return(nil)

		svc := newTestService(docs)
		err := svc.Delete(context.Background(), id)

		assert.NoError(t, err)
		docs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		docs.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		docs := &MockDocumentStore{}
		docs.On("Delete", mock.Anything, "artefacts", id).Return(errors.New("delete failed"))

		svc := newTestService(docs)
		err := svc.Delete(context.Background(), id)

		assert.Error(t, err)
	})
}

func TestArtefactService_Search(t *testing.T) {
	docs := &MockDocumentStore{}
	docs.On("Query", mock.Anything, "artefacts", mock.Anything).Return([]*model.Document{
		{ID: uuid.New(), Data: map[string]any{"title": "Category A Sculpture", "description": "bronze"}},
		{ID: uuid.New(), Data: map[string]any{"title": "Landscape", "description": "A cathedral at dusk"}},
		{ID: uuid.New(), Data: map[string]any{"title": "Untitled"}},
	}, nil)

	svc := newTestService(docs)

	t.Run("matches title case-insensitively", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "cat")
		assert.NoError(t, err)
		// "cat" hits both "Category A Sculpture" and "cathedral".
		assert.Len(t, got, 2)
	})

	t.Run("matches description", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "BRONZE")
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "Category A Sculpture", got[0].Title)
	})

	t.Run("documents without description are safe", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "untitled")
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "nonexistent")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}
