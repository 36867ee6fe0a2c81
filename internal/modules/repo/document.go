package repo

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/curiomuse/artefact-catalog/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentStore is the generic CRUD + query surface over named collections.
// It runs on a trusted database handle with no access-rule layer, so it must
// only ever be invoked from server-side code.
type DocumentStore interface {
	// Get returns (nil, nil) when the document does not exist.
	Get(ctx context.Context, collection string, id uuid.UUID) (*model.Document, error)
	Query(ctx context.Context, collection string, constraints ...Constraint) ([]*model.Document, error)
	// Create inserts with a store-assigned id and stamps created_at/updated_at.
	Create(ctx context.Context, collection string, data map[string]any) (uuid.UUID, error)
	// Set merge-upserts under an explicit id and stamps updated_at.
	Set(ctx context.Context, collection string, id uuid.UUID, data map[string]any) error
	// Update merges into an existing document and stamps updated_at. A missing
	// document yields gorm.ErrRecordNotFound.
	Update(ctx context.Context, collection string, id uuid.UUID, data map[string]any) error
	// Delete removes the document. Deleting an absent id succeeds silently.
	Delete(ctx context.Context, collection string, id uuid.UUID) error
}

type documentStore struct{ db *gorm.DB }

func NewDocumentStore(db *gorm.DB) DocumentStore {
	return &documentStore{db: db}
}

func (s *documentStore) Get(ctx context.Context, collection string, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *documentStore) Query(ctx context.Context, collection string, constraints ...Constraint) ([]*model.Document, error) {
	q := s.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("collection = ?", collection)

	for _, c := range constraints {
		var err error
		q, err = c.apply(q)
		if err != nil {
			return nil, err
		}
	}

	var docs []*model.Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *documentStore) Create(ctx context.Context, collection string, data map[string]any) (uuid.UUID, error) {
	doc := &model.Document{
		Collection: collection,
		ID:         uuid.New(),
		Data:       data,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return uuid.Nil, err
	}
	return doc.ID, nil
}

func (s *documentStore) Set(ctx context.Context, collection string, id uuid.UUID, data map[string]any) error {
	doc := &model.Document{
		Collection: collection,
		ID:         id,
		Data:       data,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"data":       gorm.Expr("documents.data || excluded.data"),
				"updated_at": time.Now(),
			}),
		}).
		Create(doc).Error
}

func (s *documentStore) Update(ctx context.Context, collection string, id uuid.UUID, data map[string]any) error {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return err
	}
	tx := s.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", string(payload)),
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *documentStore) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&model.Document{}).Error
}
