package service

import (
	"context"
	"strings"
	"time"

	"github.com/curiomuse/artefact-catalog/internal/infra/cache"
	mq "github.com/curiomuse/artefact-catalog/internal/infra/queue"
	"github.com/curiomuse/artefact-catalog/internal/modules/model"
	"github.com/curiomuse/artefact-catalog/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const artefactCollection = "artefacts"

// ArtefactFilters selects artefacts by whichever criteria are present. An
// omitted filter applies no predicate at all.
type ArtefactFilters struct {
	Status   *model.ArtefactStatus
	IsPublic *bool
	Category *string
	Limit    int
}

type ArtefactService interface {
	// Create stamps createdAt/updatedAt, applies the status default, inserts
	// and returns the store-assigned id.
	Create(ctx context.Context, in *model.Artefact) (uuid.UUID, error)
	// Get returns (nil, nil) when the artefact does not exist.
	Get(ctx context.Context, id uuid.UUID) (*model.Artefact, error)
	GetAll(ctx context.Context) ([]*model.Artefact, error)
	GetFiltered(ctx context.Context, f ArtefactFilters) ([]*model.Artefact, error)
	// Update merges the partial payload and refreshes updatedAt. A missing
	// artefact surfaces the store's not-found error unwrapped.
	Update(ctx context.Context, id uuid.UUID, partial map[string]any) error
	// Delete removes the record only; referenced stored assets are kept.
	Delete(ctx context.Context, id uuid.UUID) error
	// Search scans the whole collection and matches term case-insensitively
	// against title or description.
	Search(ctx context.Context, term string) ([]*model.Artefact, error)
}

type artefactService struct {
	docs   repo.DocumentStore
	cache  *cache.Redis // optional
	events *mq.Publisher // optional
	log    *zap.Logger
	now    func() time.Time
}

func NewArtefactService(docs repo.DocumentStore, c *cache.Redis, events *mq.Publisher, log *zap.Logger) ArtefactService {
	return &artefactService{
		docs:   docs,
		cache:  c,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *artefactService) Create(ctx context.Context, in *model.Artefact) (uuid.UUID, error) {
	now := s.now().UTC().Format(time.RFC3339)
	in.CreatedAt = now
	in.UpdatedAt = now
	if in.Status == "" {
		in.Status = model.StatusDraft
	}

	data, err := in.DocumentData()
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.docs.Create(ctx, artefactCollection, data)
	if err != nil {
		return uuid.Nil, err
	}

	s.publish(ctx, "created", id)
	return id, nil
}

func (s *artefactService) Get(ctx context.Context, id uuid.UUID) (*model.Artefact, error) {
	var cached model.Artefact
	if hit, err := s.cache.GetJSON(ctx, cacheKey(id), &cached); err != nil {
		s.log.Warn("artefact cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	doc, err := s.docs.Get(ctx, artefactCollection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	artefact, err := model.ArtefactFromDocument(doc.ID, doc.Data)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey(id), artefact); err != nil {
		s.log.Warn("artefact cache write failed", zap.Error(err))
	}
	return artefact, nil
}

func (s *artefactService) GetAll(ctx context.Context) ([]*model.Artefact, error) {
	docs, err := s.docs.Query(ctx, artefactCollection)
	if err != nil {
		return nil, err
	}
	return fromDocuments(docs)
}

func (s *artefactService) GetFiltered(ctx context.Context, f ArtefactFilters) ([]*model.Artefact, error) {
	var constraints []repo.Constraint
	if f.Status != nil {
		constraints = append(constraints, repo.Where("status", "==", string(*f.Status)))
	}
	if f.IsPublic != nil {
		constraints = append(constraints, repo.Where("isPublic", "==", *f.IsPublic))
	}
	if f.Category != nil {
		constraints = append(constraints, repo.Where("category", "==", *f.Category))
	}
	if f.Limit > 0 {
		constraints = append(constraints, repo.Limit(f.Limit))
	}

	docs, err := s.docs.Query(ctx, artefactCollection, constraints...)
	if err != nil {
		return nil, err
	}
	return fromDocuments(docs)
}

func (s *artefactService) Update(ctx context.Context, id uuid.UUID, partial map[string]any) error {
	// id and createdAt are immutable; updatedAt is always service-stamped.
	delete(partial, "id")
	delete(partial, "createdAt")
	partial["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	if err := s.docs.Update(ctx, artefactCollection, id, partial); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, "updated", id)
	return nil
}

func (s *artefactService) Delete(ctx context.Context, id uuid.UUID) error {
	// No existence pre-check: deleting an absent id succeeds silently with the
	// Postgres backend. Stored assets referenced by the record are not removed.
	if err := s.docs.Delete(ctx, artefactCollection, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, "deleted", id)
	return nil
}

func (s *artefactService) Search(ctx context.Context, term string) ([]*model.Artefact, error) {
	docs, err := s.docs.Query(ctx, artefactCollection)
	if err != nil {
		return nil, err
	}
	artefacts, err := fromDocuments(docs)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matches := make([]*model.Artefact, 0, len(artefacts))
	for _, a := range artefacts {
		title := strings.ToLower(a.Title)
		description := strings.ToLower(a.Description)
		if strings.Contains(title, needle) || strings.Contains(description, needle) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

func (s *artefactService) publish(ctx context.Context, action string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishArtefact(ctx, action, id.String()); err != nil {
		s.log.Warn("artefact event publish failed",
			zap.String("action", action), zap.String("artefact_id", id.String()), zap.Error(err))
	}
}

func (s *artefactService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Del(ctx, cacheKey(id)); err != nil {
		s.log.Warn("artefact cache invalidation failed", zap.Error(err))
	}
}

func cacheKey(id uuid.UUID) string {
	return "artefact:" + id.String()
}

func fromDocuments(docs []*model.Document) ([]*model.Artefact, error) {
	artefacts := make([]*model.Artefact, 0, len(docs))
	for _, doc := range docs {
		a, err := model.ArtefactFromDocument(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		artefacts = append(artefacts, a)
	}
	return artefacts, nil
}
