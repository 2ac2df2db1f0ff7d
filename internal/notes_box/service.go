package notes_box

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/notesbox/internal/telemetry/metrics"
	"github.com/2beens/notesbox/internal/telemetry/tracing"
)

type notesRepo interface {
	Add(ctx context.Context, note *Note) (*Note, error)
	Get(ctx context.Context, id int) (*Note, error)
	List(ctx context.Context) ([]Note, error)
	Update(ctx context.Context, note *Note) error
	Patch(ctx context.Context, id int, patch NotePatch, updatedAt time.Time) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, query string) ([]Note, error)
}

type Service struct {
	repo    notesRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewService(repo notesRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsManager,
		now:     defaultNow,
	}
}

// microsecond precision is what postgres and mysql keep
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) List(ctx context.Context) (_ []Note, err error) {
	ctx, span := tracing.Start(ctx, "service.notes.list")
	defer func() { tracing.EndSpan(span, err) }()

	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []Note{}
	}

	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	return notes, nil
}

func (s *Service) Get(ctx context.Context, id int) (_ *Note, err error) {
	ctx, span := tracing.Start(ctx, "service.notes.get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("note.id", id))

	note, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note %d: %w", id, err)
	}
	return note, nil
}

func (s *Service) Add(ctx context.Context, title, content string) (_ *Note, err error) {
	ctx, span := tracing.Start(ctx, "service.notes.add")
	defer func() { tracing.EndSpan(span, err) }()

	now := s.now()
	added, err := s.repo.Add(ctx, &Note{
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}

	s.metrics.CounterNotesAdded.Inc()
	span.SetAttributes(attribute.Int("note.id", added.ID))

	return added, nil
}

func (s *Service) Update(ctx context.Context, id int, title, content string) (err error) {
	ctx, span := tracing.Start(ctx, "service.notes.update")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("note.id", id))

	if err := s.repo.Update(ctx, &Note{
		ID:        id,
		Title:     title,
		Content:   content,
		UpdatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("update note %d: %w", id, err)
	}

	s.metrics.CounterNotesUpdated.WithLabelValues("full").Inc()
	return nil
}

// Patch applies the non-nil fields of the patch. updated_at is advanced
// even when the patch is empty.
func (s *Service) Patch(ctx context.Context, id int, patch NotePatch) (err error) {
	ctx, span := tracing.Start(ctx, "service.notes.patch")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.Int("note.id", id),
		attribute.Bool("patch.title", patch.Title != nil),
		attribute.Bool("patch.content", patch.Content != nil),
	)

	if err := s.repo.Patch(ctx, id, patch, s.now()); err != nil {
		return fmt.Errorf("patch note %d: %w", id, err)
	}

	s.metrics.CounterNotesUpdated.WithLabelValues("partial").Inc()
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.Start(ctx, "service.notes.delete")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("note.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}

	s.metrics.CounterNotesDeleted.Inc()
	return nil
}

// Search returns notes whose title or content contains the query.
// Matching is case-sensitive and the query is taken literally.
func (s *Service) Search(ctx context.Context, query string) (_ []Note, err error) {
	ctx, span := tracing.Start(ctx, "service.notes.search")
	defer func() { tracing.EndSpan(span, err) }()

	if query == "" {
		return nil, ErrEmptySearchQuery
	}

	s.metrics.CounterSearches.Inc()

	results, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	if results == nil {
		results = []Note{}
	}

	span.SetAttributes(attribute.Int("notes.count", len(results)))
	return results, nil
}
