package notes_box

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ notesRepo = (*MemoryRepo)(nil)

// MemoryRepo keeps notes in process memory; used for local runs and tests
type MemoryRepo struct {
	mutex  sync.RWMutex
	notes  map[int]Note
	nextID int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		notes:  make(map[int]Note),
		nextID: 1,
	}
}

func (r *MemoryRepo) Add(_ context.Context, note *Note) (*Note, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	note.ID = r.nextID
	r.nextID++
	r.notes[note.ID] = *note

	return note, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int) (*Note, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &note, nil
}

func (r *MemoryRepo) List(_ context.Context) ([]Note, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.sorted(func(Note) bool { return true }), nil
}

func (r *MemoryRepo) Update(_ context.Context, note *Note) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.notes[note.ID]
	if !ok {
		return ErrNoteNotFound
	}

	stored.Title = note.Title
	stored.Content = note.Content
	stored.UpdatedAt = note.UpdatedAt
	r.notes[note.ID] = stored

	return nil
}

func (r *MemoryRepo) Patch(_ context.Context, id int, patch NotePatch, updatedAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.notes[id]
	if !ok {
		return ErrNoteNotFound
	}

	if patch.Title != nil {
		stored.Title = *patch.Title
	}
	if patch.Content != nil {
		stored.Content = *patch.Content
	}
	stored.UpdatedAt = updatedAt
	r.notes[id] = stored

	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.notes[id]; !ok {
		return ErrNoteNotFound
	}
	delete(r.notes, id)

	return nil
}

func (r *MemoryRepo) Search(_ context.Context, query string) ([]Note, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.sorted(func(n Note) bool {
		return strings.Contains(n.Title, query) || strings.Contains(n.Content, query)
	}), nil
}

// sorted must be called with the mutex held
func (r *MemoryRepo) sorted(keep func(Note) bool) []Note {
	notes := make([]Note, 0, len(r.notes))
	for _, n := range r.notes {
		if keep(n) {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID < notes[j].ID
	})
	return notes
}
