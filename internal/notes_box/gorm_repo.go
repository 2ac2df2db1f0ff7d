package notes_box

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var _ notesRepo = (*GormRepo)(nil)

type noteRecord struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (noteRecord) TableName() string {
	return "note"
}

func (r noteRecord) toNote() Note {
	return Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// GormRepo stores notes through gorm, used with the sqlite and mysql dialects
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{
		db: db,
	}
}

// Migrate creates the note table if it does not exist
func (r *GormRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&noteRecord{}); err != nil {
		return fmt.Errorf("auto migrate note table: %w", err)
	}
	return nil
}

func (r *GormRepo) Add(ctx context.Context, note *Note) (*Note, error) {
	record := noteRecord{
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	note.ID = record.ID
	return note, nil
}

func (r *GormRepo) Get(ctx context.Context, id int) (*Note, error) {
	var record noteRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	note := record.toNote()
	return &note, nil
}

func (r *GormRepo) List(ctx context.Context) ([]Note, error) {
	var records []noteRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records2notes(records), nil
}

func (r *GormRepo) Update(ctx context.Context, note *Note) error {
	return r.updateColumns(ctx, note.ID, map[string]any{
		"title":      note.Title,
		"content":    note.Content,
		"updated_at": note.UpdatedAt,
	})
}

func (r *GormRepo) Patch(ctx context.Context, id int, patch NotePatch, updatedAt time.Time) error {
	columns := map[string]any{
		"updated_at": updatedAt,
	}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Content != nil {
		columns["content"] = *patch.Content
	}
	return r.updateColumns(ctx, id, columns)
}

// updateColumns runs a single UPDATE; a map is used so empty strings are written too
func (r *GormRepo) updateColumns(ctx context.Context, id int, columns map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&noteRecord{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&noteRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *GormRepo) Search(ctx context.Context, query string) ([]Note, error) {
	var where string
	switch r.db.Dialector.Name() {
	case "mysql":
		where = "LOCATE(?, title COLLATE utf8mb4_bin) > 0 OR LOCATE(?, content COLLATE utf8mb4_bin) > 0"
	default:
		where = "instr(title, ?) > 0 OR instr(content, ?) > 0"
	}

	var records []noteRecord
	if err := r.db.WithContext(ctx).
		Where(where, query, query).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records2notes(records), nil
}

func records2notes(records []noteRecord) []Note {
	notes := make([]Note, 0, len(records))
	for _, record := range records {
		notes = append(notes, record.toNote())
	}
	return notes
}
