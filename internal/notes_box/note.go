package notes_box

import "time"

type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotePatch holds the fields of a partial update; nil fields are left unchanged
type NotePatch struct {
	Title   *string
	Content *string
}

func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

type NotesListResponse struct {
	Notes []Note `json:"notes"`
}

type SearchResponse struct {
	Results []Note `json:"results"`
}

type NewNoteResponse struct {
	ID int `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
