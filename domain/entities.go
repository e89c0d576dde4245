package domain

import "time"

// User is the owning principal for every other entity. PasswordHash is
// never serialized; the email stays server-side as well.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"-"`
	PasswordHash string `json:"-"`
}

type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FolderID  int64     `json:"folder_id"`
	UserID    int64     `json:"user_id"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tag struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"user_id"`
}

// FolderPatch carries the partial-update fields of a folder; nil means
// leave the field untouched.
type FolderPatch struct {
	Name  *string
	Color *string
}

// NotePatch carries the partial-update fields of a note. A present
// FolderID is re-validated against the owner before being applied.
type NotePatch struct {
	Title    *string
	Content  *string
	FolderID *int64
}

// NoteListQuery bounds a notes listing. FolderID of zero means no folder
// filter.
type NoteListQuery struct {
	FolderID int64
	Limit    int
	Offset   int
}

// NoteSearchQuery filters a search; zero values disable each filter.
type NoteSearchQuery struct {
	Text     string
	FolderID int64
	TagID    int64
}

// Pagination describes a page of an ordered result set. NextOffset is
// nil once the page reaches the end.
type Pagination struct {
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	Total      int    `json:"total"`
	HasMore    bool   `json:"has_more"`
	NextOffset *int   `json:"next_offset"`
}

type NotePage struct {
	Notes      []Note     `json:"notes"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes the envelope for a page of total rows.
func NewPagination(limit, offset, total int) Pagination {
	p := Pagination{Limit: limit, Offset: offset, Total: total}
	if offset+limit < total {
		p.HasMore = true
		next := offset + limit
		p.NextOffset = &next
	}
	return p
}
