package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PaperyIron/notesWebApp/auth"
	"github.com/PaperyIron/notesWebApp/domain"
)

// Memory is an in-process Store with the same semantics as Postgres.
// It backs the test suite and the seed tool's dry-run mode.
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*domain.User
	folders map[int64]*domain.Folder
	notes   map[int64]*domain.Note
	tags    map[int64]*domain.Tag
	links   map[[2]int64]bool // [noteID, tagID]
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[int64]*domain.User),
		folders: make(map[int64]*domain.Folder),
		notes:   make(map[int64]*domain.Note),
		tags:    make(map[int64]*domain.Tag),
		links:   make(map[[2]int64]bool),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) CreateUser(_ context.Context, username, email, password string) (*domain.User, error) {
	username, err := domain.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	email, err = domain.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return nil, domain.ErrDuplicate
		}
	}
	user := &domain.User{ID: m.id(), Username: username, Email: email, PasswordHash: digest}
	m.users[user.ID] = user
	out := *user
	return &out, nil
}

func (m *Memory) AuthenticateUser(_ context.Context, username, password string) (*domain.User, error) {
	m.mu.RLock()
	var found *domain.User
	for _, u := range m.users {
		if u.Username == username {
			found = u
			break
		}
	}
	m.mu.RUnlock()

	if found == nil || !auth.CheckPassword(password, found.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	out := *found
	return &out, nil
}

func (m *Memory) UserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	out.PasswordHash = ""
	return &out, nil
}

func (m *Memory) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	for fid, f := range m.folders {
		if f.UserID == id {
			delete(m.folders, fid)
		}
	}
	for nid, n := range m.notes {
		if n.UserID == id {
			m.deleteNoteLocked(nid)
		}
	}
	for tid, t := range m.tags {
		if t.UserID == id {
			m.deleteTagLocked(tid)
		}
	}
	return nil
}

func (m *Memory) deleteNoteLocked(noteID int64) {
	delete(m.notes, noteID)
	for key := range m.links {
		if key[0] == noteID {
			delete(m.links, key)
		}
	}
}

func (m *Memory) deleteTagLocked(tagID int64) {
	delete(m.tags, tagID)
	for key := range m.links {
		if key[1] == tagID {
			delete(m.links, key)
		}
	}
}

func (m *Memory) ListFolders(_ context.Context, ownerID int64) ([]domain.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	folders := []domain.Folder{}
	for _, f := range m.folders {
		if f.UserID == ownerID {
			folders = append(folders, *f)
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].CreatedAt.Equal(folders[j].CreatedAt) {
			return folders[i].ID < folders[j].ID
		}
		return folders[i].CreatedAt.Before(folders[j].CreatedAt)
	})
	return folders, nil
}

func (m *Memory) CreateFolder(_ context.Context, ownerID int64, name, color string) (*domain.Folder, error) {
	name, err := domain.ValidateFolderName(name)
	if err != nil {
		return nil, err
	}
	color, err = domain.ValidateFolderColor(color)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	folder := &domain.Folder{
		ID:        m.id(),
		Name:      name,
		Color:     color,
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
	}
	m.folders[folder.ID] = folder
	out := *folder
	return &out, nil
}

func (m *Memory) GetFolder(_ context.Context, ownerID, folderID int64) (*domain.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.folders[folderID]
	if !ok || f.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	out := *f
	return &out, nil
}

func (m *Memory) UpdateFolder(_ context.Context, ownerID, folderID int64, patch domain.FolderPatch) (*domain.Folder, error) {
	var name, color string
	var err error
	if patch.Name != nil {
		if name, err = domain.ValidateFolderName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Color != nil {
		if color, err = domain.ValidateFolderColor(*patch.Color); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[folderID]
	if !ok || f.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		f.Name = name
	}
	if patch.Color != nil {
		f.Color = color
	}
	out := *f
	return &out, nil
}

func (m *Memory) DeleteFolder(_ context.Context, ownerID, folderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[folderID]
	if !ok || f.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.folders, folderID)
	for nid, n := range m.notes {
		if n.FolderID == folderID {
			m.deleteNoteLocked(nid)
		}
	}
	return nil
}

// tagNamesLocked collects the sorted tag names attached to a note.
func (m *Memory) tagNamesLocked(noteID int64) []string {
	names := []string{}
	for key := range m.links {
		if key[0] == noteID {
			if t, ok := m.tags[key[1]]; ok {
				names = append(names, t.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (m *Memory) noteOutLocked(n *domain.Note) domain.Note {
	out := *n
	out.Tags = m.tagNamesLocked(n.ID)
	return out
}

func sortNotesByUpdated(notes []domain.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

func (m *Memory) ListNotes(_ context.Context, ownerID int64, q domain.NoteListQuery) (*domain.NotePage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []domain.Note{}
	for _, n := range m.notes {
		if n.UserID != ownerID {
			continue
		}
		if q.FolderID != 0 && n.FolderID != q.FolderID {
			continue
		}
		matched = append(matched, m.noteOutLocked(n))
	}
	sortNotesByUpdated(matched)

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return &domain.NotePage{
		Notes:      matched[start:end],
		Pagination: domain.NewPagination(q.Limit, q.Offset, total),
	}, nil
}

func (m *Memory) CreateNote(_ context.Context, ownerID int64, title, content string, folderID int64) (*domain.Note, error) {
	title, err := domain.ValidateNoteTitle(title)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[folderID]
	if !ok || f.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	note := &domain.Note{
		ID:        m.id(),
		Title:     title,
		Content:   content,
		FolderID:  folderID,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.notes[note.ID] = note
	out := m.noteOutLocked(note)
	return &out, nil
}

func (m *Memory) GetNote(_ context.Context, ownerID, noteID int64) (*domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[noteID]
	if !ok || n.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	out := m.noteOutLocked(n)
	return &out, nil
}

func (m *Memory) UpdateNote(_ context.Context, ownerID, noteID int64, patch domain.NotePatch) (*domain.Note, error) {
	var title string
	var err error
	if patch.Title != nil {
		if title, err = domain.ValidateNoteTitle(*patch.Title); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	if patch.FolderID != nil {
		f, ok := m.folders[*patch.FolderID]
		if !ok || f.UserID != ownerID {
			return nil, domain.ErrNotFound
		}
	}
	if patch.Title != nil {
		n.Title = title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.FolderID != nil {
		n.FolderID = *patch.FolderID
	}
	n.UpdatedAt = time.Now().UTC()
	out := m.noteOutLocked(n)
	return &out, nil
}

func (m *Memory) DeleteNote(_ context.Context, ownerID, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.UserID != ownerID {
		return domain.ErrNotFound
	}
	m.deleteNoteLocked(noteID)
	return nil
}

func (m *Memory) SearchNotes(_ context.Context, ownerID int64, q domain.NoteSearchQuery) ([]domain.Note, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []domain.Note{}
	for _, n := range m.notes {
		if n.UserID != ownerID {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(n.Title), text) &&
			!strings.Contains(strings.ToLower(n.Content), text) {
			continue
		}
		if q.FolderID != 0 && n.FolderID != q.FolderID {
			continue
		}
		if q.TagID != 0 && !m.links[[2]int64{n.ID, q.TagID}] {
			continue
		}
		matched = append(matched, m.noteOutLocked(n))
	}
	sortNotesByUpdated(matched)
	return matched, nil
}

func (m *Memory) ListTags(_ context.Context, ownerID int64) ([]domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tags := []domain.Tag{}
	for _, t := range m.tags {
		if t.UserID == ownerID {
			tags = append(tags, *t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (m *Memory) CreateTag(_ context.Context, ownerID int64, name string) (*domain.Tag, error) {
	name, err := domain.ValidateTagName(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.UserID == ownerID && t.Name == name {
			return nil, domain.ErrDuplicate
		}
	}
	tag := &domain.Tag{ID: m.id(), Name: name, UserID: ownerID}
	m.tags[tag.ID] = tag
	out := *tag
	return &out, nil
}

func (m *Memory) DeleteTag(_ context.Context, ownerID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[tagID]
	if !ok || t.UserID != ownerID {
		return domain.ErrNotFound
	}
	m.deleteTagLocked(tagID)
	return nil
}

func (m *Memory) AttachTag(_ context.Context, ownerID, noteID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.UserID != ownerID {
		return domain.ErrNotFound
	}
	t, ok := m.tags[tagID]
	if !ok || t.UserID != ownerID {
		return domain.ErrNotFound
	}
	key := [2]int64{noteID, tagID}
	if m.links[key] {
		return domain.ErrDuplicate
	}
	m.links[key] = true
	return nil
}

func (m *Memory) DetachTag(_ context.Context, ownerID, noteID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.UserID != ownerID {
		return domain.ErrNotFound
	}
	key := [2]int64{noteID, tagID}
	if !m.links[key] {
		return domain.ErrNotFound
	}
	delete(m.links, key)
	return nil
}
