// Package store persists users, folders, notes, tags and their links.
// Every operation below the user ones takes the owner id resolved from
// the session and scopes all reads and writes to it; a row owned by
// someone else behaves exactly like a missing row.
package store

import (
	"context"

	"github.com/PaperyIron/notesWebApp/domain"
)

type Store interface {
	// CreateUser validates, hashes the password and inserts. A taken
	// username or email yields domain.ErrDuplicate.
	CreateUser(ctx context.Context, username, email, password string) (*domain.User, error)
	// AuthenticateUser returns the user when username and password
	// match, domain.ErrBadCredentials otherwise.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	// DeleteUser removes the user and cascades over all folders,
	// notes, tags and note/tag links they own.
	DeleteUser(ctx context.Context, id int64) error

	ListFolders(ctx context.Context, ownerID int64) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, ownerID int64, name, color string) (*domain.Folder, error)
	GetFolder(ctx context.Context, ownerID, folderID int64) (*domain.Folder, error)
	UpdateFolder(ctx context.Context, ownerID, folderID int64, patch domain.FolderPatch) (*domain.Folder, error)
	// DeleteFolder removes the folder together with its notes and
	// their tag links.
	DeleteFolder(ctx context.Context, ownerID, folderID int64) error

	ListNotes(ctx context.Context, ownerID int64, q domain.NoteListQuery) (*domain.NotePage, error)
	CreateNote(ctx context.Context, ownerID int64, title, content string, folderID int64) (*domain.Note, error)
	GetNote(ctx context.Context, ownerID, noteID int64) (*domain.Note, error)
	UpdateNote(ctx context.Context, ownerID, noteID int64, patch domain.NotePatch) (*domain.Note, error)
	DeleteNote(ctx context.Context, ownerID, noteID int64) error
	SearchNotes(ctx context.Context, ownerID int64, q domain.NoteSearchQuery) ([]domain.Note, error)

	ListTags(ctx context.Context, ownerID int64) ([]domain.Tag, error)
	CreateTag(ctx context.Context, ownerID int64, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, ownerID, tagID int64) error

	AttachTag(ctx context.Context, ownerID, noteID, tagID int64) error
	DetachTag(ctx context.Context, ownerID, noteID, tagID int64) error
}
