package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PaperyIron/notesWebApp/auth"
	"github.com/PaperyIron/notesWebApp/domain"
)

// Postgres implements Store on a pgx connection pool. Multi-row
// mutations run inside a single transaction so a failure never leaves a
// partial write behind.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (p *Postgres) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
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

	var taken bool
	err = p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicate
	}

	user := &domain.User{Username: username, Email: email, PasswordHash: digest}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, email, digest).Scan(&user.ID)
	if err != nil {
		// Races on username and email land here via the unique
		// constraints rather than the pre-check.
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (p *Postgres) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user := &domain.User{}
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE username = $1`, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	return user, nil
}

func (p *Postgres) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, email FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Username, &user.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (p *Postgres) DeleteUser(ctx context.Context, id int64) error {
	// Folders, notes, tags and links go with the user via ON DELETE
	// CASCADE, all within the single statement's transaction.
	tag, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) ListFolders(ctx context.Context, ownerID int64) ([]domain.Folder, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, color, user_id, created_at
		 FROM folders WHERE user_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []domain.Folder{}
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Color, &f.UserID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (p *Postgres) CreateFolder(ctx context.Context, ownerID int64, name, color string) (*domain.Folder, error) {
	name, err := domain.ValidateFolderName(name)
	if err != nil {
		return nil, err
	}
	color, err = domain.ValidateFolderColor(color)
	if err != nil {
		return nil, err
	}

	folder := &domain.Folder{Name: name, Color: color, UserID: ownerID}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO folders (name, color, user_id) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		name, color, ownerID).Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert folder: %w", err)
	}
	return folder, nil
}

func (p *Postgres) GetFolder(ctx context.Context, ownerID, folderID int64) (*domain.Folder, error) {
	f := &domain.Folder{}
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, color, user_id, created_at
		 FROM folders WHERE id = $1 AND user_id = $2`, folderID, ownerID).
		Scan(&f.ID, &f.Name, &f.Color, &f.UserID, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return f, nil
}

func (p *Postgres) UpdateFolder(ctx context.Context, ownerID, folderID int64, patch domain.FolderPatch) (*domain.Folder, error) {
	if patch.Name != nil {
		name, err := domain.ValidateFolderName(*patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Color != nil {
		color, err := domain.ValidateFolderColor(*patch.Color)
		if err != nil {
			return nil, err
		}
		patch.Color = &color
	}

	f := &domain.Folder{}
	err := p.pool.QueryRow(ctx,
		`UPDATE folders SET name = COALESCE($3, name), color = COALESCE($4, color)
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, name, color, user_id, created_at`,
		folderID, ownerID, patch.Name, patch.Color).
		Scan(&f.ID, &f.Name, &f.Color, &f.UserID, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}
	return f, nil
}

func (p *Postgres) DeleteFolder(ctx context.Context, ownerID, folderID int64) error {
	// Notes in the folder and their tag links cascade.
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM folders WHERE id = $1 AND user_id = $2`, folderID, ownerID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const noteColumns = `n.id, n.title, n.content, n.folder_id, n.user_id, n.created_at, n.updated_at,
	COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}')`

const noteJoins = `FROM notes n
	LEFT JOIN note_tags nt ON nt.note_id = n.id
	LEFT JOIN tags t ON t.id = nt.tag_id`

func scanNotes(rows pgx.Rows) ([]domain.Note, error) {
	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.FolderID, &n.UserID,
			&n.CreatedAt, &n.UpdatedAt, &n.Tags)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (p *Postgres) ListNotes(ctx context.Context, ownerID int64, q domain.NoteListQuery) (*domain.NotePage, error) {
	where := `WHERE n.user_id = $1`
	args := []any{ownerID}
	if q.FolderID != 0 {
		args = append(args, q.FolderID)
		where += ` AND n.folder_id = $` + strconv.Itoa(len(args))
	}

	var total int
	err := p.pool.QueryRow(ctx, `SELECT count(*) FROM notes n `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`SELECT %s %s %s GROUP BY n.id ORDER BY n.updated_at DESC, n.id DESC LIMIT $%d OFFSET $%d`,
		noteColumns, noteJoins, where, len(args)-1, len(args))
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, err
	}
	return &domain.NotePage{
		Notes:      notes,
		Pagination: domain.NewPagination(q.Limit, q.Offset, total),
	}, nil
}

func (p *Postgres) getNoteTx(ctx context.Context, tx pgx.Tx, ownerID, noteID int64) (*domain.Note, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+noteColumns+` `+noteJoins+` WHERE n.id = $1 AND n.user_id = $2 GROUP BY n.id`,
		noteID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, domain.ErrNotFound
	}
	return &notes[0], nil
}

func (p *Postgres) CreateNote(ctx context.Context, ownerID int64, title, content string, folderID int64) (*domain.Note, error) {
	title, err := domain.ValidateNoteTitle(title)
	if err != nil {
		return nil, err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var folderOwned bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1 AND user_id = $2)`,
		folderID, ownerID).Scan(&folderOwned)
	if err != nil {
		return nil, fmt.Errorf("check folder: %w", err)
	}
	if !folderOwned {
		return nil, domain.ErrNotFound
	}

	note := &domain.Note{Title: title, Content: content, FolderID: folderID, UserID: ownerID, Tags: []string{}}
	err = tx.QueryRow(ctx,
		`INSERT INTO notes (title, content, folder_id, user_id) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		title, content, folderID, ownerID).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return note, nil
}

func (p *Postgres) GetNote(ctx context.Context, ownerID, noteID int64) (*domain.Note, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	note, err := p.getNoteTx(ctx, tx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	return note, tx.Commit(ctx)
}

func (p *Postgres) UpdateNote(ctx context.Context, ownerID, noteID int64, patch domain.NotePatch) (*domain.Note, error) {
	if patch.Title != nil {
		title, err := domain.ValidateNoteTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if patch.FolderID != nil {
		var folderOwned bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1 AND user_id = $2)`,
			*patch.FolderID, ownerID).Scan(&folderOwned)
		if err != nil {
			return nil, fmt.Errorf("check folder: %w", err)
		}
		if !folderOwned {
			return nil, domain.ErrNotFound
		}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE notes SET
			title = COALESCE($3, title),
			content = COALESCE($4, content),
			folder_id = COALESCE($5, folder_id),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2`,
		noteID, ownerID, patch.Title, patch.Content, patch.FolderID)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	note, err := p.getNoteTx(ctx, tx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return note, nil
}

func (p *Postgres) DeleteNote(ctx context.Context, ownerID, noteID int64) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) SearchNotes(ctx context.Context, ownerID int64, q domain.NoteSearchQuery) ([]domain.Note, error) {
	where := []string{`n.user_id = $1`}
	args := []any{ownerID}

	if text := strings.TrimSpace(q.Text); text != "" {
		args = append(args, "%"+text+"%")
		n := strconv.Itoa(len(args))
		where = append(where, `(n.title ILIKE $`+n+` OR n.content ILIKE $`+n+`)`)
	}
	if q.FolderID != 0 {
		args = append(args, q.FolderID)
		where = append(where, `n.folder_id = $`+strconv.Itoa(len(args)))
	}
	if q.TagID != 0 {
		args = append(args, q.TagID)
		where = append(where, `EXISTS (SELECT 1 FROM note_tags x WHERE x.note_id = n.id AND x.tag_id = $`+strconv.Itoa(len(args))+`)`)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s GROUP BY n.id ORDER BY n.updated_at DESC, n.id DESC`,
		noteColumns, noteJoins, strings.Join(where, " AND "))
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (p *Postgres) ListTags(ctx context.Context, ownerID int64) ([]domain.Tag, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, user_id FROM tags WHERE user_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (p *Postgres) CreateTag(ctx context.Context, ownerID int64, name string) (*domain.Tag, error) {
	name, err := domain.ValidateTagName(name)
	if err != nil {
		return nil, err
	}

	t := &domain.Tag{Name: name, UserID: ownerID}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO tags (name, user_id) VALUES ($1, $2) RETURNING id`,
		name, ownerID).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	return t, nil
}

func (p *Postgres) DeleteTag(ctx context.Context, ownerID, tagID int64) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM tags WHERE id = $1 AND user_id = $2`, tagID, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) AttachTag(ctx context.Context, ownerID, noteID, tagID int64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var noteOwned, tagOwned bool
	err = tx.QueryRow(ctx,
		`SELECT
			EXISTS (SELECT 1 FROM notes WHERE id = $1 AND user_id = $3),
			EXISTS (SELECT 1 FROM tags WHERE id = $2 AND user_id = $3)`,
		noteID, tagID, ownerID).Scan(&noteOwned, &tagOwned)
	if err != nil {
		return fmt.Errorf("check endpoints: %w", err)
	}
	if !noteOwned || !tagOwned {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)`, noteID, tagID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("attach tag: %w", err)
	}
	return tx.Commit(ctx)
}

func (p *Postgres) DetachTag(ctx context.Context, ownerID, noteID, tagID int64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var noteOwned bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1 AND user_id = $2)`,
		noteID, ownerID).Scan(&noteOwned)
	if err != nil {
		return fmt.Errorf("check note: %w", err)
	}
	if !noteOwned {
		return domain.ErrNotFound
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM note_tags WHERE note_id = $1 AND tag_id = $2`, noteID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}
