// Command seed fills the database with demo users, folders, notes and
// tags. Existing demo users keep the tool from running twice cleanly,
// so it is meant for fresh databases only.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/PaperyIron/notesWebApp/config"
	"github.com/PaperyIron/notesWebApp/domain"
	"github.com/PaperyIron/notesWebApp/store"
)

const password = "password123"

var (
	usernames = []string{"alice_wonder", "bob_builder", "charlie_brown", "diana_prince", "evan_smith"}

	folderNames = []string{
		"Work", "Personal", "Projects", "Ideas", "Meeting Notes",
		"Research", "To-Do", "Study", "Travel", "Goals",
	}
	colors = []string{
		"#EF4444", "#F59E0B", "#10B981", "#3B82F6", "#8B5CF6",
		"#EC4899", "#6B7280", "#14B8A6", "#F97316", "#84CC16",
	}
	tagNames = []string{
		"important", "urgent", "review", "draft", "completed",
		"idea", "meeting", "todo", "reference", "archive",
	}
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := store.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := seed(ctx, store.NewPostgres(pool), log); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Msg("seed complete")
}

func seed(ctx context.Context, st store.Store, log zerolog.Logger) error {
	for _, username := range usernames {
		user, err := st.CreateUser(ctx, username, username+"@example.com", password)
		if err != nil {
			return fmt.Errorf("create user %s: %w", username, err)
		}

		var folders []*domain.Folder
		for _, name := range pick(folderNames, 2+rand.Intn(2)) {
			folder, err := st.CreateFolder(ctx, user.ID, name, colors[rand.Intn(len(colors))])
			if err != nil {
				return fmt.Errorf("create folder: %w", err)
			}
			folders = append(folders, folder)
		}

		var tags []*domain.Tag
		for _, name := range pick(tagNames, 3+rand.Intn(3)) {
			tag, err := st.CreateTag(ctx, user.ID, name)
			if err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
			tags = append(tags, tag)
		}

		noteCount := 0
		for _, folder := range folders {
			for i := 0; i < 2+rand.Intn(4); i++ {
				title := fmt.Sprintf("%s note %d", folder.Name, i+1)
				content := fmt.Sprintf("Notes about %s, entry %d.", folder.Name, i+1)
				note, err := st.CreateNote(ctx, user.ID, title, content, folder.ID)
				if err != nil {
					return fmt.Errorf("create note: %w", err)
				}
				noteCount++
				for _, tag := range pickTags(tags, rand.Intn(3)) {
					if err := st.AttachTag(ctx, user.ID, note.ID, tag.ID); err != nil {
						return fmt.Errorf("attach tag: %w", err)
					}
				}
			}
		}
		log.Info().Str("username", username).
			Int("folders", len(folders)).
			Int("tags", len(tags)).
			Int("notes", noteCount).
			Msg("seeded user")
	}
	return nil
}

func pick(from []string, n int) []string {
	out := append([]string(nil), from...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}

func pickTags(from []*domain.Tag, n int) []*domain.Tag {
	out := append([]*domain.Tag(nil), from...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
