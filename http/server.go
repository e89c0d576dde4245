// Package http exposes the REST API. Handlers resolve the session,
// delegate to the store with the session's user id as the owner scope
// and map domain errors onto status codes. A client-supplied owner id
// is never trusted.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/PaperyIron/notesWebApp/auth"
	"github.com/PaperyIron/notesWebApp/domain"
	"github.com/PaperyIron/notesWebApp/store"
)

type Server struct {
	app      *fiber.App
	store    store.Store
	sessions *auth.Sessions
	log      zerolog.Logger
}

func NewServer(st store.Store, sessions *auth.Sessions, log zerolog.Logger) *Server {
	s := &Server{
		app:      fiber.New(),
		store:    st,
		sessions: sessions,
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowCredentials: true,
	}))

	s.app.Post("/signup", s.handleSignup)
	s.app.Post("/login", s.handleLogin)
	s.app.Get("/check_session", s.handleCheckSession)
	s.app.Delete("/logout", s.handleLogout)

	api := s.app.Group("/api", s.requireSession)

	api.Get("/folders", s.handleListFolders)
	api.Post("/folders", s.handleCreateFolder)
	api.Get("/folders/:id", s.handleGetFolder)
	api.Put("/folders/:id", s.handleUpdateFolder)
	api.Delete("/folders/:id", s.handleDeleteFolder)

	// Registered before /notes/:id so "search" is not read as an id.
	api.Get("/notes/search", s.handleSearchNotes)
	api.Get("/notes", s.handleListNotes)
	api.Post("/notes", s.handleCreateNote)
	api.Get("/notes/:id", s.handleGetNote)
	api.Put("/notes/:id", s.handleUpdateNote)
	api.Delete("/notes/:id", s.handleDeleteNote)
	api.Post("/notes/:id/tags", s.handleAttachTag)
	api.Delete("/notes/:id/tags/:tagId", s.handleDetachTag)

	api.Get("/tags", s.handleListTags)
	api.Post("/tags", s.handleCreateTag)
	api.Delete("/tags/:id", s.handleDeleteTag)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requireSession resolves the session cookie and stashes the user id in
// locals. Anonymous requests never reach a domain handler.
func (s *Server) requireSession(c *fiber.Ctx) error {
	token := c.Cookies(auth.CookieName)
	if token == "" {
		return errJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, ok := s.sessions.Resolve(token)
	if !ok {
		return errJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	c.Locals("userID", userID)
	return c.Next()
}

func userID(c *fiber.Ctx) int64 {
	return c.Locals("userID").(int64)
}

func errJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps a store error onto a response. notFoundMsg names the entity
// so ownership failures read the same as absence.
func (s *Server) fail(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case domain.IsValidation(err):
		return errJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errJSON(c, fiber.StatusNotFound, notFoundMsg)
	default:
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return errJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   -1,
	})
}
