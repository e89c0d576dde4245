package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PaperyIron/notesWebApp/domain"
)

func (s *Server) handleListNotes(c *fiber.Ctx) error {
	q := domain.NoteListQuery{
		Limit:    c.QueryInt("limit", 20),
		Offset:   c.QueryInt("offset", 0),
		FolderID: int64(c.QueryInt("folder_id", 0)),
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	page, err := s.store.ListNotes(c.Context(), userID(c), q)
	if err != nil {
		return s.fail(c, err, "Note not found")
	}
	return c.JSON(page)
}

func (s *Server) handleCreateNote(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		FolderID int64  `json:"folder_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}
	if req.Title == "" {
		return errJSON(c, fiber.StatusBadRequest, "Title is required")
	}
	if req.FolderID == 0 {
		return errJSON(c, fiber.StatusBadRequest, "Folder id is required")
	}

	note, err := s.store.CreateNote(c.Context(), userID(c), req.Title, req.Content, req.FolderID)
	if err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (s *Server) handleGetNote(c *fiber.Ctx) error {
	noteID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Note not found")
	}

	note, err := s.store.GetNote(c.Context(), userID(c), int64(noteID))
	if err != nil {
		return s.fail(c, err, "Note not found")
	}
	return c.JSON(note)
}

func (s *Server) handleUpdateNote(c *fiber.Ctx) error {
	noteID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Note not found")
	}
	owner := userID(c)

	// Resolved first so a missing note and a missing target folder
	// report distinctly.
	if _, err := s.store.GetNote(c.Context(), owner, int64(noteID)); err != nil {
		return s.fail(c, err, "Note not found")
	}

	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		FolderID *int64  `json:"folder_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}

	note, err := s.store.UpdateNote(c.Context(), owner, int64(noteID),
		domain.NotePatch{Title: req.Title, Content: req.Content, FolderID: req.FolderID})
	if err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.JSON(note)
}

func (s *Server) handleDeleteNote(c *fiber.Ctx) error {
	noteID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Note not found")
	}

	if err := s.store.DeleteNote(c.Context(), userID(c), int64(noteID)); err != nil {
		return s.fail(c, err, "Note not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleSearchNotes(c *fiber.Ctx) error {
	q := domain.NoteSearchQuery{
		Text:     c.Query("q"),
		FolderID: int64(c.QueryInt("folder_id", 0)),
		TagID:    int64(c.QueryInt("tag_id", 0)),
	}

	notes, err := s.store.SearchNotes(c.Context(), userID(c), q)
	if err != nil {
		return s.fail(c, err, "Note not found")
	}
	return c.JSON(fiber.Map{"notes": notes})
}
