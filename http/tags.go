package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/PaperyIron/notesWebApp/domain"
)

func (s *Server) handleListTags(c *fiber.Ctx) error {
	tags, err := s.store.ListTags(c.Context(), userID(c))
	if err != nil {
		return s.fail(c, err, "Tag not found")
	}
	return c.JSON(fiber.Map{"tags": tags})
}

func (s *Server) handleCreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}
	if req.Name == "" {
		return errJSON(c, fiber.StatusBadRequest, "Tag name is required")
	}

	tag, err := s.store.CreateTag(c.Context(), userID(c), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return errJSON(c, fiber.StatusUnprocessableEntity, "Tag already exists")
		}
		return s.fail(c, err, "Tag not found")
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

func (s *Server) handleDeleteTag(c *fiber.Ctx) error {
	tagID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Tag not found")
	}

	if err := s.store.DeleteTag(c.Context(), userID(c), int64(tagID)); err != nil {
		return s.fail(c, err, "Tag not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAttachTag(c *fiber.Ctx) error {
	noteID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Note not found")
	}
	owner := userID(c)

	// The note is resolved first so a missing note and a missing tag
	// report distinctly.
	if _, err := s.store.GetNote(c.Context(), owner, int64(noteID)); err != nil {
		return s.fail(c, err, "Note not found")
	}

	var req struct {
		TagID int64 `json:"tag_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}
	if req.TagID == 0 {
		return errJSON(c, fiber.StatusBadRequest, "Tag ID is required")
	}

	if err := s.store.AttachTag(c.Context(), owner, int64(noteID), req.TagID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return errJSON(c, fiber.StatusUnprocessableEntity, "Tag already exists")
		}
		return s.fail(c, err, "Tag not found")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Tag added to note"})
}

func (s *Server) handleDetachTag(c *fiber.Ctx) error {
	noteID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Note not found")
	}
	tagID, err := c.ParamsInt("tagId")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Tag not found on note")
	}
	owner := userID(c)

	if _, err := s.store.GetNote(c.Context(), owner, int64(noteID)); err != nil {
		return s.fail(c, err, "Note not found")
	}

	if err := s.store.DetachTag(c.Context(), owner, int64(noteID), int64(tagID)); err != nil {
		return s.fail(c, err, "Tag not found on note")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
