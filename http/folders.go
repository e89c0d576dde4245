package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PaperyIron/notesWebApp/domain"
)

// defaultFolderColor is applied when a create request omits the color.
const defaultFolderColor = "#6B7280"

func (s *Server) handleListFolders(c *fiber.Ctx) error {
	folders, err := s.store.ListFolders(c.Context(), userID(c))
	if err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.JSON(fiber.Map{"folders": folders})
}

func (s *Server) handleCreateFolder(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}
	if req.Name == "" {
		return errJSON(c, fiber.StatusBadRequest, "Folder name is required")
	}
	if req.Color == "" {
		req.Color = defaultFolderColor
	}

	folder, err := s.store.CreateFolder(c.Context(), userID(c), req.Name, req.Color)
	if err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.Status(fiber.StatusCreated).JSON(folder)
}

func (s *Server) handleGetFolder(c *fiber.Ctx) error {
	folderID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Folder not found")
	}

	folder, err := s.store.GetFolder(c.Context(), userID(c), int64(folderID))
	if err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.JSON(folder)
}

func (s *Server) handleUpdateFolder(c *fiber.Ctx) error {
	folderID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Folder not found")
	}

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}

	folder, err := s.store.UpdateFolder(c.Context(), userID(c), int64(folderID),
		domain.FolderPatch{Name: req.Name, Color: req.Color})
	if err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.JSON(folder)
}

func (s *Server) handleDeleteFolder(c *fiber.Ctx) error {
	folderID, err := c.ParamsInt("id")
	if err != nil {
		return errJSON(c, fiber.StatusNotFound, "Folder not found")
	}

	if err := s.store.DeleteFolder(c.Context(), userID(c), int64(folderID)); err != nil {
		return s.fail(c, err, "Folder not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
