package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/PaperyIron/notesWebApp/auth"
	"github.com/PaperyIron/notesWebApp/domain"
)

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var req struct {
		Username             string `json:"username"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errJSON(c, fiber.StatusBadRequest, "Username, email, and password required")
	}
	if req.Password != req.PasswordConfirmation {
		return errJSON(c, fiber.StatusUnprocessableEntity, "Passwords do not match")
	}

	user, err := s.store.CreateUser(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return errJSON(c, fiber.StatusUnprocessableEntity, "Username already exists")
		}
		if domain.IsValidation(err) {
			return errJSON(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		s.log.Error().Err(err).Msg("signup failed")
		return errJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	s.setSessionCookie(c, s.sessions.Issue(user.ID))
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No data provided")
	}

	if req.Username == "" || req.Password == "" {
		return errJSON(c, fiber.StatusBadRequest, "Username and password required")
	}

	user, err := s.store.AuthenticateUser(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			return errJSON(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		s.log.Error().Err(err).Msg("login failed")
		return errJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	s.setSessionCookie(c, s.sessions.Issue(user.ID))
	return c.JSON(user)
}

func (s *Server) handleCheckSession(c *fiber.Ctx) error {
	token := c.Cookies(auth.CookieName)
	if token != "" {
		if id, ok := s.sessions.Resolve(token); ok {
			user, err := s.store.UserByID(c.Context(), id)
			switch {
			case err == nil:
				return c.JSON(user)
			case !errors.Is(err, domain.ErrNotFound):
				s.log.Error().Err(err).Int64("user_id", id).Msg("check session failed")
				return errJSON(c, fiber.StatusInternalServerError, "Internal server error")
			}
			// A session for a user that no longer exists reads as
			// no session at all.
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	token := c.Cookies(auth.CookieName)
	if token == "" || !s.sessions.Revoke(token) {
		return errJSON(c, fiber.StatusUnauthorized, "No active session")
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{})
}
