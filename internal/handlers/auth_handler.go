package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/adib422/FarMacy/internal/middleware"
	"github.com/adib422/FarMacy/internal/models"
	"github.com/adib422/FarMacy/internal/services"
)

// AuthHandler handles HTTP requests for authentication and account
// management.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the account routes that require a
// bearer token.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Put("/change-password", h.HandleChangePassword)
}

// RegisterRequest is the request body for signup.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

// HandleRegister handles new account registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}
	if err := h.authService.Register(user); err != nil {
		log.Printf("Error registering user: %v", err)
		if errors.Is(err, services.ErrEmailTaken) {
			return fail(c, fiber.StatusConflict, "Email already registered")
		}
		return fail(c, fiber.StatusInternalServerError, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
	})
}

// HandleGetProfile returns the authenticated user's profile.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching profile: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch profile")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

// HandleUpdateProfile updates the authenticated user's name and phone.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	user, err := h.authService.UpdateProfile(middleware.UserID(c), req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("Error updating profile: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not update profile")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePasswordRequest is the request body for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// HandleChangePassword verifies the current password and replaces it.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	err := h.authService.ChangePassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			return fail(c, fiber.StatusBadRequest, "Current password is incorrect")
		}
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("Error changing password: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not change password")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}
