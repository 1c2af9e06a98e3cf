package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for signup, login and user profiles.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRoutes registers the user routes. requireAuth guards profile changes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/create", h.HandleSignup)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/update/:id", requireAuth, h.HandleUpdateUser)
	userRoutes.Delete("/delete/:id", requireAuth, h.HandleDeleteUser)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// session is returned by signup and login.
type session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleSignup registers a new user and returns it with a token.
func (h *UserHandler) HandleSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "User creation failed!")
	}

	user, token, err := h.authService.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err, "User creation failed!")
	}
	return respond(c, fiber.StatusCreated, "User created successfully!", session{User: user, Token: token})
}

// HandleLogin authenticates a user and issues a token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Login failed!")
	}

	user, token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err, "Login failed!")
	}
	return respond(c, fiber.StatusOK, "Login successful!", session{User: user, Token: token})
}

// HandleGetUser returns a public user profile.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "No user found with the provided ID")
	}
	return respond(c, fiber.StatusOK, "User fetched successfully!", user)
}

// HandleUpdateUser updates the caller's own profile.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "User update failed!")
	}

	user, err := h.userService.UpdateUser(c.UserContext(), middleware.UserID(c), c.Params("id"), services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(c, err, "User update failed!")
	}
	return respond(c, fiber.StatusOK, "User updated successfully!", user)
}

// HandleDeleteUser removes the caller's own profile.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	user, err := h.userService.DeleteUser(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "User delete failed!")
	}
	return respond(c, fiber.StatusOK, "User deleted successfully!", user)
}
