package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LikeHandler handles HTTP requests for likes.
type LikeHandler struct {
	service *services.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(service *services.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

// RegisterRoutes registers the like routes. Writes require a token.
func (h *LikeHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	likeRoutes := router.Group("/like")
	likeRoutes.Post("/create", requireAuth, h.HandleCreateLike)
	likeRoutes.Put("/update/:id", requireAuth, h.HandleUpdateLike)
	likeRoutes.Delete("/delete/:id", requireAuth, h.HandleDeleteLike)
	likeRoutes.Get("/user/:userId", h.HandleListUserLikes)
	likeRoutes.Get("/:id", h.HandleGetLike)
}

type likeRequest struct {
	Product string `json:"product" validate:"required"`
}

type likePagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalLikes  int64 `json:"totalLikes"`
	PageSize    int   `json:"pageSize"`
}

// HandleCreateLike records a like by the caller.
func (h *LikeHandler) HandleCreateLike(c *fiber.Ctx) error {
	var req likeRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Like creation failed!")
	}

	like, err := h.service.CreateLike(c.UserContext(), middleware.UserID(c), req.Product)
	if err != nil {
		return fail(c, err, "Like creation failed!")
	}
	return respond(c, fiber.StatusOK, "Like was created successfully!", like)
}

// HandleUpdateLike points the caller's like at another product.
func (h *LikeHandler) HandleUpdateLike(c *fiber.Ctx) error {
	var req likeRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Like update failed!")
	}

	like, err := h.service.UpdateLike(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Product)
	if err != nil {
		return fail(c, err, "Like update failed!")
	}
	return respond(c, fiber.StatusOK, "Like updated successfully!", like)
}

// HandleDeleteLike removes the caller's like.
func (h *LikeHandler) HandleDeleteLike(c *fiber.Ctx) error {
	like, err := h.service.DeleteLike(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Like delete failed!")
	}
	return respond(c, fiber.StatusOK, "Like deleted successfully!", like)
}

// HandleGetLike returns a like by id.
func (h *LikeHandler) HandleGetLike(c *fiber.Ctx) error {
	like, err := h.service.GetLike(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Like not found!")
	}
	return respond(c, fiber.StatusOK, "Like found!", like)
}

// HandleListUserLikes serves GET /user/:userId?page=&limit=, newest first.
func (h *LikeHandler) HandleListUserLikes(c *fiber.Ctx) error {
	page, err := h.service.ListUserLikes(c.UserContext(), c.Params("userId"), pageFromQuery(c))
	if err != nil {
		return fail(c, err, "Like listing failed!")
	}
	return respond(c, fiber.StatusOK, "Likes fetched successfully!", fiber.Map{
		"likes": page.Likes,
		"pagination": likePagination{
			CurrentPage: page.Page.Number,
			TotalLikes:  page.Total,
			PageSize:    page.Page.Size,
		},
	})
}
