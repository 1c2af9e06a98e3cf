package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers the review routes. Reads are public.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	reviewRoutes := router.Group("/review")
	reviewRoutes.Post("/create", requireAuth, h.HandleCreateReview)
	reviewRoutes.Put("/update/:id", requireAuth, h.HandleUpdateReview)
	reviewRoutes.Delete("/delete/:id", requireAuth, h.HandleDeleteReview)
	reviewRoutes.Get("/product/:productId", h.HandleListProductReviews)
	reviewRoutes.Get("/:id", h.HandleGetReview)
}

type createReviewRequest struct {
	Product string `json:"product" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type updateReviewRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type reviewPagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalReviews int64 `json:"totalReviews"`
	PageSize     int   `json:"pageSize"`
}

// HandleCreateReview rates a product on behalf of the caller.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req createReviewRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Review creation failed!")
	}

	review, err := h.service.CreateReview(c.UserContext(), middleware.UserID(c), req.Product, req.Rating)
	if err != nil {
		return fail(c, err, "Review creation failed!")
	}
	return respond(c, fiber.StatusOK, "Review created successfully!", review)
}

// HandleGetReview returns a review with its author and product.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	review, err := h.service.GetReview(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Review not found!")
	}
	return respond(c, fiber.StatusOK, "Review fetched successfully!", review)
}

// HandleUpdateReview changes the rating of the caller's review.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	var req updateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Review update failed!")
	}

	review, err := h.service.UpdateReview(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Rating)
	if err != nil {
		return fail(c, err, "Review update failed!")
	}
	return respond(c, fiber.StatusOK, "Review updated successfully!", review)
}

// HandleDeleteReview removes the caller's review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	review, err := h.service.DeleteReview(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Review delete failed!")
	}
	return respond(c, fiber.StatusOK, "Review deleted successfully!", review)
}

// HandleListProductReviews serves GET /product/:productId?page=&limit=.
func (h *ReviewHandler) HandleListProductReviews(c *fiber.Ctx) error {
	page, err := h.service.ListProductReviews(c.UserContext(), c.Params("productId"), pageFromQuery(c))
	if err != nil {
		return fail(c, err, "Review listing failed!")
	}
	return respond(c, fiber.StatusOK, "Reviews fetched successfully!", fiber.Map{
		"reviews": page.Reviews,
		"pagination": reviewPagination{
			CurrentPage:  page.Page.Number,
			TotalReviews: page.Total,
			PageSize:     page.Page.Size,
		},
	})
}
