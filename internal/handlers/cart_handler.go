package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for carts. Every route requires a token and
// carts are only visible to their owner.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes behind requireAuth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	cartRoutes := router.Group("/cart", requireAuth)
	cartRoutes.Post("/create", h.HandleCreateCart)
	cartRoutes.Put("/update/:id", h.HandleUpdateCart)
	cartRoutes.Delete("/delete/:id", h.HandleDeleteCart)
	cartRoutes.Get("/:id", h.HandleGetCart)
}

type cartRequest struct {
	Items []lineItemRequest `json:"items"`
}

// HandleCreateCart prices and stores a cart for the caller.
func (h *CartHandler) HandleCreateCart(c *fiber.Ctx) error {
	var req cartRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Cart creation failed!")
	}

	cart, err := h.service.CreateCart(c.UserContext(), middleware.UserID(c), toLineItems(req.Items))
	if err != nil {
		return fail(c, err, "Cart creation failed!")
	}
	return respond(c, fiber.StatusOK, "Cart was created successfully!", cart)
}

// HandleUpdateCart replaces the items of the caller's cart and reprices it.
func (h *CartHandler) HandleUpdateCart(c *fiber.Ctx) error {
	var req cartRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Cart update failed!")
	}

	cart, err := h.service.UpdateCart(c.UserContext(), middleware.UserID(c), c.Params("id"), toLineItems(req.Items))
	if err != nil {
		return fail(c, err, "Cart update failed!")
	}
	return respond(c, fiber.StatusOK, "Cart updated successfully!", cart)
}

// HandleDeleteCart removes the caller's cart and returns it.
func (h *CartHandler) HandleDeleteCart(c *fiber.Ctx) error {
	cart, err := h.service.DeleteCart(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Cart delete failed!")
	}
	return respond(c, fiber.StatusOK, "Cart deleted successfully!", cart)
}

// HandleGetCart returns a cart with its products resolved.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Cart not found!")
	}
	return respond(c, fiber.StatusOK, "Cart found!", cart)
}
