package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes behind requireAuth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	orderRoutes := router.Group("/order", requireAuth)
	orderRoutes.Post("/create", h.HandleCreateOrder)
	orderRoutes.Put("/update/:id", h.HandleUpdateOrder)
	orderRoutes.Delete("/delete/:id", h.HandleDeleteOrder)
	orderRoutes.Get("/user/:userId", h.HandleListUserOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

type createOrderRequest struct {
	Items           []lineItemRequest `json:"items"`
	DeliveryAddress string            `json:"delivery_address" validate:"required"`
	PaymentMethod   string            `json:"payment_method" validate:"required,oneof='Credit Card' 'Wish Money' 'Cash on Delivery'"`
}

// updateOrderRequest leaves every omitted field at its stored value.
type updateOrderRequest struct {
	Items           []lineItemRequest `json:"items"`
	Status          *string           `json:"status" validate:"omitempty,oneof=Pending Processing Shipped Delivered Cancelled"`
	DeliveryAddress *string           `json:"delivery_address" validate:"omitempty,min=1"`
	PaymentMethod   *string           `json:"payment_method" validate:"omitempty,oneof='Credit Card' 'Wish Money' 'Cash on Delivery'"`
}

type orderPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalOrders int64 `json:"totalOrders"`
	PageSize    int   `json:"pageSize"`
}

// HandleCreateOrder creates a Pending order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Order creation failed!")
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.UserID(c), services.CreateOrderInput{
		Items:           toLineItems(req.Items),
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return fail(c, err, "Order creation failed!")
	}
	return respond(c, fiber.StatusCreated, "Order created successfully!", order)
}

// HandleUpdateOrder applies a partial update and reprices the order.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	var req updateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Order update failed!")
	}

	in := services.UpdateOrderInput{
		Items:           toLineItems(req.Items),
		DeliveryAddress: req.DeliveryAddress,
	}
	if req.Status != nil {
		status := models.OrderStatus(*req.Status)
		in.Status = &status
	}
	if req.PaymentMethod != nil {
		method := models.PaymentMethod(*req.PaymentMethod)
		in.PaymentMethod = &method
	}

	order, err := h.service.UpdateOrder(c.UserContext(), middleware.UserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err, "Order update failed!")
	}
	return respond(c, fiber.StatusOK, "Order updated successfully!", order)
}

// HandleDeleteOrder removes the caller's order and returns it.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, err, "Order deletion failed!")
	}
	return respond(c, fiber.StatusOK, "Order deleted successfully!", nil)
}

// HandleGetOrderByID retrieves a single order with its products resolved.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Order retrieval failed!")
	}
	return respond(c, fiber.StatusOK, "Order retrieved successfully!", order)
}

// HandleListUserOrders lists the caller's own orders, newest first.
func (h *OrderHandler) HandleListUserOrders(c *fiber.Ctx) error {
	page, err := h.service.ListUserOrders(c.UserContext(), middleware.UserID(c), c.Params("userId"), pageFromQuery(c))
	if err != nil {
		return fail(c, err, "Order retrieval failed!")
	}
	return respond(c, fiber.StatusOK, "Orders retrieved successfully!", fiber.Map{
		"orders": page.Orders,
		"pagination": orderPagination{
			CurrentPage: page.Page.Number,
			TotalOrders: page.Total,
			PageSize:    page.Page.Size,
		},
	})
}
