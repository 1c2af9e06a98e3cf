package handlers

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with. Errors is null on success.
type Response struct {
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
}

const msgInternal = "Something went wrong!"

var validate = validator.New()

// requestError is a malformed or invalid request body.
type requestError struct {
	messages []string
}

func (e *requestError) Error() string { return strings.Join(e.messages, "; ") }

// parseBody decodes the request body into v and validates its struct tags.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return &requestError{messages: []string{"Invalid request body"}}
	}
	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &requestError{messages: []string{err.Error()}}
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return &requestError{messages: messages}
	}
	return nil
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Message: message, Data: data})
}

func reject(c *fiber.Ctx, status int, message string, errs ...string) error {
	return c.Status(status).JSON(Response{Errors: errs, Message: message})
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr), errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrMissingToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrDuplicate):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as an envelope. message describes the failed operation; internal
// failures are logged and reported without detail.
func fail(c *fiber.Ctx, err error, message string) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).Error(message, "error", err)
		return reject(c, status, msgInternal, "Internal server error")
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reject(c, status, message, reqErr.messages...)
	}
	return reject(c, status, message, err.Error())
}

// ErrorHandler renders errors escaping a handler, including recovered panics and
// fiber's own routing errors, as an envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return reject(c, fiberErr.Code, fiberErr.Message, fiberErr.Message)
	}
	return fail(c, err, msgInternal)
}

// lineItemRequest is a line item as clients send it.
type lineItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// toLineItems keeps nil distinct from an empty list so omitted items can be told apart.
func toLineItems(in []lineItemRequest) []models.LineItem {
	if in == nil {
		return nil
	}
	items := make([]models.LineItem, len(in))
	for i, item := range in {
		items[i] = models.LineItem{ProductID: strings.TrimSpace(item.Product), Quantity: item.Quantity}
	}
	return items
}

func pageFromQuery(c *fiber.Ctx) pagination.Page {
	return pagination.New(c.QueryInt("page", 1), c.QueryInt("limit", pagination.DefaultLimit))
}
