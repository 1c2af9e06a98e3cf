package handlers

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ImagesPath is the URL prefix uploaded pictures are served under.
const ImagesPath = "/images"

// UploadConfig controls where product pictures are written.
type UploadConfig struct {
	Dir      string
	MaxFiles int
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	uploads UploadConfig
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, uploads UploadConfig) *ProductHandler {
	return &ProductHandler{
		service: service,
		uploads: uploads,
	}
}

// RegisterRoutes registers the product routes. requireAuth guards catalog writes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	productRoutes := router.Group("/product")
	productRoutes.Get("/search/value", h.HandleSearchByName)
	productRoutes.Get("/search/price", h.HandleSearchByPrice)
	productRoutes.Get("/display/latest", h.HandleLatest)
	productRoutes.Post("/create", requireAuth, h.HandleCreateProduct)
	productRoutes.Put("/update/:id", requireAuth, h.HandleUpdateProduct)
	productRoutes.Delete("/delete/:id", requireAuth, h.HandleDeleteProduct)
	productRoutes.Post("/:id/ratings/recompute", requireAuth, h.HandleRecomputeRatings)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

type productRequest struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Description string   `json:"description" form:"description"`
	Price       float64  `json:"price" form:"price" validate:"gte=0"`
	Category    string   `json:"category" form:"category" validate:"required,oneof=cars pets devices"`
	Pictures    []string `json:"pictures" form:"-"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=cars pets devices"`
	Pictures    []string `json:"pictures"`
}

// productPagination is the pagination block of search responses.
type productPagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalProducts int64 `json:"totalProducts"`
	PageSize      int   `json:"pageSize"`
}

type productSearchResult struct {
	Products   []models.Product  `json:"products"`
	Pagination productPagination `json:"pagination"`
}

func searchResult(page *services.ProductPage) productSearchResult {
	return productSearchResult{
		Products: page.Products,
		Pagination: productPagination{
			CurrentPage:   page.Page.Number,
			TotalProducts: page.Total,
			PageSize:      page.Page.Size,
		},
	}
}

// HandleCreateProduct creates a product from a JSON body or a multipart form
// carrying up to MaxFiles "pictures" files.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Product creation failed!")
	}

	pictures := req.Pictures
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		saved, err := h.savePictures(c)
		if err != nil {
			return fail(c, err, "Product creation failed!")
		}
		pictures = saved
	}

	product, err := h.service.CreateProduct(c.UserContext(), services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    models.Category(req.Category),
		Pictures:    pictures,
	})
	if err != nil {
		return fail(c, err, "Product creation failed!")
	}
	return respond(c, fiber.StatusCreated, "Product created successfully!", product)
}

// savePictures stores the uploaded "pictures" files and returns their public paths.
func (h *ProductHandler) savePictures(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &requestError{messages: []string{"Invalid multipart form"}}
	}

	files := form.File["pictures"]
	if len(files) > h.uploads.MaxFiles {
		return nil, &requestError{messages: []string{fmt.Sprintf("At most %d pictures can be uploaded", h.uploads.MaxFiles)}}
	}

	pictures := make([]string, 0, len(files))
	for _, file := range files {
		name := uuid.NewString() + "-" + filepath.Base(file.Filename)
		if err := c.SaveFile(file, filepath.Join(h.uploads.Dir, name)); err != nil {
			return nil, fmt.Errorf("failed to save picture %s: %w", file.Filename, err)
		}
		pictures = append(pictures, path.Join(ImagesPath, name))
	}
	return pictures, nil
}

// HandleUpdateProduct applies a partial product update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req updateProductRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Product update failed!")
	}

	in := services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Pictures:    req.Pictures,
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		in.Category = &category
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err, "Product update failed!")
	}
	return respond(c, fiber.StatusOK, "Product updated successfully!", product)
}

// HandleDeleteProduct removes a product. Carts and orders referencing it are left alone.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	product, err := h.service.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "No product found with the provided ID")
	}
	return respond(c, fiber.StatusOK, "Product deleted successfully!", product)
}

// HandleGetProduct returns a product by id.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "No product found with the provided ID")
	}
	return respond(c, fiber.StatusOK, "Product fetched successfully!", product)
}

// HandleSearchByName serves GET /search/value?value=&page=&limit=.
func (h *ProductHandler) HandleSearchByName(c *fiber.Ctx) error {
	page, err := h.service.SearchByName(c.UserContext(), c.Query("value"), pageFromQuery(c))
	if err != nil {
		return fail(c, err, "Product search failed!")
	}
	return respond(c, fiber.StatusOK, "Products fetched successfully!", searchResult(page))
}

// HandleSearchByPrice serves GET /search/price?price_min=&price_max=&page=&limit=.
// Either bound may be omitted.
func (h *ProductHandler) HandleSearchByPrice(c *fiber.Ctx) error {
	var prices repositories.PriceRange
	for key, bound := range map[string]**float64{"price_min": &prices.Min, "price_max": &prices.Max} {
		if c.Query(key) == "" {
			continue
		}
		value := c.QueryFloat(key, -1)
		if value < 0 {
			return reject(c, fiber.StatusBadRequest, "Product search failed!", fmt.Sprintf("%s must be a non-negative number", key))
		}
		*bound = &value
	}

	page, err := h.service.SearchByPrice(c.UserContext(), prices, pageFromQuery(c))
	if err != nil {
		return fail(c, err, "Product search failed!")
	}
	return respond(c, fiber.StatusOK, "Products fetched successfully!", searchResult(page))
}

// HandleLatest serves the newest products.
func (h *ProductHandler) HandleLatest(c *fiber.Ctx) error {
	products, err := h.service.LatestProducts(c.UserContext())
	if err != nil {
		return fail(c, err, "Product listing failed!")
	}
	return respond(c, fiber.StatusOK, "Latest products fetched successfully!", fiber.Map{"products": products})
}

// HandleRecomputeRatings rebuilds a product's rating aggregate from its reviews.
func (h *ProductHandler) HandleRecomputeRatings(c *fiber.Ctx) error {
	product, err := h.service.RecomputeRatings(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Rating recompute failed!")
	}
	return respond(c, fiber.StatusOK, "Ratings recomputed successfully!", product)
}
