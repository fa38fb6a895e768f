package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"catalog/internal/apperrors"
	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     logrus.FieldLogger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:term", h.HandleGetProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns one page of products. Accepts ?limit= and ?offset=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var pagination models.PaginationDto
	var err error
	if pagination.Limit, err = optionalInt(c, "limit"); err != nil {
		return respondError(c, err)
	}
	if pagination.Offset, err = optionalInt(c, "offset"); err != nil {
		return respondError(c, err)
	}

	products, err := h.service.FindAll(c.UserContext(), pagination)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct returns one product looked up by id, slug or title.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	term, err := url.PathUnescape(c.Params("term"))
	if err != nil {
		return respondError(c, apperrors.InvalidInput("Malformed lookup term"))
	}

	product, err := h.service.FindOnePlain(c.UserContext(), term)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		h.log.WithError(err).Debug("Error parsing create product body")
		return respondInvalidBody(c, err)
	}

	product, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update. An "images" array replaces the
// product's images; omitting it leaves them untouched.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if !services.IsUUID(id) {
		return respondError(c, apperrors.InvalidInput("Validation failed (uuid is expected)"))
	}

	var patch models.UpdateProductInput
	if err := c.BodyParser(&patch); err != nil {
		h.log.WithError(err).WithField("id", id).Debug("Error parsing update product body")
		return respondInvalidBody(c, err)
	}

	product, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and its images.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if !services.IsUUID(id) {
		return respondError(c, apperrors.InvalidInput("Validation failed (uuid is expected)"))
	}

	result, err := h.service.Remove(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Query parameter '%s' must be a number", key))
	}
	return &n, nil
}
