package handlers

import (
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// FilesHandler handles product image uploads and downloads.
type FilesHandler struct {
	service *services.FileService
	log     logrus.FieldLogger
}

// NewFilesHandler creates a new FilesHandler.
func NewFilesHandler(service *services.FileService, log logrus.FieldLogger) *FilesHandler {
	return &FilesHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the file routes with the Fiber app.
func (h *FilesHandler) RegisterRoutes(router fiber.Router) {
	fileRoutes := router.Group("/files")
	fileRoutes.Post("/upload", h.HandleUpload)
	fileRoutes.Get("/product/:image", h.HandleGetProductImage)
}

// HandleUpload stores the multipart field "file" and returns its secure URL.
func (h *FilesHandler) HandleUpload(c *fiber.Ctx) error {
	var upload *services.FileUpload

	header, err := c.FormFile("file")
	if err == nil {
		file, err := header.Open()
		if err != nil {
			h.log.WithError(err).Error("Error opening uploaded file")
			return respondInvalidBody(c, err)
		}
		defer file.Close()

		upload = &services.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Size:        header.Size,
			Body:        file,
		}
	}

	url, err := h.service.Upload(c.UserContext(), upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"secureUrl": url,
	})
}

// HandleGetProductImage streams a stored product image.
func (h *FilesHandler) HandleGetProductImage(c *fiber.Ctx) error {
	obj, err := h.service.Open(c.UserContext(), c.Params("image"))
	if err != nil {
		return respondError(c, err)
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	// The body is closed by fasthttp once it has been sent.
	return c.SendStream(obj.Body, int(obj.Size))
}
