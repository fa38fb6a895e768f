package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"catalog/internal/apperrors"
	"catalog/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// allowedImageExtensions are the MIME subtypes accepted for product images.
var allowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// FileUpload is an uploaded file as received from the transport layer.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileService stores product images and builds their public URLs.
type FileService struct {
	store   storage.Storage
	hostAPI string
	log     logrus.FieldLogger
}

// NewFileService creates a new FileService. hostAPI prefixes every returned URL.
func NewFileService(store storage.Storage, hostAPI string, log logrus.FieldLogger) *FileService {
	return &FileService{
		store:   store,
		hostAPI: strings.TrimRight(hostAPI, "/"),
		log:     log,
	}
}

// Upload stores an image under a generated name and returns its secure URL.
func (s *FileService) Upload(ctx context.Context, file *FileUpload) (string, error) {
	if file == nil || file.Body == nil {
		return "", apperrors.InvalidInput("No file provided")
	}

	ext := imageExtension(file.ContentType)
	if !allowedImageExtensions[ext] {
		return "", apperrors.InvalidInput("Make sure that the file is an image")
	}

	name := uuid.NewString() + "." + ext
	if err := s.store.Save(ctx, name, file.ContentType, file.Body, file.Size); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"original_name": file.Filename,
			"name":          name,
		}).Error("Failed to store product image")
		return "", apperrors.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"name": name, "size": file.Size}).Info("Product image stored")
	return s.hostAPI + "/files/product/" + name, nil
}

// Open returns the stored image called name. The caller closes the object body.
func (s *FileService) Open(ctx context.Context, name string) (*storage.Object, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, apperrors.NotFoundf("No product found with image %s", name)
	}

	obj, err := s.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperrors.NotFoundf("No product found with image %s", name)
		}
		s.log.WithError(err).WithField("name", name).Error("Failed to read product image")
		return nil, apperrors.Internal(err)
	}
	return obj, nil
}

// imageExtension returns the lower-cased MIME subtype of contentType.
func imageExtension(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	_, subtype, ok := strings.Cut(strings.TrimSpace(mediaType), "/")
	if !ok {
		return ""
	}
	return strings.ToLower(subtype)
}
