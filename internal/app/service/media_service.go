package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/storage"
	"github.com/ikkim/digimart-backend/pkg/logger"
)

var (
	ErrMediaTooLarge        = errors.New("media file too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrEmptyMedia           = errors.New("media file is empty")
)

// sniffLen is how much of an upload is inspected for its content type.
const sniffLen = 3072

// executables are never accepted as downloadable goods.
var blockedMediaTypes = []string{
	"application/vnd.microsoft.portable-executable",
	"application/x-msdownload",
	"application/x-elf",
	"application/x-mach-binary",
	"application/x-sharedlib",
	"application/x-executable",
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type MediaService interface {
	UploadMedia(ctx context.Context, userID, productID uint, filename string, size int64, r io.Reader) (*model.Product, error)
}

type mediaService struct {
	productService ProductService
	productRepo    repository.ProductRepository
	store          storage.MediaStorage
	maxBytes       int64
}

func NewMediaService(
	productService ProductService,
	productRepo repository.ProductRepository,
	store storage.MediaStorage,
	maxBytes int64,
) MediaService {
	return &mediaService{
		productService: productService,
		productRepo:    productRepo,
		store:          store,
		maxBytes:       maxBytes,
	}
}

// UploadMedia stores the product file in protected storage under a fresh key
// and points the product at it. The previous file is left in place.
func (s *mediaService) UploadMedia(ctx context.Context, userID, productID uint, filename string, size int64, r io.Reader) (*model.Product, error) {
	product, err := s.productService.GetEditForm(userID, productID)
	if err != nil {
		return nil, err
	}

	if err := storage.ValidateFileSize(size, s.maxBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMediaTooLarge, err)
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyMedia
	}
	header = header[:n]

	detected := mimetype.Detect(header)
	for _, blocked := range blockedMediaTypes {
		if detected.Is(blocked) {
			logger.Warn("Rejected media upload", map[string]interface{}{
				"product_id": productID,
				"mime":       detected.String(),
			})
			return nil, ErrUnsupportedMediaType
		}
	}

	key := MediaKey(product.Product.Slug, filename)
	body := io.MultiReader(bytes.NewReader(header), r)
	if err := s.store.Save(ctx, key, body, size, detected.String()); err != nil {
		logger.Error("Failed to store media", err, map[string]interface{}{
			"product_id": productID,
			"backend":    s.store.Backend(),
		})
		return nil, err
	}

	if err := s.productRepo.UpdateMedia(product.Product.ID, key); err != nil {
		return nil, err
	}
	product.Product.Media = key

	logger.Info("Product media uploaded", map[string]interface{}{
		"product_id": productID,
		"key":        key,
		"mime":       detected.String(),
		"size":       size,
	})
	return product.Product, nil
}

// MediaKey builds products/<slug>/<uuid>/<file name>.
func MediaKey(slug, filename string) string {
	return path.Join("products", slug, uuid.NewString(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
