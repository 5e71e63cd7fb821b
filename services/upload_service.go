package services

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"agency-admin-server/config"
)

var ErrInvalidImage = errors.New("invalid image file")

// UploadService stores bug-report screenshots in Cloudinary
type UploadService struct {
	cld *cloudinary.Cloudinary
}

// NewUploadService creates the upload service. Without CLOUDINARY_URL the
// service is disabled and screenshot uploads are rejected.
func NewUploadService() (*UploadService, error) {
	url := config.AppConfig.Media.CloudinaryURL
	if url == "" {
		return &UploadService{}, nil
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &UploadService{cld: cld}, nil
}

// Enabled reports whether Cloudinary is configured
func (s *UploadService) Enabled() bool {
	return s.cld != nil
}

// ValidateImageFile validates mimetype (by extension) and size (<= 5MB)
func ValidateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// UploadScreenshot uploads a screenshot and returns its secure URL
func (s *UploadService) UploadScreenshot(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if !s.Enabled() {
		return "", errors.New("media uploads are not configured")
	}
	if !ValidateImageFile(header) {
		return "", ErrInvalidImage
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ow := true
	uf := true
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         "bug-reports",
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &ow,
		UniqueFilename: &uf,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
