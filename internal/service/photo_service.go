package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

const photoScope = "photo"

var dataURLPattern = regexp.MustCompile(`(?is)^data:image/([a-z0-9+.\-]+);base64,(.+)$`)

type photoStore interface {
	Save(relPath string, data []byte) (string, error)
	Read(relPath string) ([]byte, error)
	Delete(relPath string) error
}

type photoSigner interface {
	Generate(scope, relPath string) (string, time.Time, error)
	Parse(token, scope string) (string, time.Time, error)
}

// PhotoService stores visitor photos and hands out signed links to them.
type PhotoService struct {
	store    photoStore
	signer   photoSigner
	maxBytes int64
	logger   *zap.Logger
	now      func() time.Time
}

// NewPhotoService constructs a PhotoService. maxBytes defaults to 5 MB.
func NewPhotoService(store photoStore, signer photoSigner, maxBytes int64, logger *zap.Logger) *PhotoService {
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoService{store: store, signer: signer, maxBytes: maxBytes, logger: logger, now: time.Now}
}

// MaxBytes is the upload ceiling.
func (s *PhotoService) MaxBytes() int64 {
	return s.maxBytes
}

// SaveBase64 accepts a data URL or bare base64 payload.
func (s *PhotoService) SaveBase64(encoded string) (*models.PhotoUpload, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image_base64 is required")
	}
	if m := dataURLPattern.FindStringSubmatch(encoded); m != nil {
		encoded = m[2]
	}
	// Decoded size is roughly three quarters of the encoded length.
	if int64(len(encoded))/4*3 > s.maxBytes+3 {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "image exceeds the maximum allowed size")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "image_base64 is not valid base64")
	}
	return s.Save(data)
}

// Save validates raw image bytes and stores them under photos/YYYY/MM.
func (s *PhotoService) Save(data []byte) (*models.PhotoUpload, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "image exceeds the maximum allowed size")
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image is empty")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "image could not be decoded")
	}
	var ext string
	switch format {
	case "jpeg":
		ext = ".jpg"
	case "png":
		ext = ".png"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "only JPEG or PNG images are allowed")
	}

	now := s.now()
	rel := path.Join("photos", fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+ext)
	if _, err := s.store.Save(rel, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}

	token, expiresAt, err := s.signer.Generate(photoScope, rel)
	if err != nil {
		if delErr := s.store.Delete(rel); delErr != nil {
			s.logger.Warn("failed to remove unsigned photo", zap.String("path", rel), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign image link")
	}
	s.logger.Debug("photo stored", zap.String("path", rel), zap.Int("bytes", len(data)))
	return &models.PhotoUpload{Path: rel, Token: token, ExpiresAt: expiresAt, Size: len(data)}, nil
}

// Open resolves a signed token to the photo bytes and content type.
func (s *PhotoService) Open(token string) ([]byte, string, error) {
	rel, _, err := s.signer.Parse(token, photoScope)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired photo link")
	}
	data, err := s.store.Read(rel)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "photo not found")
	}
	contentType := "image/jpeg"
	if strings.HasSuffix(rel, ".png") {
		contentType = "image/png"
	}
	return data, contentType, nil
}
