package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/response"
)

type photoService interface {
	MaxBytes() int64
	SaveBase64(encoded string) (*models.PhotoUpload, error)
	Save(data []byte) (*models.PhotoUpload, error)
	Open(token string) ([]byte, string, error)
}

// PhotoHandler accepts visitor photos and serves them back through signed links.
type PhotoHandler struct {
	photos    photoService
	urlPrefix string
}

// NewPhotoHandler constructs the handler. urlPrefix is prepended to the
// /photos/:token path in upload responses.
func NewPhotoHandler(photos photoService, urlPrefix string) *PhotoHandler {
	return &PhotoHandler{photos: photos, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Upload godoc
// @Summary Upload a visitor photo
// @Description Accepts a multipart "image" file or a JSON body with "image_base64" (data URL or raw base64)
// @Tags Photos
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /photos [post]
func (h *PhotoHandler) Upload(c *gin.Context) {
	limit := h.photos.MaxBytes()
	// base64 inflates by a third, multipart adds headers
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit*2)

	var (
		upload *models.PhotoUpload
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		upload, err = h.uploadMultipart(c)
	} else {
		var payload struct {
			ImageBase64 string `json:"image_base64"`
		}
		if bindErr := c.ShouldBindJSON(&payload); bindErr != nil {
			err = bodyError(bindErr, "invalid photo payload")
		} else {
			upload, err = h.photos.SaveBase64(payload.ImageBase64)
		}
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	upload.URL = h.urlPrefix + "/photos/" + upload.Token
	response.Created(c, upload)
}

func (h *PhotoHandler) uploadMultipart(c *gin.Context) (*models.PhotoUpload, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, bodyError(err, "image file is required")
	}
	if header.Size > h.photos.MaxBytes() {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "image exceeds the maximum allowed size")
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "image file could not be read")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.photos.MaxBytes()+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "image file could not be read")
	}
	return h.photos.Save(data)
}

// Show godoc
// @Summary Serve a stored photo
// @Tags Photos
// @Produce image/jpeg
// @Produce image/png
// @Param token path string true "Signed photo token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /photos/{token} [get]
func (h *PhotoHandler) Show(c *gin.Context) {
	data, contentType, err := h.photos.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, contentType, data)
}

func bodyError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.Clone(appErrors.ErrPayloadTooLarge, "image exceeds the maximum allowed size")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
