package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

var uploadMessages = map[ports.UploadTarget]struct {
	message string
	urlKey  string
}{
	ports.UploadTargetLogo:       {"Logo uploaded successfully", "logoUrl"},
	ports.UploadTargetBackground: {"Background uploaded successfully", "backgroundUrl"},
	ports.UploadTargetMusic:      {"Background music uploaded successfully", "musicUrl"},
}

// UploadHandler receives media files for the site settings
type UploadHandler struct {
	uploadService ports.UploadService
	logger        *logger.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService ports.UploadService, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// Upload returns the handler for one target. The multipart field carries
// the target's name.
//
// @Summary Upload a logo, background image or background music
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param target path string true "logo, background or music"
// @Param file formData file true "Media file, sent under the target's name"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/upload/{target} [post]
func (h *UploadHandler) Upload(target ports.UploadTarget) echo.HandlerFunc {
	meta := uploadMessages[target]

	return func(c echo.Context) error {
		fh, err := c.FormFile(string(target))
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				return toHTTPError(entities.ErrNoFile, "")
			}
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid upload").SetInternal(err)
		}

		result, err := h.uploadService.Upload(c.Request().Context(), target, ports.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
		if err != nil {
			return toHTTPError(err, "Failed to store upload")
		}

		h.logger.LogAdminAction(adminFromContext(c), "upload_"+string(target), map[string]interface{}{"filename": result.Filename})
		return c.JSON(http.StatusOK, ok(meta.message, result.Report, echo.Map{
			meta.urlKey: result.URL,
			"filename":  result.Filename,
		}))
	}
}
