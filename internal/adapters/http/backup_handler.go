package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

// BackupHandler serves backups, export, import and system info
type BackupHandler struct {
	backupService   ports.BackupService
	transferService ports.TransferService
	systemService   ports.SystemService
	logger          *logger.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService ports.BackupService, transferService ports.TransferService, systemService ports.SystemService, logger *logger.Logger) *BackupHandler {
	return &BackupHandler{
		backupService:   backupService,
		transferService: transferService,
		systemService:   systemService,
		logger:          logger,
	}
}

// ListBackups godoc
// @Summary List backups, newest first
// @Tags backup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/backup/list [get]
func (h *BackupHandler) ListBackups(c echo.Context) error {
	backups, err := h.backupService.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to list backups")
	}

	return c.JSON(http.StatusOK, ok("", nil, echo.Map{"backups": backups}))
}

// CreateBackup godoc
// @Summary Create a backup now
// @Tags backup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/backup/create [post]
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	backup, err := h.backupService.Create(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to create backup")
	}

	h.logger.LogAdminAction(adminFromContext(c), "create_backup", map[string]interface{}{"filename": backup.Filename})
	return c.JSON(http.StatusOK, ok("Backup created successfully", nil, echo.Map{"backup": backup}))
}

// DownloadBackup godoc
// @Summary Download a backup
// @Tags backup
// @Produce application/octet-stream
// @Param filename path string true "Backup filename"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/backup/download/{filename} [get]
func (h *BackupHandler) DownloadBackup(c echo.Context) error {
	name := c.Param("filename")

	path, err := h.backupService.Download(c.Request().Context(), name)
	if err != nil {
		return toHTTPError(err, "Failed to download backup")
	}

	return c.Attachment(path, name)
}

// RestoreBackup godoc
// @Summary Restore a backup
// @Description The current data is backed up before it is replaced
// @Tags backup
// @Produce json
// @Param filename path string true "Backup filename"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/backup/restore/{filename} [post]
func (h *BackupHandler) RestoreBackup(c echo.Context) error {
	name := c.Param("filename")

	report, err := h.backupService.Restore(c.Request().Context(), name)
	if err != nil {
		return toHTTPError(err, "Failed to restore backup")
	}

	h.logger.LogAdminAction(adminFromContext(c), "restore_backup", map[string]interface{}{"filename": name})
	return c.JSON(http.StatusOK, ok("Backup restored successfully", report, nil))
}

// Export godoc
// @Summary Export all data
// @Description Writes an export file next to the backups and returns it
// @Tags backup
// @Produce application/json
// @Success 200 {object} entities.ExportEnvelope
// @Security BearerAuth
// @Router /admin/export [get]
func (h *BackupHandler) Export(c echo.Context) error {
	result, err := h.transferService.Export(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to export data")
	}

	h.logger.LogAdminAction(adminFromContext(c), "export", map[string]interface{}{"filename": result.Filename})
	return c.Attachment(result.Path, result.Filename)
}

// Import godoc
// @Summary Import an export file
// @Description Replaces all data; the current data is backed up first
// @Tags backup
// @Accept multipart/form-data
// @Produce json
// @Param importFile formData file true "Export file"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/import [post]
func (h *BackupHandler) Import(c echo.Context) error {
	fh, err := c.FormFile("importFile")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return toHTTPError(entities.ErrNoFile, "")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid upload").SetInternal(err)
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read import file").SetInternal(err)
	}
	defer src.Close()

	report, err := h.transferService.Import(c.Request().Context(), src)
	if err != nil {
		return toHTTPError(err, "Failed to import data")
	}

	h.logger.LogAdminAction(adminFromContext(c), "import", map[string]interface{}{"filename": fh.Filename})
	return c.JSON(http.StatusOK, ok("Data imported successfully", report, nil))
}

// SystemInfo godoc
// @Summary System information
// @Tags backup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/system [get]
func (h *BackupHandler) SystemInfo(c echo.Context) error {
	info, err := h.systemService.Info(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to read system information")
	}

	return c.JSON(http.StatusOK, ok("", nil, echo.Map{"system": info}))
}
