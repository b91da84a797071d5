package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	importapp "github.com/addrsync/backend/internal/application/import"
	"github.com/addrsync/backend/internal/infrastructure/config"
	csvimport "github.com/addrsync/backend/internal/infrastructure/import"
	"github.com/addrsync/backend/internal/infrastructure/logger"
	"github.com/addrsync/backend/internal/interfaces/http/dto"
)

// AddressImportHandler handles CSV address import uploads
type AddressImportHandler struct {
	BaseHandler
	service *importapp.AddressImportService
	cfg     config.ImportConfig
}

// NewAddressImportHandler creates a new AddressImportHandler
func NewAddressImportHandler(service *importapp.AddressImportService, cfg config.ImportConfig) *AddressImportHandler {
	return &AddressImportHandler{
		service: service,
		cfg:     cfg,
	}
}

// ImportResponse is the body returned for both real and dry runs.
type ImportResponse struct {
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	ErrorCount    int      `json:"error_count"`
	SkipLogs      []string `json:"skip_logs,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	DryRun        bool     `json:"dry_run"`
	DeleteMode    bool     `json:"delete_mode"`
}

func toImportResponse(result *importapp.Result, opts importapp.Options) ImportResponse {
	return ImportResponse{
		ImportedCount: result.ImportedCount,
		SkippedCount:  result.SkippedCount,
		ErrorCount:    result.TotalErrors,
		SkipLogs:      result.SkipLogs,
		Errors:        result.Errors,
		DryRun:        opts.DryRun,
		DeleteMode:    opts.DeleteMode,
	}
}

// Import handles POST /api/v1/import/addresses. The CSV comes as a multipart
// "file" part; run options come as form fields.
func (h *AddressImportHandler) Import(c *gin.Context) {
	h.run(c, false)
}

// Validate handles POST /api/v1/import/addresses/validate. Identical to
// Import but always a dry run.
func (h *AddressImportHandler) Validate(c *gin.Context) {
	h.run(c, true)
}

func (h *AddressImportHandler) run(c *gin.Context, forceDryRun bool) {
	log := logger.GetGinLogger(c)

	opts, err := h.parseOptions(c, forceDryRun)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "missing file upload")
		return
	}
	if fileHeader.Size > h.cfg.MaxFileSize {
		h.BadRequest(c, fmt.Sprintf("%s (limit %d bytes)", csvimport.ErrFileTooLarge, h.cfg.MaxFileSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.Run(c.Request.Context(), file, opts)
	if err != nil {
		switch {
		case errors.Is(err, csvimport.ErrEmptyFile),
			errors.Is(err, csvimport.ErrInvalidEncoding),
			errors.Is(err, csvimport.ErrMissingHeader),
			errors.Is(err, csvimport.ErrMissingIdentifierColumn):
			h.BadRequest(c, err.Error())
		case result == nil:
			h.BadRequest(c, err.Error())
		default:
			log.Warn("import aborted", zap.Error(err))
			// The batch stopped partway; earlier rows are already applied.
			h.UnprocessableEntity(c, dto.ErrCodeImportFailed, err.Error(), toImportResponse(result, opts))
		}
		return
	}

	h.Success(c, toImportResponse(result, opts))
}

func (h *AddressImportHandler) parseOptions(c *gin.Context, forceDryRun bool) (importapp.Options, error) {
	opts := importapp.Options{
		DryRun:      forceDryRun || parseBool(c.PostForm("dry_run")),
		DeleteMode:  parseBool(c.PostForm("delete_mode")),
		SkipOnError: true,
		MaxErrors:   h.cfg.MaxErrors,
	}

	if v := c.PostForm("skip_on_error"); v != "" {
		opts.SkipOnError = parseBool(v)
	}

	delimiter := c.PostForm("delimiter")
	if delimiter == "" {
		delimiter = h.cfg.DefaultDelimiter
	}
	runes := []rune(delimiter)
	if len(runes) != 1 {
		return opts, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	opts.Delimiter = runes[0]

	return opts, nil
}

func parseBool(v string) bool {
	switch v {
	case "1", "true", "yes":
		return true
	}
	return false
}
