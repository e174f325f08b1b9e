// Package server exposes the extraction pipeline over HTTP: one
// multipart upload endpoint plus health, behind request-id, logging,
// and recovery middleware.
package server

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/common"
	"github.com/medrec-tools/lab-extract/internal/extraction"
	"github.com/medrec-tools/lab-extract/internal/schema"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ExtractionMetadata mirrors extraction.Result without the text body,
// which travels at the top level of the response instead.
type ExtractionMetadata struct {
	Method            constants.Method `json:"method"`
	Confidence        float64          `json:"confidence"`
	PageCount         int              `json:"page_count"`
	CharCount         int              `json:"char_count"`
	Filename          string           `json:"filename"`
	Error             *string          `json:"error,omitempty"`
	LabName           *string          `json:"lab_name,omitempty"`
	TestCount         *int             `json:"test_count,omitempty"`
	TestDate          *string          `json:"test_date,omitempty"`
	FallbackTriggered bool             `json:"fallback_triggered"`
	NativeTestCount   *int             `json:"native_test_count,omitempty"`
}

// ExtractionResponse is the envelope for POST /api/v1/extractions.
// Status is "error" exactly when the pipeline recorded a failure; the
// HTTP status stays 200 either way.
type ExtractionResponse struct {
	Status        string             `json:"status"`
	ExtractedText string             `json:"extracted_text"`
	Metadata      ExtractionMetadata `json:"metadata"`
	Error         *string            `json:"error,omitempty"`
}

func newExtractionResponse(res extraction.Result) ExtractionResponse {
	status := "success"
	if res.Failed() {
		status = "error"
	}
	return ExtractionResponse{
		Status:        status,
		ExtractedText: res.Text,
		Metadata: ExtractionMetadata{
			Method:            res.Method,
			Confidence:        res.Confidence,
			PageCount:         res.PageCount,
			CharCount:         res.CharCount,
			Filename:          res.Filename,
			Error:             res.Error,
			LabName:           res.LabName,
			TestCount:         res.TestCount,
			TestDate:          res.TestDate,
			FallbackTriggered: res.FallbackTriggered,
			NativeTestCount:   res.NativeTestCount,
		},
		Error: res.Error,
	}
}

// Boundary error codes.
const (
	codeMissingFile      = "MISSING_FILE"
	codeUnsupportedType  = "UNSUPPORTED_TYPE"
	codeFileTooLarge     = "FILE_TOO_LARGE"
	codeMalformedUpload  = "MALFORMED_UPLOAD"
	codeNotAPDF          = "NOT_A_PDF"
	codeResultValidation = "RESULT_VALIDATION"
)

// statusForCode maps boundary error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case codeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case codeMissingFile, codeUnsupportedType, codeMalformedUpload, codeNotAPDF:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondAppError(c *gin.Context, appErr *common.AppError) {
	c.JSON(statusForCode(appErr.Code), gin.H{
		"status": "error",
		"code":   appErr.Code,
		"error":  appErr.Message,
	})
}

// ExtractionHandler serves the extraction endpoint.
type ExtractionHandler struct {
	svc       *extraction.Service
	maxUpload int64
	logger    *slog.Logger
}

// NewExtractionHandler creates an ExtractionHandler. maxUpload caps the
// accepted PDF size in bytes.
func NewExtractionHandler(svc *extraction.Service, maxUpload int64, logger *slog.Logger) *ExtractionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionHandler{svc: svc, maxUpload: maxUpload, logger: logger}
}

// Extract handles POST /api/v1/extractions: multipart form with a
// "file" field and an optional "filename" override. Extraction failure
// is reported inside the envelope, not as a transport error.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	content, filename, appErr := readUpload(c, h.maxUpload)
	if appErr != nil {
		respondAppError(c, appErr)
		return
	}

	res := h.svc.Extract(c.Request.Context(), content, filename)

	if err := schema.ValidateRecord(res); err != nil {
		h.logger.Error("extraction result failed schema validation",
			"error", err, "filename", filename, "method", res.Method)
		respondAppError(c, common.NewAppError(codeResultValidation, "result validation failed", err))
		return
	}

	c.JSON(http.StatusOK, newExtractionResponse(res))
}

// readUpload pulls the PDF out of the multipart form. The size header is
// client-supplied, so the limit is enforced again on the actual read.
func readUpload(c *gin.Context, maxUpload int64) ([]byte, string, *common.AppError) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", common.NewAppError(codeMissingFile, "file field is required", err)
	}
	defer func() { _ = file.Close() }()

	filename := strings.TrimSpace(c.PostForm("filename"))
	if filename == "" {
		filename = header.Filename
	}
	if !constants.IsAllowedFilename(filename) {
		return nil, "", common.NewAppError(codeUnsupportedType,
			fmt.Sprintf("unsupported file %q, only PDF files are accepted", filename), nil)
	}

	if header.Size > maxUpload {
		return nil, "", common.NewAppError(codeFileTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", maxUpload), nil)
	}
	content, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return nil, "", common.NewAppError(codeMalformedUpload, "could not read uploaded file", err)
	}
	if int64(len(content)) > maxUpload {
		return nil, "", common.NewAppError(codeFileTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", maxUpload), nil)
	}
	if !bytes.HasPrefix(content, []byte(constants.PDFMagic)) {
		return nil, "", common.NewAppError(codeNotAPDF, "uploaded file is not a PDF", nil)
	}

	return content, filename, nil
}

// HealthHandler serves liveness.
type HealthHandler struct {
	ocr extraction.OCRExtractor
}

// NewHealthHandler creates a HealthHandler. ocr may be nil when no OCR
// binary is configured.
func NewHealthHandler(ocr extraction.OCRExtractor) *HealthHandler {
	return &HealthHandler{ocr: ocr}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	ocrAvailable := h.ocr != nil && h.ocr.Available(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"version":       Version,
		"ocr_available": ocrAvailable,
	})
}
