package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aria/internal/domain"
	"aria/internal/service"
)

// multipartMemory is how much of a multipart body is buffered in memory before spilling to disk.
const multipartMemory = 8 << 20

// AttestationHandler handles document analysis and minting.
type AttestationHandler struct {
	attestationService service.AttestationService
	maxUploadBytes     int64
}

// NewAttestationHandler creates a new AttestationHandler. maxUploadBytes <= 0 disables the size check.
func NewAttestationHandler(attestationService service.AttestationService, maxUploadBytes int64) *AttestationHandler {
	return &AttestationHandler{attestationService: attestationService, maxUploadBytes: maxUploadBytes}
}

// AttestationResponse is the success body of an analysis run. The top-level
// fields keep the shape existing frontends read.
type AttestationResponse struct {
	Success         bool                 `json:"success"`
	TxID            string               `json:"txId"`
	AIReportDisplay domain.DisplayReport `json:"ai_report_display"`
	IPFSLink        string               `json:"ipfs_link"`
	Data            AttestationData      `json:"data"`
}

// AttestationData carries run provenance alongside the legacy fields.
type AttestationData struct {
	RunID              uuid.UUID                  `json:"run_id"`
	ContentID          string                     `json:"content_id"`
	Provider           string                     `json:"provider"`
	VerificationMethod domain.VerificationMethod  `json:"verification_method"`
	Metadata           domain.AttestationMetadata `json:"metadata"`
}

// Analyze handles POST /analyze_and_mint and POST /api/v1/attestations
// @Summary Analyze a document and mint its attestation
// @Description Runs AI analysis and QR verification on a document (PDF, JPG, PNG, WEBP), publishes the metadata and mints it to owner_address
// @Tags attestations
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "Document to analyze"
// @Param owner_address formData string true "Recipient ledger address"
// @Success 200 {object} AttestationResponse "Attestation minted"
// @Failure 400 {object} APIResponse "Missing document, address, or unsupported type"
// @Failure 413 {object} APIResponse "Document too large"
// @Failure 422 {object} APIResponse "Document could not be decoded"
// @Failure 500 {object} APIResponse "Minting failed"
// @Failure 502 {object} APIResponse "Analysis or publishing failed"
// @Router /analyze_and_mint [post]
func (h *AttestationHandler) Analyze(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "document exceeds maximum allowed size")
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_DOCUMENT", "No document part")
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_DOCUMENT", "No document part")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		RespondError(c, http.StatusBadRequest, "EMPTY_FILENAME", "No selected document")
		return
	}
	recipient := strings.TrimSpace(c.PostForm("owner_address"))
	if recipient == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_OWNER_ADDRESS", "No owner_address provided")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_DOCUMENT", "document could not be read")
		return
	}
	if len(data) == 0 {
		RespondError(c, http.StatusBadRequest, "EMPTY_DOCUMENT", "document is empty")
		return
	}

	contentType := resolveContentType(header.Header.Get("Content-Type"), data)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		HandleError(c, domain.ErrUnsupportedFileType)
		return
	}

	result, err := h.attestationService.Analyze(c.Request.Context(), &domain.DocumentSubmission{
		Data:        data,
		ContentType: contentType,
		Filename:    header.Filename,
		Recipient:   recipient,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AttestationResponse{
		Success:         true,
		TxID:            result.TxID,
		AIReportDisplay: result.Report,
		IPFSLink:        result.Artifact.URL,
		Data: AttestationData{
			RunID:              result.RunID,
			ContentID:          result.Artifact.ContentID,
			Provider:           result.Artifact.Provider,
			VerificationMethod: result.Metadata.Properties.VerificationMethod,
			Metadata:           result.Metadata,
		},
	})
}

// resolveContentType prefers the declared part type and sniffs the bytes when
// the client sent none or a generic one.
func resolveContentType(declared string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return strings.ToLower(mt)
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
