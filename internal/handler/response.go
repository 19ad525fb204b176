package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aria/internal/domain"
	"aria/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response. Stage, Details and Artifact are
// only set for pipeline failures.
type APIError struct {
	Code     string                    `json:"code"`
	Message  string                    `json:"message"`
	Stage    domain.Stage              `json:"stage,omitempty"`
	Details  string                    `json:"details,omitempty"`
	Artifact *domain.PublishedArtifact `json:"artifact,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, webp"
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusInternalServerError, "PUBLISH_NOT_CONFIGURED", "publisher credentials are not configured"
	}

	var decErr *domain.DecodeError
	var extErr *domain.ExtractionError
	var pubErr *domain.PublishError
	var invErr *domain.MintInvocationError
	var outErr *domain.MintOutputError
	var resErr *domain.MintResultError
	switch {
	case errors.As(err, &decErr):
		return http.StatusUnprocessableEntity, "DECODE_FAILED", "document could not be decoded"
	case errors.As(err, &extErr):
		return http.StatusBadGateway, "EXTRACTION_FAILED", "AI analysis failed"
	case errors.As(err, &pubErr):
		return http.StatusBadGateway, "PUBLISH_FAILED", "metadata publishing failed"
	case errors.As(err, &invErr):
		return http.StatusInternalServerError, "MINT_SCRIPT_FAILED", "minting script failed"
	case errors.As(err, &outErr):
		return http.StatusInternalServerError, "MINT_OUTPUT_INVALID", "invalid response from minting script"
	case errors.As(err, &resErr):
		return http.StatusInternalServerError, "MINT_REJECTED", "minting failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// stageDetails returns the caller-facing detail of a pipeline failure.
func stageDetails(err error) string {
	var invErr *domain.MintInvocationError
	var resErr *domain.MintResultError
	switch {
	case errors.As(err, &invErr):
		return invErr.Detail
	case errors.As(err, &resErr):
		return resErr.Detail
	}
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

// HandleError maps a domain error and sends the appropriate error response.
// Pipeline failures carry the failing stage and, after publish, the artifact.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	log := middleware.GetLogger(c)
	if status >= 500 {
		log.Error().Err(err).Str("code", code).Msg("request failed")
	}

	apiErr := &APIError{Code: code, Message: msg}
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		apiErr.Stage = stageErr.Stage
		apiErr.Details = stageDetails(stageErr.Err)
		apiErr.Artifact = stageErr.Artifact
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}
