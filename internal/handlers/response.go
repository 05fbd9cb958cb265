package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tombstone73/quotevault-backend/internal/modules/configurator"
	pkgerrors "github.com/Tombstone73/quotevault-backend/internal/pkg/errors"
	"github.com/Tombstone73/quotevault-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// classifyDomainError maps a domain error onto an apierr.Error. Structural
// graph defects are 422, evaluation failures 400, draft-tree and stale
// snapshot rejections 409.
func classifyDomainError(err error) *apierr.Error {
	var (
		validationErr *configurator.ValidationError
		evalErr       *configurator.EvaluationError
		draftErr      *configurator.DraftTreeError
		staleErr      *configurator.StalenessError
	)
	switch {
	case errors.As(err, &validationErr):
		return apierr.New(http.StatusUnprocessableEntity, "tree_invalid", err)
	case errors.As(err, &evalErr):
		return apierr.New(http.StatusBadRequest, "evaluation_failed", err)
	case errors.As(err, &draftErr):
		return apierr.New(http.StatusConflict, "tree_version_draft", err)
	case errors.As(err, &staleErr):
		return apierr.New(http.StatusConflict, "snapshot_stale", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", err)
	}
}

func RespondDomainError(c *gin.Context, err error) {
	ae := classifyDomainError(err)
	RespondError(c, apierr.Status(ae, http.StatusInternalServerError), apierr.Code(ae), ae.Err)
}
