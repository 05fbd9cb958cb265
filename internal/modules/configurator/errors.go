package configurator

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports malformed graph structure (dangling edges,
// containment cycles, orphaned questions, undecodable authoring payloads).
// Not recoverable by the caller; the authoring data must be fixed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid option tree: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// EvaluationError reports bad evaluation input: a selection referencing an
// unknown node or choice, or a malformed child-item effect. Surfaced to the
// caller as a rejected request.
type EvaluationError struct {
	Reason string
}

func (e *EvaluationError) Error() string {
	return "configuration evaluation failed: " + e.Reason
}

func evaluationErrorf(format string, args ...any) *EvaluationError {
	return &EvaluationError{Reason: fmt.Sprintf(format, args...)}
}

// DraftTreeError reports an attempt to price or accept components against a
// DRAFT tree version. Draft trees are preview-only.
type DraftTreeError struct {
	TreeVersionID uuid.UUID
}

func (e *DraftTreeError) Error() string {
	return fmt.Sprintf("option tree version %s is a draft and cannot price a persisted order line", e.TreeVersionID)
}

// StalenessError reports a snapshot whose signature no longer matches the
// line item's live inputs. The caller must recompute before retrying.
type StalenessError struct {
	StoredSignature  string
	CurrentSignature string
}

func (e *StalenessError) Error() string {
	return fmt.Sprintf("configuration snapshot is stale (stored %.12s..., current %.12s...): recompute before applying components",
		e.StoredSignature, e.CurrentSignature)
}
