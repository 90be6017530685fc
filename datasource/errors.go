package datasource

import "fmt"

// ErrorReason classifies a data source failure the way it is reported to the
// runtime. The values travel verbatim in error payloads, so they are part of
// the wire contract and must not be renamed.
type ErrorReason string

const (
	// ErrorInternal covers malformed payloads, duplicate binds and gap
	// violations that indicate a host-side bug rather than a transient
	// condition.
	ErrorInternal ErrorReason = "INTERNAL_ERROR"

	// ErrorInvalidListID is reported when an update names a list that is
	// not bound and cannot be recovered through a correlation token.
	ErrorInvalidListID ErrorReason = "INVALID_LIST_ID"

	// ErrorInconsistentListID is reported when a correlation token is
	// recognized but the payload names a different list than the request
	// that issued the token.
	ErrorInconsistentListID ErrorReason = "INCONSISTENT_LIST_ID"

	// ErrorMissingListItems is reported when a lazy load response carries
	// no items. The request stays outstanding and is retried until the
	// retry budget runs out.
	ErrorMissingListItems ErrorReason = "MISSING_LIST_ITEMS"

	// ErrorLoadTimeout is reported once per request, after the last retry
	// has also gone unanswered.
	ErrorLoadTimeout ErrorReason = "LOAD_TIMEOUT"

	// ErrorInvalidOperation is reported by index-addressed sources when a
	// directive names an index outside the loaded range.
	ErrorInvalidOperation ErrorReason = "INVALID_OPERATION"

	// ErrorMissingListVersion is reported by index-addressed sources when
	// a directive payload carries no version, or a cached out-of-order
	// update expired before its predecessor arrived.
	ErrorMissingListVersion ErrorReason = "MISSING_LIST_VERSION"

	// ErrorDuplicateListVersion is reported when a directive payload
	// replays a version that has already been applied.
	ErrorDuplicateListVersion ErrorReason = "DUPLICATE_LIST_VERSION"
)

// Error describes one failed interaction with a data source. Errors are
// queued on the provider and handed to the host in batches; they never abort
// processing of unrelated lists.
type Error struct {
	Reason ErrorReason
	ListID string

	// ListVersion is set for index-addressed version conflicts.
	ListVersion *int

	// OperationIndex is set when a single directive inside an update was
	// rejected; it is the position of that directive in the payload.
	OperationIndex *int

	Message string
}

func (e Error) Error() string {
	if e.ListID == "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Reason, e.ListID, e.Message)
}

// errorQueue accumulates errors until the host drains them. All access is
// single-threaded through the owning provider.
type errorQueue struct {
	pending []Error
}

func (q *errorQueue) report(reason ErrorReason, listID, format string, args ...any) {
	q.pending = append(q.pending, Error{
		Reason:  reason,
		ListID:  listID,
		Message: fmt.Sprintf(format, args...),
	})
}

func (q *errorQueue) add(err Error) {
	q.pending = append(q.pending, err)
}

// take returns the queued errors and clears the queue.
func (q *errorQueue) take() []Error {
	errs := q.pending
	q.pending = nil
	return errs
}

func (q *errorQueue) empty() bool {
	return len(q.pending) == 0
}
