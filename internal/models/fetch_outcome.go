package models

// FetchStatus classifies the result of fetching a target.
type FetchStatus int

const (
	// FetchSuccess means the content was retrieved with a 2xx response.
	FetchSuccess FetchStatus = iota
	// FetchAuthRequired means the target rejected the current session and
	// re-authentication should be attempted.
	FetchAuthRequired
	// FetchTransientFailure covers network errors, timeouts and server-side
	// failures that are expected to resolve on a later tick.
	FetchTransientFailure
	// FetchPermanentFailure covers unrecoverable conditions such as a
	// malformed URL or a login flow that keeps failing.
	FetchPermanentFailure
)

// String returns the status name used in logs and notifications.
func (s FetchStatus) String() string {
	switch s {
	case FetchSuccess:
		return "success"
	case FetchAuthRequired:
		return "auth_required"
	case FetchTransientFailure:
		return "transient_failure"
	case FetchPermanentFailure:
		return "permanent_failure"
	default:
		return "unknown"
	}
}

// FetchOutcome is the tagged result of a fetch attempt. Content fields are
// only meaningful when Status is FetchSuccess.
type FetchOutcome struct {
	Status      FetchStatus
	Content     []byte
	ContentType string
	StatusCode  int
	Reason      string
}

// NewFetchSuccess builds a successful outcome.
func NewFetchSuccess(content []byte, contentType string, statusCode int) FetchOutcome {
	return FetchOutcome{
		Status:      FetchSuccess,
		Content:     content,
		ContentType: contentType,
		StatusCode:  statusCode,
	}
}

// NewFetchAuthRequired builds an outcome signalling that re-authentication is needed.
func NewFetchAuthRequired(statusCode int, reason string) FetchOutcome {
	return FetchOutcome{Status: FetchAuthRequired, StatusCode: statusCode, Reason: reason}
}

// NewFetchTransientFailure builds a retryable failure outcome.
func NewFetchTransientFailure(statusCode int, reason string) FetchOutcome {
	return FetchOutcome{Status: FetchTransientFailure, StatusCode: statusCode, Reason: reason}
}

// NewFetchPermanentFailure builds an unrecoverable failure outcome.
func NewFetchPermanentFailure(reason string) FetchOutcome {
	return FetchOutcome{Status: FetchPermanentFailure, Reason: reason}
}
