package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDomain is returned when the input is not a plain "label.tld" domain.
	ErrInvalidDomain = errors.New("invalid domain format")

	// ErrFetchFailed is returned when any provider call or pagination step fails.
	// The engine wraps the underlying ProviderError with it.
	ErrFetchFailed = errors.New("failed to fetch domain metrics")

	// ErrProviderStatus is returned when a provider answers with a non-2xx status.
	ErrProviderStatus = errors.New("unexpected provider status")

	// ErrMalformedResponse is returned when a provider body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrSubmissionInFlight is returned by the web consumer when the same domain
	// is resubmitted while the previous submission is still loading.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// FetchFailedMessage is the single user-facing message recorded on any fetch failure.
const FetchFailedMessage = "An error occurred while fetching data. Please try again."

// ProviderError records which provider failed. It is kept for diagnostics and
// never surfaces in the user-facing message.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
