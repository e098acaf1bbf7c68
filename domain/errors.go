package domain

import "errors"

// Pipeline error taxonomy. Every member is terminal for the current run;
// recovery is a full reset. Wrap with fmt.Errorf("%w: ...") so call sites
// can match with errors.Is while the message travels verbatim to the
// error state.
var (
	ErrSegmentationFailed    = errors.New("segmentation failed")
	ErrGenerationStartFailed = errors.New("video generation could not be started")
	ErrGenerationPollFailed  = errors.New("polling video generation failed")
	ErrGenerationTimedOut    = errors.New("video generation timed out")
	ErrGenerationFailed      = errors.New("video generation failed")
	ErrGenerationNoResult    = errors.New("video generation returned no result")
	ErrDownloadFailed        = errors.New("video download failed")
	ErrMissingCredential     = errors.New("GENAI_API_KEY is not set")
)
