package pricing

import (
	stderrors "errors"

	"github.com/aws/smithy-go"

	"migration-cost/internal/errors"
)

// Error codes that no amount of degradation helps with: the run's
// credentials or configuration are wrong, so every subsequent call would
// fail the same way.
var fatalErrorCodes = map[string]bool{
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"AccessDeniedException":       true,
	"AccessDenied":                true,
	"ExpiredTokenException":       true,
	"ExpiredToken":                true,
	"UnauthorizedOperation":       true,
	"AuthFailure":                 true,
}

// classify sorts a transport error into the fatal auth bucket or the
// per-call pricing bucket. Callers treat the latter as "unavailable".
func classify(err error) error {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) && fatalErrorCodes[apiErr.ErrorCode()] {
		return errors.Auth("price source rejected the request", err)
	}
	return errors.Pricing("price source call failed", err)
}
