package billing

import "errors"

var (
	ErrMergeFailed = errors.New("billing: failed to merge entitlement document")
	ErrClaimFailed = errors.New("billing: failed to claim webhook event")
)
