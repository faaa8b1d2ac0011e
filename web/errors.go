package web

import "errors"

// The gateway's whole error taxonomy: a malformed WebFinger resource, and
// everything else. Unknown handles, protected accounts, domain mismatches and
// deleted posts all collapse into ErrNotFound so none of them is
// distinguishable from the outside.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidResource = errors.New("invalid webfinger resource")
)

func NotFoundBody() string {
	return `{"detail":"Not Found"}`
}

func BadRequestBody() string {
	return `{"detail":"Bad Request"}`
}
