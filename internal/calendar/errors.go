package calendar

import "errors"

// Generation failures. Any of these rejects the whole generated batch.
var (
	ErrInvalidMonth          = errors.New("invalid target month")
	ErrGenerationUnavailable = errors.New("calendar generation unavailable")
	ErrMalformedResponse     = errors.New("malformed generation response")
	ErrInvalidDate           = errors.New("invalid post date")
	ErrInvalidPlatform       = errors.New("invalid post platform")
	ErrInvalidContentType    = errors.New("invalid post content type")
	ErrDescriptionTooLong    = errors.New("post description too long")
	ErrCallToActionTooLong   = errors.New("post call to action too long")
)
