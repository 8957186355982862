/*
Package errs provides the application's custom error type and error code constants.

These codes identify specific business or system errors both inside the server
and in payloads sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request or event parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that a JSON body or payload could not be parsed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat Room Business Logic Errors
const (
	// ErrInvalidName indicates a display name that is empty after normalization.
	ErrInvalidName = 2001

	// ErrUnauthorized indicates an action attempted without an active session,
	// such as sending a message before joining the room.
	ErrUnauthorized = 2002

	// ErrSessionKicked indicates the session was rebound to a newer connection.
	ErrSessionKicked = 2003

	// ErrResponderUnavailable indicates the AI assistant failed to produce a reply.
	ErrResponderUnavailable = 2004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
