package errs

import "errors"

// Error kinds surfaced by the negotiation engine. Operation-specific sentinels
// are marked with one of these so the handler layer can map them to transport
// codes without knowing every sentinel.
var (
	// ErrNotFound: a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation: malformed or contradictory input.
	ErrValidation = errors.New("validation error")

	// ErrAuthorization: the actor lacks permission for the requested action.
	ErrAuthorization = errors.New("authorization error")

	// ErrConflict: current state does not permit the requested transition.
	ErrConflict = errors.New("conflict")

	// ErrInternal: persistence or infrastructure failure, distinct from the
	// four domain kinds above.
	ErrInternal = errors.New("internal error")
)
