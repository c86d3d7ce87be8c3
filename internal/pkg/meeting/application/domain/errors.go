package meeting

import (
	"errors"
	"fmt"
)

// Error taxonomy for lifecycle operations. Handlers map these to HTTP codes;
// use cases wrap the specific variants below so errors.Is works against both
// the variant and its category.
var (
	ErrUnauthorized = errors.New("meeting: unauthorized")
	ErrForbidden    = errors.New("meeting: forbidden")
	ErrValidation   = errors.New("meeting: invalid input")
	ErrNotFound     = errors.New("meeting: not found")
	ErrConflict     = errors.New("meeting: conflict")
	ErrRateLimited  = errors.New("meeting: rate limited")
)

var (
	ErrMeetingEnded   = fmt.Errorf("%w: meeting has ended", ErrConflict)
	ErrAlreadyLeft    = fmt.Errorf("%w: participant has already left", ErrConflict)
	ErrDuplicateEmail = fmt.Errorf("%w: email is already whitelisted", ErrConflict)
	ErrEmailNotListed = fmt.Errorf("%w: email is not whitelisted", ErrNotFound)
	ErrInvalidEmail   = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrNotParticipant = fmt.Errorf("%w: user is not a participant in this meeting", ErrForbidden)
)
