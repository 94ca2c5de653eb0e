package appointment

import "errors"

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceInactive  = errors.New("service is not bookable")
	ErrClientRequired   = errors.New("client is required")
	ErrClientInvalid    = errors.New("client must be an existing client-role user")
	ErrStaffInvalid     = errors.New("staff must belong to the appointment's organization")
	ErrInvalidStatus    = errors.New("unknown appointment status")
	ErrDateTimeRequired = errors.New("appointment date and time are required")
)
