package model

// ErrorKind classifies everything that can go wrong during a pick. Errors are
// stage-scoped annotations on the outcome: apart from NoCandidates, none of
// them prevents a selection from being produced.
type ErrorKind string

const (
	ErrNoCandidates        ErrorKind = "no_candidates"
	ErrLoadError           ErrorKind = "load_error"
	ErrLocationUnavailable ErrorKind = "location_unavailable"
	ErrLocationDenied      ErrorKind = "location_permission_denied"
	ErrLocationTimeout     ErrorKind = "location_timeout"
	ErrLocationUnsupported ErrorKind = "location_unsupported"
	ErrPlaceNotFound       ErrorKind = "place_not_found"
	ErrProviderSearch      ErrorKind = "provider_error_search"
	ErrProviderDetails     ErrorKind = "provider_error_details"
	ErrProviderDistance    ErrorKind = "provider_error_distance"
	ErrUnknown             ErrorKind = "unknown"
)

// StageError attributes one user-facing error to the pipeline stage that
// produced it.
type StageError struct {
	Kind    ErrorKind `json:"kind"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
}

// Messages keyed by kind, used when a stage has nothing more specific to say.
var defaultMessages = map[ErrorKind]string{
	ErrNoCandidates:        "No restaurants match the selected criteria.",
	ErrLoadError:           "Could not load the restaurant catalog.",
	ErrLocationUnavailable: "User location not available to find nearby restaurant.",
	ErrLocationDenied:      "Geolocation permission denied. Location features disabled.",
	ErrLocationTimeout:     "The request to get user location timed out.",
	ErrLocationUnsupported: "Geolocation is not supported in this environment.",
	ErrPlaceNotFound:       "Could not find the exact location of the restaurant.",
	ErrProviderSearch:      "Could not find the exact location of the restaurant.",
	ErrProviderDetails:     "Could not load restaurant details.",
	ErrProviderDistance:    "Failed to get distance information.",
	ErrUnknown:             "An unknown error occurred.",
}

// NewStageError builds a StageError with the default message for kind.
func NewStageError(kind ErrorKind, stage string) StageError {
	msg, ok := defaultMessages[kind]
	if !ok {
		msg = defaultMessages[ErrUnknown]
	}
	return StageError{Kind: kind, Stage: stage, Message: msg}
}
