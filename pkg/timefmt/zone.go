package timefmt

import (
	"fmt"
	"time"
)

// LoadZone resolves an IANA zone identifier, e.g. "America/New_York".
func LoadZone(id string) (*time.Location, error) {
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", id, err)
	}
	return loc, nil
}

// ToBusinessLocal converts an instant to wall-clock time in the business zone.
// All stored booking times are business-local; capacity keys are always
// derived from this representation.
func ToBusinessLocal(instant time.Time, businessTz string) (time.Time, error) {
	loc, err := LoadZone(businessTz)
	if err != nil {
		return time.Time{}, err
	}
	return instant.In(loc), nil
}

// ToViewerLocal converts an instant to wall-clock time in the viewer's zone.
// Display only; never used to recompute capacity keys.
func ToViewerLocal(instant time.Time, viewerTz string) (time.Time, error) {
	loc, err := LoadZone(viewerTz)
	if err != nil {
		return time.Time{}, err
	}
	return instant.In(loc), nil
}
