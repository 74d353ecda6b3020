package domain

import "errors"

var (
	// ErrUnknownRegion marks a selected region with no calibration entry.
	ErrUnknownRegion = errors.New("no calibration for region")

	// ErrNoRegionData marks a calibrated region with zero matching rows in
	// the uploaded file. Callers warn and drop the region rather than fail.
	ErrNoRegionData = errors.New("no data for region")

	// ErrNoValidRegions means every selected region was dropped; there is
	// nothing to animate and the run must fail with a user-facing message.
	ErrNoValidRegions = errors.New("no selected region has usable data")
)
