package domain

import "fmt"

// ComputeSeries converts every reading measured under region into irradiance
// using the region's calibration, preserving row order. Matching is
// case-insensitive and ignores whitespace around the region cell.
//
// Returns ErrUnknownRegion (wrapped) when the region has no table entry and
// ErrNoRegionData (wrapped) when it has an entry but no matching rows.
func (t CoefficientTable) ComputeSeries(region string, readings []Reading) (Series, error) {
	coeffs, canonical, ok := t.Lookup(region)
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	folded := foldRegion(canonical)
	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		if foldRegion(r.Region) != folded {
			continue
		}
		values = append(values, coeffs.Convert(r.ADC))
	}

	if len(values) == 0 {
		return Series{}, fmt.Errorf("%w: %q", ErrNoRegionData, canonical)
	}
	return Series{Region: canonical, Values: values}, nil
}

// Convert applies the linear calibration to one ADC sample. Results are not
// clamped: negative or >1000 W/m² values pass through unchanged.
func (c Coefficients) Convert(adc float64) float64 {
	return c.Slope*adc + c.Intercept
}
