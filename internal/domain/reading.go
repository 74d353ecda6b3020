package domain

// Reading is one parsed spreadsheet row: a raw ADC sample tagged with the
// region it was measured under. Region keeps the cell's spelling (trimmed);
// matching against the table folds case later.
type Reading struct {
	Region string  `json:"region"`
	ADC    float64 `json:"adc"`
}

// Series is the irradiance curve computed for one region, in input row order.
// Region holds the canonical table spelling regardless of how rows were cased.
type Series struct {
	Region string    `json:"region"`
	Values []float64 `json:"values"`
}
