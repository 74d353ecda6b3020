// Package domain models photovoltaic bench measurements and their conversion
// to solar irradiance.
//
// # Data Source
//
// Measurements come from a didactic solar-tracking bench: a photovoltaic
// sensor read through a microcontroller ADC while the panel sweeps the sky.
// Students export the samples as a spreadsheet (CSV or XLSX) with one row per
// sample and two relevant columns:
//
//	Regiao  - name of the calibration region the sample belongs to
//	ADC     - raw converter counts (typically a 15-bit range, 0–32767)
//
// Files are usually saved by Excel on Windows, so readers must tolerate a
// UTF-8 byte-order mark and accented headers ("Região"). Region names are
// matched case-insensitively with surrounding whitespace ignored.
//
// # Calibration
//
// Each region carries a linear calibration obtained by fitting bench readings
// against a reference pyranometer:
//
//	irradiance [W/m²] = Slope*adc + Intercept
//
// The coefficient table is fixed at build time ([DefaultTable]); regions are
// the calibration campaigns, not a free-form user input. Conversion is pure
// arithmetic: out-of-range results (negative, or above the 1000 W/m² chart
// ceiling) are kept as-is so calibration drift stays visible.
//
// # Angle Axis
//
// Sample rows carry no timestamps. The visualization assigns each row an
// apparent solar elevation angle by spreading the longest series evenly over
// 0°–180° (sunrise to sunset). A single-sample series sits at 0°.
package domain
