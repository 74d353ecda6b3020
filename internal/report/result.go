package report

import "github.com/openhelio/solar-motion/internal/pipeline"

// FromResult maps a completed run into the report's input.
func FromResult(res *pipeline.Result) Data {
	regions := make([]Region, len(res.Regions))
	for i, reg := range res.Regions {
		regions[i] = Region{
			Name:         reg.Name,
			Coefficients: reg.Coefficients,
			Stats:        reg.Stats,
		}
	}
	return Data{
		GeneratedAt: res.GeneratedAt,
		Source:      res.Source,
		ShareLink:   res.ShareLink,
		Warnings:    res.Warnings,
		Regions:     regions,
		Chart:       res.ChartPNG,
		QR:          res.QR,
	}
}
