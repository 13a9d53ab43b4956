package scoring

import "wellscreen/internal/model"

// Classify maps a normalized percentage to a severity band. Bands have closed
// lower bounds: a score sitting exactly on a threshold belongs to the higher
// band.
func Classify(percentage float64) model.Band {
	switch {
	case percentage >= 75:
		return model.BandHigh
	case percentage >= 50:
		return model.BandElevated
	case percentage >= 25:
		return model.BandMedium
	default:
		return model.BandLow
	}
}
