package valuechart

import (
	"math"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/models"
)

// DefaultFairnessThresholdPercent is the maximum relative point-value gap
// allowed between the two sides of a trade.
const DefaultFairnessThresholdPercent = 15.0

// Chart maps an overall pick number to a trade point value. Charts are
// stateless; resolve one per proposal and treat it as pure.
type Chart interface {
	// CalculatePickValue returns the point value of an overall pick number.
	CalculatePickValue(overallPick int) float64
	// IsTradeFair reports whether the gap between the two side totals is
	// within thresholdPercent of the larger side.
	IsTradeFair(valueA, valueB, thresholdPercent float64) bool
	// Name identifies the chart.
	Name() string
}

// Resolve returns the chart for a chart type.
func Resolve(chartType models.ChartType) (Chart, error) {
	switch chartType {
	case models.ChartTypeJimmyJohnson, "":
		return JimmyJohnson{}, nil
	case models.ChartTypeLinear:
		return Linear{}, nil
	default:
		return nil, apperr.NewNotFound("unknown chart type %q", chartType)
	}
}

// isTradeFair is shared by all charts: the gap is measured relative to the
// larger side so a lopsided offer cannot shrink its own denominator.
func isTradeFair(valueA, valueB, thresholdPercent float64) bool {
	larger := math.Max(valueA, valueB)
	if larger == 0 {
		return true
	}
	gap := math.Abs(valueA-valueB) / larger * 100
	return gap <= thresholdPercent
}
