package models

// ChartType selects the trade value chart used to price picks.
type ChartType string

const (
	ChartTypeJimmyJohnson ChartType = "JIMMY_JOHNSON"
	ChartTypeLinear       ChartType = "LINEAR"
)
