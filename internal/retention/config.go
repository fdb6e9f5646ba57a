package retention

import "repair-insights-go/internal/catalog"

// Config holds the tunable constants of the engine.
type Config struct {
	// ChurnScale multiplies the cycle before the recency ratio is taken.
	ChurnScale float64
	// ChurnCenter is the ratio at which churn crosses 0.5.
	ChurnCenter float64
	MinChurn    float64
	MaxChurn    float64
	NewChurnCap float64

	CLVMultiplier float64
	// WindowMonths is the half-width of the next-visit window.
	WindowMonths int

	// ChurnRiskThreshold and ListLimit shape the overview lists.
	ChurnRiskThreshold float64
	ListLimit          int

	// Durability supplies the cycle for customers seen on a single day.
	Durability catalog.Durability
}

func DefaultConfig() Config {
	return Config{
		ChurnScale:         1,
		ChurnCenter:        2,
		MinChurn:           0.01,
		MaxChurn:           0.99,
		NewChurnCap:        0.2,
		CLVMultiplier:      1.2,
		WindowMonths:       1,
		ChurnRiskThreshold: 0.6,
		ListLimit:          20,
		Durability:         catalog.Default().Durability,
	}
}
