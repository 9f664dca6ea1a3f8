package domain

import "fmt"

// Metric names a leaderboard measure
type Metric string

const (
	MetricXP            Metric = "xp"
	MetricRounds        Metric = "rounds"
	MetricPracticeHours Metric = "practice"
	MetricDrills        Metric = "drills"
	MetricLibrary       Metric = "library"
	MetricLowGross      Metric = "lowGross"
	MetricLowNett       Metric = "lowNett"
	MetricBirdies       Metric = "birdies"
	MetricEagles        Metric = "eagles"
)

var AllMetrics = []Metric{
	MetricXP,
	MetricRounds,
	MetricPracticeHours,
	MetricDrills,
	MetricLibrary,
	MetricLowGross,
	MetricLowNett,
	MetricBirdies,
	MetricEagles,
}

func MetricFromString(raw string) (Metric, error) {
	for _, metric := range AllMetrics {
		if Metric(raw) == metric {
			return metric, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, raw)
}

// SortsAscending is true for score metrics where lower is better.
func (m Metric) SortsAscending() bool {
	return m == MetricLowGross || m == MetricLowNett
}
