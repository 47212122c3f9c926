package duty

import (
	"errors"
	"fmt"
	"time"
)

// Settings are the tunables of a shift. All durations are expressed in
// in-game seconds except ReportSeconds, which is real time spent
// investigating a report.
type Settings struct {
	Debug bool `mapstructure:"debug"`
	// Real to in-game seconds multiplier.
	Timescale float64 `mapstructure:"timescale"`
	// Chance that a single spawn check creates an anomaly.
	Probability                float64 `mapstructure:"probability"`
	MaxAnomalies               int     `mapstructure:"max_anomalies"`
	ReportSeconds              float64 `mapstructure:"anomaly_report_time"`
	MaxSeconds                 int     `mapstructure:"max_seconds"`
	MinSecondsBetweenAnomalies int     `mapstructure:"min_seconds_between_anomalies"`
}

func DefaultSettings() Settings {
	return Settings{
		Debug:                      false,
		Timescale:                  10,
		Probability:                0.1,
		MaxAnomalies:               4,
		ReportSeconds:              5,
		MaxSeconds:                 5 * 60 * 60,
		MinSecondsBetweenAnomalies: 20 * 60,
	}
}

func (s Settings) Validate() error {
	var errs []error
	if s.Timescale <= 0 {
		errs = append(errs, fmt.Errorf("timescale must be positive, got %v", s.Timescale))
	}
	if s.Probability < 0 || s.Probability > 1 {
		errs = append(errs, fmt.Errorf("probability must be within [0,1], got %v", s.Probability))
	}
	if s.MaxAnomalies < 1 {
		errs = append(errs, fmt.Errorf("max_anomalies must be at least 1, got %d", s.MaxAnomalies))
	}
	if s.ReportSeconds < 0 {
		errs = append(errs, fmt.Errorf("anomaly_report_time must not be negative, got %v", s.ReportSeconds))
	}
	if s.MaxSeconds <= 0 {
		errs = append(errs, fmt.Errorf("max_seconds must be positive, got %d", s.MaxSeconds))
	}
	if s.MinSecondsBetweenAnomalies < 0 {
		errs = append(errs, fmt.Errorf("min_seconds_between_anomalies must not be negative, got %d", s.MinSecondsBetweenAnomalies))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSetting, errors.Join(errs...))
	}
	return nil
}

// ReportDelay is the real time an investigation takes. Partial
// seconds are dropped.
func (s Settings) ReportDelay() time.Duration {
	return time.Duration(int(s.ReportSeconds)) * time.Second
}
