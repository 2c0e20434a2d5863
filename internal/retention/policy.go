package retention

import (
	"fmt"
	"time"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/store"
)

// Retention windows of the reference client, in calendar days.
const (
	// DefaultDataDays covers the incubation-period matching window.
	DefaultDataDays = 21

	// DefaultExposureDays is how long exposure history stays visible.
	DefaultExposureDays = 10
)

// Policy holds the retention windows. Windows count calendar days including
// today: a window of 1 keeps only today's rows.
type Policy struct {
	// DataDays applies to handshakes, contacts and known cases.
	DataDays int `toml:"data_days" json:"data_days" yaml:"data_days"`

	// ExposureDays applies to exposure days.
	ExposureDays int `toml:"exposure_days" json:"exposure_days" yaml:"exposure_days"`
}

// DefaultPolicy returns the reference client's windows.
func DefaultPolicy() Policy {
	return Policy{DataDays: DefaultDataDays, ExposureDays: DefaultExposureDays}
}

// Validate rejects windows shorter than one day.
func (p Policy) Validate() error {
	if p.DataDays < 1 {
		return fmt.Errorf("data retention must be at least 1 day, got %d", p.DataDays)
	}
	if p.ExposureDays < 1 {
		return fmt.Errorf("exposure retention must be at least 1 day, got %d", p.ExposureDays)
	}
	return nil
}

// Cutoffs computes the first day to keep for each table from the UTC day of
// now. All cutoffs derive from the same day, so one sweep is consistent
// across tables. A row dated on the cutoff day is kept; anything earlier is
// deleted.
func (p Policy) Cutoffs(now time.Time) store.Cutoffs {
	today := ir.DayFromTime(now)
	data := today.AddDays(-(p.DataDays - 1))
	exposure := today.AddDays(-(p.ExposureDays - 1))
	return store.Cutoffs{
		Handshakes:   data,
		Contacts:     data,
		KnownCases:   data,
		ExposureDays: exposure,
	}
}
