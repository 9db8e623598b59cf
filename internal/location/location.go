package location

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidPostalCode reports a postal/zip code that is neither a US zip
// code nor a Canadian postal code.
var ErrInvalidPostalCode = errors.New("invalid postal code")

// Climate is a coarse climate classification derived from the USDA zone.
type Climate string

const (
	ClimateCold        Climate = "cold"
	ClimateTemperate   Climate = "temperate"
	ClimateWarm        Climate = "warm"
	ClimateSubtropical Climate = "subtropical"
)

// Profile is the resolved climate and frost data for a garden's location.
// Dates are calendar days stored as UTC midnights.
type Profile struct {
	PostalCode        string    `json:"postal_code"`
	City              string    `json:"city,omitempty"`
	Region            string    `json:"region,omitempty"`
	USDAZone          string    `json:"usda_zone,omitempty"`
	LastFrostDate     time.Time `json:"last_frost_date"`
	FirstFrostDate    time.Time `json:"first_frost_date"`
	GrowingSeasonDays int       `json:"growing_season_days"`
	ClimateType       Climate   `json:"climate_type,omitempty"`
}

// Validate checks the frost-window invariants. Every profile consumed by
// the synthesizer must pass before any schedule is computed.
func (p Profile) Validate() error {
	if p.LastFrostDate.IsZero() || p.FirstFrostDate.IsZero() {
		return fmt.Errorf("location %s: missing frost dates", p.PostalCode)
	}
	if !p.LastFrostDate.Before(p.FirstFrostDate) {
		return fmt.Errorf("location %s: last frost %s must precede first frost %s",
			p.PostalCode, p.LastFrostDate.Format("2006-01-02"), p.FirstFrostDate.Format("2006-01-02"))
	}
	if days := DaysBetween(p.LastFrostDate, p.FirstFrostDate); days != p.GrowingSeasonDays {
		return fmt.Errorf("location %s: growing_season_days is %d but frost window spans %d days",
			p.PostalCode, p.GrowingSeasonDays, days)
	}
	return nil
}

// Provider resolves a postal code into a full climate profile.
type Provider interface {
	ResolveLocation(ctx context.Context, postalCode string) (Profile, error)
}

// Date builds a calendar day as a UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the calendar-day count from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

var (
	usZipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	canadianPattern = regexp.MustCompile(`^[A-Z]\d[A-Z]\d[A-Z]\d$`)
)

// Country codes returned by DetectPostalCode.
const (
	CountryUS = "us"
	CountryCA = "ca"
)

// DetectPostalCode classifies a postal code as US or Canadian and returns
// its cleaned canonical form. Canadian codes are reformatted with the
// standard interior space ("K1A 0A6"); US zips are trimmed to five digits.
func DetectPostalCode(postalCode string) (country, cleaned string, err error) {
	trimmed := strings.TrimSpace(postalCode)
	compact := strings.ToUpper(strings.ReplaceAll(trimmed, " ", ""))

	if canadianPattern.MatchString(compact) {
		return CountryCA, compact[:3] + " " + compact[3:], nil
	}
	if usZipPattern.MatchString(trimmed) {
		return CountryUS, trimmed[:5], nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidPostalCode, postalCode)
}

// climateForZone maps a USDA zone like "7b" onto a coarse climate type.
func climateForZone(zone string) Climate {
	n := 0
	for _, r := range zone {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	switch {
	case n == 0:
		return ClimateTemperate
	case n <= 4:
		return ClimateCold
	case n <= 7:
		return ClimateTemperate
	case n <= 9:
		return ClimateWarm
	default:
		return ClimateSubtropical
	}
}
