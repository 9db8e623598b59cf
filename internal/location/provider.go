package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const zippopotamBaseURL = "http://api.zippopotam.us"

// HTTPProvider resolves locations using the zippopotam.us postal API for
// city/region data and static zone and frost tables for climate data. The
// scraper, when set, refines frost dates for cities the tables cover only
// coarsely.
type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
	scraper    *FrostScraper
	year       int
}

// NewHTTPProvider creates a provider with default timeouts.
func NewHTTPProvider() *HTTPProvider {
	return &HTTPProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    zippopotamBaseURL,
		year:       time.Now().Year(),
	}
}

// SetFrostScraper attaches an optional scraper used as a secondary frost
// date source.
func (p *HTTPProvider) SetFrostScraper(s *FrostScraper) {
	p.scraper = s
}

// ResolveLocation builds a full Profile for a postal code. An unparseable
// code fails with ErrInvalidPostalCode; network failures degrade to the
// static tables rather than failing the lookup.
func (p *HTTPProvider) ResolveLocation(ctx context.Context, postalCode string) (Profile, error) {
	country, cleaned, err := DetectPostalCode(postalCode)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{PostalCode: cleaned}

	city, region, err := p.lookupPlace(ctx, country, cleaned)
	if err != nil {
		log.Printf("Warning: place lookup for %s failed, continuing without city data: %v", cleaned, err)
	} else {
		profile.City = city
		profile.Region = region
	}

	profile.USDAZone = ZoneForPostal(country, cleaned)
	profile.ClimateType = climateForZone(profile.USDAZone)

	last, first, ok := FrostWindowForZone(profile.USDAZone, p.year)
	if p.scraper != nil && profile.City != "" {
		if sLast, sFirst, err := p.scraper.FrostDates(ctx, profile.City, profile.Region); err == nil {
			last, first, ok = sLast, sFirst, true
		} else {
			log.Printf("Warning: frost scraper failed for %s, using zone table: %v", profile.City, err)
		}
	}
	if !ok {
		return Profile{}, fmt.Errorf("no frost data available for zone %q (postal %s)", profile.USDAZone, cleaned)
	}

	profile.LastFrostDate = last
	profile.FirstFrostDate = first
	profile.GrowingSeasonDays = DaysBetween(last, first)

	if err := profile.Validate(); err != nil {
		return Profile{}, fmt.Errorf("resolved profile is inconsistent: %w", err)
	}
	return profile, nil
}

// lookupPlace queries zippopotam.us for the city and region of a postal code.
func (p *HTTPProvider) lookupPlace(ctx context.Context, country, code string) (city, region string, err error) {
	// Zippopotam wants Canadian codes by their three-character prefix.
	pathCode := code
	if country == CountryCA {
		pathCode = strings.SplitN(code, " ", 2)[0]
	}

	url := fmt.Sprintf("%s/%s/%s", p.baseURL, country, pathCode)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("place lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("place lookup failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Places []struct {
			PlaceName string `json:"place name"`
			State     string `json:"state"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("failed to decode place lookup response: %w", err)
	}
	if len(payload.Places) == 0 {
		return "", "", fmt.Errorf("no places found for %s", code)
	}
	return payload.Places[0].PlaceName, payload.Places[0].State, nil
}

// ZoneForPostal estimates a USDA hardiness zone from the postal code alone.
// US zips map by their first digit, Canadian codes by their first letter.
// The mapping is coarse but always available, which keeps the catalog tier
// of planning usable with no network at all.
func ZoneForPostal(country, code string) string {
	if country == CountryCA {
		switch code[0] {
		case 'V': // BC coast
			return "8a"
		case 'T': // Alberta
			return "3b"
		case 'S', 'R': // Prairies
			return "3a"
		case 'K', 'L', 'M', 'N', 'P': // Ontario
			return "5b"
		case 'G', 'H', 'J': // Quebec
			return "4b"
		default: // Atlantic, territories
			return "5a"
		}
	}

	switch code[0] {
	case '0', '1': // Northeast
		return "6a"
	case '2': // Mid-Atlantic
		return "7a"
	case '3': // Southeast
		return "8a"
	case '4': // Midwest east
		return "5b"
	case '5': // Upper Midwest
		return "4b"
	case '6': // Central plains
		return "6b"
	case '7': // South central
		return "8a"
	case '8': // Mountain west
		return "5a"
	default: // West coast
		return "9a"
	}
}

// frostWindow is a zone's typical frost-free window expressed as
// month/day pairs.
type frostWindow struct {
	lastMonth  time.Month
	lastDay    int
	firstMonth time.Month
	firstDay   int
}

var frostWindows = map[int]frostWindow{
	3:  {time.May, 28, time.September, 10},
	4:  {time.May, 21, time.September, 25},
	5:  {time.May, 10, time.October, 5},
	6:  {time.April, 25, time.October, 15},
	7:  {time.April, 10, time.October, 30},
	8:  {time.March, 25, time.November, 15},
	9:  {time.February, 25, time.December, 1},
	10: {time.January, 30, time.December, 15},
}

// FrostWindowForZone returns the typical last and first frost dates for a
// USDA zone in the given year. The boolean reports whether the zone is
// covered by the table.
func FrostWindowForZone(zone string, year int) (last, first time.Time, ok bool) {
	n := 0
	for _, r := range zone {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	w, ok := frostWindows[n]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return Date(year, w.lastMonth, w.lastDay), Date(year, w.firstMonth, w.firstDay), true
}
