package location

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FrostScraper pulls city-level frost dates out of an almanac-style HTML
// frost table. It is a best-effort secondary source; callers fall back to
// the zone tables when it fails.
type FrostScraper struct {
	httpClient *http.Client
	baseURL    string
	year       int
}

// NewFrostScraper creates a scraper against the given frost-table endpoint.
func NewFrostScraper(baseURL string) *FrostScraper {
	return &FrostScraper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		year:       time.Now().Year(),
	}
}

// FrostDates fetches the frost table for a city and parses the last spring
// frost and first fall frost columns.
func (s *FrostScraper) FrostDates(ctx context.Context, city, region string) (last, first time.Time, err error) {
	query := url.Values{}
	query.Set("city", city)
	if region != "" {
		query.Set("region", region)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("frost table request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, time.Time{}, fmt.Errorf("frost table fetch failed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse frost table html: %w", err)
	}

	wantedCity := strings.ToLower(strings.TrimSpace(city))
	found := false

	doc.Find("table.frost-dates tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return true
		}
		rowCity := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		if rowCity != wantedCity {
			return true
		}

		lastText := strings.TrimSpace(cells.Eq(1).Text())
		firstText := strings.TrimSpace(cells.Eq(2).Text())

		var perr error
		last, perr = s.parseFrostDate(lastText)
		if perr != nil {
			err = fmt.Errorf("bad last frost cell %q: %w", lastText, perr)
			return false
		}
		first, perr = s.parseFrostDate(firstText)
		if perr != nil {
			err = fmt.Errorf("bad first frost cell %q: %w", firstText, perr)
			return false
		}
		found = true
		return false
	})

	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !found {
		return time.Time{}, time.Time{}, fmt.Errorf("city %q not present in frost table", city)
	}
	return last, first, nil
}

// parseFrostDate parses a "May 10" style table cell into a calendar day of
// the scraper's year.
func (s *FrostScraper) parseFrostDate(text string) (time.Time, error) {
	t, err := time.Parse("Jan 2", text)
	if err != nil {
		t, err = time.Parse("January 2", text)
		if err != nil {
			return time.Time{}, err
		}
	}
	return Date(s.year, t.Month(), t.Day()), nil
}
