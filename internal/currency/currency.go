package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

var ErrRateUnavailable = errors.New("currency: exchange rate unavailable")

// Converter holds the cached USD→RUB rate. The rate is fetched once at
// startup and refreshed on a schedule; conversions never trigger a network
// call.
type Converter struct {
	url    string
	client *http.Client

	mu   sync.RWMutex
	rate float64 // rubles per dollar
}

func NewConverter(rateURL string, timeout time.Duration) *Converter {
	return &Converter{
		url:    rateURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Refresh fetches the current rate. The endpoint returns rates keyed by
// currency code; RUB against a USD base is the one we keep.
func (c *Converter) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("could not build rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rate endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("could not decode rate response: %w", err)
	}

	rate := payload.Rates["RUB"]
	if rate <= 0 {
		return fmt.Errorf("%w: no RUB rate in response", ErrRateUnavailable)
	}

	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()

	return nil
}

func (c *Converter) Rate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// ToUSD converts a ruble amount using the cached rate. Converting before
// the first successful Refresh is an error, not a division by zero.
func (c *Converter) ToUSD(rubles float64) (float64, error) {
	rate := c.Rate()
	if rate <= 0 {
		return 0, ErrRateUnavailable
	}
	return rubles / rate, nil
}

// ToUSDDisplay renders the converted amount rounded to whole dollars, with
// thousands grouped by spaces and a dollar suffix, e.g. "1 234 $".
func (c *Converter) ToUSDDisplay(rubles float64) (string, error) {
	usd, err := c.ToUSD(rubles)
	if err != nil {
		return "", err
	}
	return groupThousands(int64(math.Round(usd))) + " $", nil
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)

	out := groups[0]
	for _, g := range groups[1:] {
		out += " " + g
	}
	return sign + out
}
