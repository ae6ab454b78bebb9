package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rateServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConvertBeforeRefreshFails(t *testing.T) {
	c := NewConverter("http://unused.invalid", time.Second)

	if _, err := c.ToUSD(1000); !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
	if _, err := c.ToUSDDisplay(1000); !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestRefreshAndConvert(t *testing.T) {
	srv := rateServer(t, `{"base":"USD","rates":{"RUB":80,"EUR":0.9}}`)
	c := NewConverter(srv.URL, time.Second)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := c.Rate(); got != 80 {
		t.Fatalf("rate = %v, want 80", got)
	}

	usd, err := c.ToUSD(8000)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if usd != 100 {
		t.Fatalf("8000 rub = %v usd, want 100", usd)
	}
}

func TestDisplayGroupsThousands(t *testing.T) {
	srv := rateServer(t, `{"rates":{"RUB":80}}`)
	c := NewConverter(srv.URL, time.Second)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	cases := []struct {
		rubles float64
		want   string
	}{
		{8000, "100 $"},
		{98720, "1 234 $"},
		{80, "1 $"},
		{100_000_000, "1 250 000 $"},
	}
	for _, c2 := range cases {
		got, err := c.ToUSDDisplay(c2.rubles)
		if err != nil {
			t.Fatalf("display %v: %v", c2.rubles, err)
		}
		if got != c2.want {
			t.Fatalf("display %v = %q, want %q", c2.rubles, got, c2.want)
		}
	}
}

func TestRefreshRejectsMissingRate(t *testing.T) {
	srv := rateServer(t, `{"rates":{"EUR":0.9}}`)
	c := NewConverter(srv.URL, time.Second)

	if err := c.Refresh(context.Background()); !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestRefreshRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewConverter(srv.URL, time.Second)
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestRefreshKeepsOldRateOnFailure(t *testing.T) {
	good := rateServer(t, `{"rates":{"RUB":75}}`)
	c := NewConverter(good.URL, time.Second)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	bad := rateServer(t, `not json`)
	c.url = bad.URL
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
	if got := c.Rate(); got != 75 {
		t.Fatalf("failed refresh clobbered the cached rate: %v", got)
	}
}
