package domain_test

import (
	"testing"
	"time"

	"rsoc/internal/modules/sponsor/domain"
)

func TestNewDefaultsAndClamps(t *testing.T) {
	t.Parallel()
	if got := domain.New(0).Remaining(); got != domain.DefaultDuration {
		t.Fatalf("zero duration must default, got %v", got)
	}
	if got := domain.New(-time.Second).Remaining(); got != domain.DefaultDuration {
		t.Fatalf("negative duration must default, got %v", got)
	}
	if got := domain.New(5 * time.Second).Remaining(); got != 5*time.Second {
		t.Fatalf("remaining = %v, want 5s", got)
	}
}

func TestTickFlooredAtZero(t *testing.T) {
	t.Parallel()
	c := domain.New(2 * time.Second)
	c = c.Tick()
	if c.Done() {
		t.Fatalf("done after one tick of two")
	}
	c = c.Tick()
	if !c.Done() {
		t.Fatalf("not done after two ticks of two")
	}
	if got := c.Tick().Remaining(); got != 0 {
		t.Fatalf("tick past zero must stay at zero, got %v", got)
	}
}

func TestLabelFormat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "00:30"},
		{90 * time.Second, "01:30"},
		{10 * time.Minute, "10:00"},
		{time.Second, "00:01"},
	}
	for _, tc := range cases {
		if got := domain.New(tc.d).Label(); got != tc.want {
			t.Fatalf("Label(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
	zero := domain.New(time.Second).Tick()
	if got := zero.Label(); got != "00:00" {
		t.Fatalf("expired label = %q, want 00:00", got)
	}
}

func TestFormatTemplate(t *testing.T) {
	t.Parallel()
	c := domain.New(90 * time.Second)
	if got := c.Format("%dm %ds"); got != "1m 30s" {
		t.Fatalf("Format = %q, want 1m 30s", got)
	}
	if got := c.Format(domain.DefaultLabelFormat); got != c.Label() {
		t.Fatalf("default template must match Label, got %q vs %q", got, c.Label())
	}
}
