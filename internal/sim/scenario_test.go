package sim_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	"rsoc/internal/platform/geometry"
	"rsoc/internal/sim"
)

func TestHappyPathEmitsFullEventTrail(t *testing.T) {
	t.Parallel()
	result := sim.Run(sim.DefaultScenario())

	if !result.PreloadOK {
		t.Fatalf("preload must succeed")
	}
	if !result.Completed {
		t.Fatalf("flow must complete")
	}
	want := []string{
		"screen1-view",
		"screen2-view",
		"sponsor-load-view",
		"payment-popup-close",
		"sponsor-page-visible",
	}
	if len(result.Events) != len(want) {
		t.Fatalf("events = %v, want %v", result.Events, want)
	}
	for i := range want {
		if result.Events[i] != want[i] {
			t.Fatalf("events[%d] = %q, want %q", i, result.Events[i], want[i])
		}
	}
	transcript := strings.Join(result.Transcript, "\n")
	if !strings.Contains(transcript, "overlay revealed") {
		t.Fatalf("transcript missing alignment:\n%s", transcript)
	}
	if !strings.Contains(transcript, "sponsor countdown 00:00") {
		t.Fatalf("transcript missing countdown expiry:\n%s", transcript)
	}
}

func TestSilentScreen2LinkFallsBackAndSkipsSponsor(t *testing.T) {
	t.Parallel()
	s := sim.DefaultScenario()
	s.Pages.SilentScreen2Link = true
	result := sim.Run(s)

	if !result.Completed {
		t.Fatalf("flow must complete on the fallback path")
	}
	for _, e := range result.Events {
		if e == "sponsor-page-visible" {
			t.Fatalf("unverified handoff must suppress the sponsor page, events = %v", result.Events)
		}
	}
	joined := strings.Join(result.Events, ",")
	if !strings.Contains(joined, "sponsor-load-view") || !strings.Contains(joined, "payment-popup-close") {
		t.Fatalf("events = %v", result.Events)
	}
}

func TestLoadFailureStillCompletesJourney(t *testing.T) {
	t.Parallel()
	s := sim.DefaultScenario()
	s.Pages.LoadErr = errors.New("blocked by network policy")
	result := sim.Run(s)

	if result.PreloadOK {
		t.Fatalf("preload must report failure")
	}
	if !result.Completed {
		t.Fatalf("host journey must complete regardless")
	}
	if len(result.Events) != 1 || result.Events[0] != "payment-popup-close" {
		t.Fatalf("events = %v, want only payment-popup-close", result.Events)
	}
}

func TestMissingElementDisablesOverlayInSim(t *testing.T) {
	t.Parallel()
	s := sim.DefaultScenario()
	s.Pages.Rects = map[sessiondomain.Screen]*geometry.Rect{}
	result := sim.Run(s)

	if !result.Completed {
		t.Fatalf("flow must complete")
	}
	transcript := strings.Join(result.Transcript, "\n")
	if strings.Contains(transcript, "overlay revealed") {
		t.Fatalf("overlay must stay hidden without the element:\n%s", transcript)
	}
	for _, e := range result.Events {
		if e == "screen2-view" {
			t.Fatalf("disabled overlay must not advance screens, events = %v", result.Events)
		}
	}
}

func TestSlowLoadTimesOut(t *testing.T) {
	t.Parallel()
	s := sim.DefaultScenario()
	s.Pages.LoadDelay = time.Minute
	result := sim.Run(s)

	if result.PreloadOK {
		t.Fatalf("load past the timeout must fail the preload")
	}
	if len(result.Events) != 1 || result.Events[0] != "payment-popup-close" {
		t.Fatalf("events = %v", result.Events)
	}
	if !result.Completed {
		t.Fatalf("host journey must complete")
	}
}
