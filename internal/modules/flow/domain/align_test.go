package domain_test

import (
	"testing"

	"rsoc/internal/modules/flow/domain"
	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	"rsoc/internal/platform/geometry"
)

func TestAlignmentOffsetScreen1CenterToCenter(t *testing.T) {
	t.Parallel()
	affordance := geometry.Rect{X: 100, Y: 500, Width: 200, Height: 50}
	element := geometry.Rect{X: 50, Y: 480, Width: 100, Height: 40}

	off, ok := domain.AlignmentOffset(sessiondomain.Screen1, affordance, element)
	if !ok {
		t.Fatalf("screen1 must align")
	}
	if off.DX != 100 || off.DY != 25 {
		t.Fatalf("offset = (%v, %v), want (100, 25)", off.DX, off.DY)
	}
	// The translated element center lands on the affordance center.
	if got := element.Translate(off).Center(); got != affordance.Center() {
		t.Fatalf("translated center = %v, want %v", got, affordance.Center())
	}
}

func TestAlignmentOffsetScreen2VerticalOnly(t *testing.T) {
	t.Parallel()
	// Affordance center y = 600; element y = 50.
	affordance := geometry.Rect{X: 0, Y: 575, Width: 300, Height: 50}
	element := geometry.Rect{X: 10, Y: 50, Width: 280, Height: 60}

	off, ok := domain.AlignmentOffset(sessiondomain.Screen2, affordance, element)
	if !ok {
		t.Fatalf("screen2 must align")
	}
	if off.DX != 0 {
		t.Fatalf("screen2 offset is vertical-only, dx = %v", off.DX)
	}
	if off.DY != 350 {
		t.Fatalf("dy = %v, want 600-200-50 = 350", off.DY)
	}
}

func TestAlignmentOffsetSponsorIsNoOp(t *testing.T) {
	t.Parallel()
	_, ok := domain.AlignmentOffset(sessiondomain.Sponsor, geometry.Rect{}, geometry.Rect{})
	if ok {
		t.Fatalf("sponsor screen has no alignment target")
	}
}
