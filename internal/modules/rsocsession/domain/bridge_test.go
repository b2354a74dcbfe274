package domain_test

import (
	"strings"
	"testing"

	"rsoc/internal/modules/rsocsession/domain"
	"rsoc/internal/platform/geometry"
)

func TestParseElementRectRoundTrip(t *testing.T) {
	t.Parallel()
	want := geometry.Rect{X: 50, Y: 480, Width: 100, Height: 40}

	rect, ok := domain.ParseElementRect(domain.ElementRectMessage(want))
	if !ok {
		t.Fatalf("well-formed message must parse")
	}
	if rect == nil || *rect != want {
		t.Fatalf("rect = %v, want %v", rect, want)
	}
}

func TestParseElementRectErrorSentinel(t *testing.T) {
	t.Parallel()
	rect, ok := domain.ParseElementRect(domain.ElementNotFoundMessage())
	if !ok {
		t.Fatalf("error sentinel is a recognized message")
	}
	if rect != nil {
		t.Fatalf("error sentinel must resolve to nil rect, got %v", rect)
	}
}

func TestParseElementRectIgnoresForeignShapes(t *testing.T) {
	t.Parallel()
	for _, payload := range []string{
		`not json`,
		`{"type":"somethingElse","x":1}`,
		`{"type":"elementRect","x":1,"y":2}`, // missing width/height
		`{}`,
	} {
		if _, ok := domain.ParseElementRect([]byte(payload)); ok {
			t.Fatalf("payload %q must be ignored", payload)
		}
	}
}

func TestScriptsReferenceBridgeContract(t *testing.T) {
	t.Parallel()
	rectScript := domain.ElementRectScript()
	if !strings.Contains(rectScript, domain.TargetElementID) {
		t.Fatalf("rect script must query %s", domain.TargetElementID)
	}
	if !strings.Contains(rectScript, domain.BridgeChannel) {
		t.Fatalf("rect script must post to the %s channel", domain.BridgeChannel)
	}
	if !strings.Contains(domain.InvisibilityScript(), domain.InvisibilityStyleID) {
		t.Fatalf("invisibility script must install the %s style", domain.InvisibilityStyleID)
	}
	if !strings.Contains(domain.RemoveInvisibilityScript(), domain.InvisibilityStyleID) {
		t.Fatalf("removal script must target the %s style", domain.InvisibilityStyleID)
	}
}
