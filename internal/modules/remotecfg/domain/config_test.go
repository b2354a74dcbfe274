package domain_test

import (
	"errors"
	"testing"

	"rsoc/internal/modules/remotecfg/domain"
	apperrors "rsoc/internal/platform/errors"
)

func TestUsable(t *testing.T) {
	t.Parallel()
	var nilCfg *domain.RemoteConfig
	if nilCfg.Usable() {
		t.Fatalf("nil config must read as disabled")
	}
	if (&domain.RemoteConfig{Enabled: true, Link: "  "}).Usable() {
		t.Fatalf("blank link must read as disabled")
	}
	if !(&domain.RemoteConfig{Enabled: true, Link: "https://offers.example.com/entry"}).Usable() {
		t.Fatalf("enabled config with a link must be usable")
	}
}

func TestValidateFlagsBadConfigs(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		cfg  domain.RemoteConfig
		ok   bool
	}{
		{"disabled empty", domain.RemoteConfig{}, true},
		{"enabled with link", domain.RemoteConfig{Enabled: true, Link: "https://offers.example.com/entry"}, true},
		{"enabled without link", domain.RemoteConfig{Enabled: true}, false},
		{"bad scheme", domain.RemoteConfig{Enabled: true, Link: "ftp://offers.example.com"}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, apperrors.ErrInvalidConfig) {
			t.Fatalf("%s: err = %v, want ErrInvalidConfig", tc.name, err)
		}
	}
}
