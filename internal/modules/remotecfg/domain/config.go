package domain

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "rsoc/internal/platform/errors"
)

// RemoteConfig is the sponsored-content switch delivered by the remote
// configuration backend. A nil config means the feature is off.
type RemoteConfig struct {
	Enabled            bool
	SponsorPageVisible bool
	Link               string
}

// Usable reports whether the config both enables the feature and names a
// loadable link. Misconfiguration is treated as "off", never as an error
// surfaced to the host flow.
func (c *RemoteConfig) Usable() bool {
	if c == nil || !c.Enabled {
		return false
	}
	return strings.TrimSpace(c.Link) != ""
}

// Validate checks the shape of an explicitly supplied config. The flow
// never calls this; it is for fixture tooling that wants loud failures.
// Failures wrap apperrors.ErrInvalidConfig.
func (c RemoteConfig) Validate() error {
	if strings.TrimSpace(c.Link) == "" {
		if c.Enabled {
			return fmt.Errorf("%w: enabled config requires a link", apperrors.ErrInvalidConfig)
		}
		return nil
	}
	u, err := url.Parse(c.Link)
	if err != nil {
		return fmt.Errorf("%w: parse link: %v", apperrors.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: link scheme %q is not http(s)", apperrors.ErrInvalidConfig, u.Scheme)
	}
	return nil
}
