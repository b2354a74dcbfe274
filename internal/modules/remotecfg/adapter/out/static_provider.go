package out

import (
	"rsoc/internal/modules/remotecfg/domain"
	remotecfgout "rsoc/internal/modules/remotecfg/port/out"
)

// StaticProvider serves a fixed config. The simulator uses it; tests use
// it to flip the feature on and off mid-flow.
type StaticProvider struct {
	cfg *domain.RemoteConfig
}

func NewStaticProvider(cfg *domain.RemoteConfig) *StaticProvider {
	return &StaticProvider{cfg: cfg}
}

func (p *StaticProvider) Current() *domain.RemoteConfig {
	return p.cfg
}

// Set replaces the served config.
func (p *StaticProvider) Set(cfg *domain.RemoteConfig) {
	p.cfg = cfg
}

var _ remotecfgout.Provider = (*StaticProvider)(nil)
