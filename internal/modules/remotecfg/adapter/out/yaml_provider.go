package out

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rsoc/internal/modules/remotecfg/domain"
)

type yamlConfig struct {
	IsEnabled            bool   `yaml:"is_enabled"`
	IsSponsorPageVisible bool   `yaml:"is_sponsor_page_visible"`
	Link                 string `yaml:"link"`
}

// YAMLProvider reads the remote config from a YAML fixture on every
// query, so edits are picked up at the next decision point without a
// restart. A missing file means the feature is disabled.
type YAMLProvider struct {
	path string
}

func NewYAMLProvider(path string) *YAMLProvider {
	return &YAMLProvider{path: path}
}

func (p *YAMLProvider) Current() *domain.RemoteConfig {
	cfg, err := Load(p.path)
	if err != nil {
		return nil
	}
	return cfg
}

// Load parses the fixture at path. Unlike Current it surfaces parse
// errors, for `rsoc config check`.
func Load(path string) (*domain.RemoteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	decoded := yamlConfig{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &domain.RemoteConfig{
		Enabled:            decoded.IsEnabled,
		SponsorPageVisible: decoded.IsSponsorPageVisible,
		Link:               decoded.Link,
	}, nil
}
