package out

import "rsoc/internal/modules/remotecfg/domain"

// Provider yields the current remote config. It is queried fresh at
// every decision point; nil means the feature is disabled.
type Provider interface {
	Current() *domain.RemoteConfig
}
