package out

import remotecfgdomain "rsoc/internal/modules/remotecfg/domain"

// ConfigProvider yields the remote sponsored-content config, queried
// fresh at every decision point. nil means disabled.
type ConfigProvider interface {
	Current() *remotecfgdomain.RemoteConfig
}

// EventLogger is the fire-and-forget analytics sink.
type EventLogger interface {
	Log(name string)
}
