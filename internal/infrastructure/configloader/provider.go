package configloader

import (
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideServiceMetadata,
	ProvideServerConfig,
	ProvideDataConfig,
	ProvideTxConfig,
)

// ProvideServiceMetadata returns the resolved ServiceMetadata from the bundle.
func ProvideServiceMetadata(b *Bundle) ServiceMetadata {
	if b == nil {
		return ServiceMetadata{}
	}
	return b.Service
}

// ProvideServerConfig returns the server section of the bootstrap configuration.
func ProvideServerConfig(b *Bundle) *ServerConfig {
	if b == nil || b.Bootstrap == nil {
		return &ServerConfig{}
	}
	return &b.Bootstrap.Server
}

// ProvideDataConfig returns the data section of the bootstrap configuration.
func ProvideDataConfig(b *Bundle) *DataConfig {
	if b == nil || b.Bootstrap == nil {
		return &DataConfig{}
	}
	return &b.Bootstrap.Data
}

// ProvideTxConfig exposes the normalized transaction manager configuration.
func ProvideTxConfig(b *Bundle) txmanager.Config {
	if b == nil {
		return txmanager.Config{}
	}
	return b.TxConfig
}
