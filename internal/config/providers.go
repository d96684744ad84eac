package config

import "github.com/af-corp/converse-gateway/internal/provider"

// Well-known provider entries the gateway wires at startup.
const (
	ProviderStandard = "standard"
	ProviderAzure    = "azure"
	ProviderAgent    = "agent"
	ProviderAudio    = "audio"
	ProviderBots     = "bots"
	ProviderSearch   = "search"
)

type ProvidersConfig struct {
	Providers map[string]provider.ClientConfig `yaml:"providers"`
}

func (p *ProvidersConfig) Get(name string) provider.ClientConfig {
	if p == nil {
		return provider.ClientConfig{}
	}
	return p.Providers[name]
}
