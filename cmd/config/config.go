package config

import (
	tmcfg "github.com/tendermint/tendermint/config"
)

// Config is the tendermint config with the chain id read from the genesis document.
type Config struct {
	*tmcfg.Config
	chainID string
}

func DefaultConfig(chainID ...string) *Config {
	return DefaultConfigWith(tmcfg.DefaultConfig(), chainID...)
}

func DefaultConfigWith(cfg *tmcfg.Config, chainID ...string) *Config {
	_chainID := ""
	if len(chainID) > 0 {
		_chainID = chainID[0]
	}
	return &Config{
		Config:  cfg,
		chainID: _chainID,
	}
}

func (c *Config) SetChainID(chainID string) {
	c.chainID = chainID
}

// ChainID overrides BaseConfig.ChainID() of tendermint.
func (c *Config) ChainID() string {
	if c.chainID != "" {
		return c.chainID
	}
	return c.Config.ChainID()
}
