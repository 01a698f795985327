package game

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EngineConfig holds the tunables of the hand engine. Zero values fall back
// to the defaults.
type EngineConfig struct {
	SmallBlind         float64 `yaml:"smallBlind"`
	BigBlind           float64 `yaml:"bigBlind"`
	DealTimeoutMillis  uint32  `yaml:"dealTimeoutMillis"`
	StoreTimeoutMillis uint32  `yaml:"storeTimeoutMillis"`
	SubscriberBuffer   int     `yaml:"subscriberBuffer"`
	TableCacheSize     int     `yaml:"tableCacheSize"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SmallBlind:         10,
		BigBlind:           20,
		DealTimeoutMillis:  3000,
		StoreTimeoutMillis: 2000,
		SubscriberBuffer:   64,
		TableCacheSize:     10000,
	}
}

func ParseEngineConfig(configFile string) (EngineConfig, error) {
	bytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return EngineConfig{}, errors.Wrap(err, fmt.Sprintf("Error reading engine config file [%s]", configFile))
	}

	var data EngineConfig
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return EngineConfig{}, errors.Wrap(err, fmt.Sprintf("Error parsing engine config YAML file [%s]", configFile))
	}

	data = data.withDefaults()
	if data.SmallBlind > data.BigBlind {
		return EngineConfig{}, fmt.Errorf("Small blind %v is greater than big blind %v in [%s]", data.SmallBlind, data.BigBlind, configFile)
	}
	if !wholeCents(data.SmallBlind) || !wholeCents(data.BigBlind) {
		return EngineConfig{}, fmt.Errorf("Blinds %v/%v are not whole numbers of cents in [%s]", data.SmallBlind, data.BigBlind, configFile)
	}
	return data, nil
}

func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.SmallBlind <= 0 {
		c.SmallBlind = d.SmallBlind
	}
	if c.BigBlind <= 0 {
		c.BigBlind = d.BigBlind
	}
	if c.DealTimeoutMillis == 0 {
		c.DealTimeoutMillis = d.DealTimeoutMillis
	}
	if c.StoreTimeoutMillis == 0 {
		c.StoreTimeoutMillis = d.StoreTimeoutMillis
	}
	if c.SubscriberBuffer <= 0 {
		c.SubscriberBuffer = d.SubscriberBuffer
	}
	if c.TableCacheSize <= 0 {
		c.TableCacheSize = d.TableCacheSize
	}
	return c
}

func (c EngineConfig) Blinds() Blinds {
	return Blinds{Small: c.SmallBlind, Big: c.BigBlind}
}

func (c EngineConfig) DealTimeout() time.Duration {
	return time.Duration(c.DealTimeoutMillis) * time.Millisecond
}

func (c EngineConfig) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMillis) * time.Millisecond
}
