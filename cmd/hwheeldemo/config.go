// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/BurntSushi/toml"
)

// config is the demo's TOML-driven configuration.
type config struct {
	TickMS int64 `toml:"tick_ms"`
	Debug  bool  `toml:"debug"`
	Jobs   []job `toml:"job"`
}

// job describes one event to schedule at start-up.
type job struct {
	Name     string `toml:"name"`
	DeltaMin uint64 `toml:"delta_min"`
	DeltaMax uint64 `toml:"delta_max"` // 0 means "exact", use Schedule
}

func defaultConfig() config {
	return config{
		TickMS: 50,
		Debug:  false,
		Jobs: []job{
			{Name: "heartbeat", DeltaMin: 4},
			{Name: "session-expiry", DeltaMin: 10, DeltaMax: 30},
		},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

func (c config) tickDuration() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}
