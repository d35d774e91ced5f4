package wallet

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// ConnectionProfile is the optional on-disk companion to Config: the
// handful of fields a front-end typically wants to let an operator edit
// without recompiling (SPEC_FULL.md §2's "YAML companion file for the
// daemon-connection profile"). The core library never reads this file
// itself — Config is always constructed directly in Go — but ships this
// loader so a CLI front-end has a ready-made decode path, grounded on
// the teacher's cmd/rivinecg/pkg/config decodeConfig idiom (a plain
// struct with parallel yaml/json tags, decoded with
// gopkg.in/yaml.v2's Decoder).
type ConnectionProfile struct {
	DaemonURL     string `yaml:"daemonUrl"`
	UserAgent     string `yaml:"userAgent,omitempty"`
	AddressPrefix uint64 `yaml:"addressPrefix,omitempty"`

	WorkerCount  int  `yaml:"workerCount,omitempty"`
	SkipCoinbase bool `yaml:"skipCoinbase,omitempty"`

	LockedCheckIntervalSeconds int `yaml:"lockedCheckIntervalSeconds,omitempty"`
	CancelledGraceSeconds      int `yaml:"cancelledGraceSeconds,omitempty"`
}

// ToConfig builds a Config from the decoded profile. The daemon URL is
// returned separately since it is passed to CreateNew/Open/ImportFrom*
// directly rather than carried on Config.
func (p ConnectionProfile) ToConfig() Config {
	return Config{
		AddressPrefix:       p.AddressPrefix,
		UserAgent:           p.UserAgent,
		WorkerCount:         p.WorkerCount,
		SkipCoinbase:        p.SkipCoinbase,
		LockedCheckInterval: time.Duration(p.LockedCheckIntervalSeconds) * time.Second,
		CancelledGrace:      time.Duration(p.CancelledGraceSeconds) * time.Second,
	}
}

// LoadConnectionProfile reads and decodes a YAML connection profile from
// path.
func LoadConnectionProfile(path string) (*ConnectionProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: opening connection profile: %w", err)
	}
	defer f.Close()
	return decodeConnectionProfile(f)
}

func decodeConnectionProfile(r io.Reader) (*ConnectionProfile, error) {
	var p ConnectionProfile
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("wallet: decoding connection profile: %w", err)
	}
	if p.DaemonURL == "" {
		return nil, fmt.Errorf("wallet: connection profile missing daemonUrl")
	}
	return &p, nil
}
