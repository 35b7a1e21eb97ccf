package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning is server runtime tuning, separate from per-game balance. It
// controls the timer sweep cadence, session lifecycle, and snapshot cadence.
type Tuning struct {
	SweepIntervalMs int `yaml:"sweep_interval_ms"`

	SessionTTLMinutes             int `yaml:"session_ttl_minutes"`
	SessionCleanupIntervalMinutes int `yaml:"session_cleanup_interval_minutes"`
	MaxSessions                   int `yaml:"max_sessions"`

	SnapshotEverySweeps int `yaml:"snapshot_every_sweeps"`
}

// DefaultTuning returns the tuning used when no tuning.yaml is present.
func DefaultTuning() Tuning {
	return Tuning{
		SweepIntervalMs:               250,
		SessionTTLMinutes:             240,
		SessionCleanupIntervalMinutes: 10,
		MaxSessions:                   256,
		SnapshotEverySweeps:           40,
	}
}

// LoadTuning reads tuning from a YAML file. A missing file is not an error;
// the defaults apply.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.SweepIntervalMs <= 0 {
		return fmt.Errorf("sweep_interval_ms must be positive, got %d", t.SweepIntervalMs)
	}
	if t.SessionTTLMinutes <= 0 {
		return fmt.Errorf("session_ttl_minutes must be positive, got %d", t.SessionTTLMinutes)
	}
	if t.SessionCleanupIntervalMinutes <= 0 {
		return fmt.Errorf("session_cleanup_interval_minutes must be positive, got %d", t.SessionCleanupIntervalMinutes)
	}
	if t.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", t.MaxSessions)
	}
	if t.SnapshotEverySweeps <= 0 {
		return fmt.Errorf("snapshot_every_sweeps must be positive, got %d", t.SnapshotEverySweeps)
	}
	return nil
}

// SweepInterval returns the sweep cadence as a duration.
func (t Tuning) SweepInterval() time.Duration {
	return time.Duration(t.SweepIntervalMs) * time.Millisecond
}

// SessionTTL returns the idle session lifetime as a duration.
func (t Tuning) SessionTTL() time.Duration {
	return time.Duration(t.SessionTTLMinutes) * time.Minute
}

// SessionCleanupInterval returns the cleanup cadence as a duration.
func (t Tuning) SessionCleanupInterval() time.Duration {
	return time.Duration(t.SessionCleanupIntervalMinutes) * time.Minute
}
