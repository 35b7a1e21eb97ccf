package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tetrachess/server/game/engine"
	"github.com/tetrachess/server/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager loads game configurations from a directory of JSON files and
// caches validated results. Lookups accept the config name with or without
// the .json extension.
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	cache         map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a Manager rooted at configDir and resolves the default
// configuration (standard.json, the first valid file, or built-in defaults).
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		cache:     make(map[string]*engine.GameConfig),
	}
	m.defaultConfig = m.resolveDefault()
	return m, nil
}

// LoadConfig returns the named configuration, reading and validating it from
// disk on first use.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	m.mu.RLock()
	cached, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it while we waited for the write lock.
	if cached, ok := m.cache[name]; ok {
		return cached, nil
	}

	config, err := m.readConfigFile(name)
	if err != nil {
		return nil, err
	}
	m.cache[name] = config
	return config, nil
}

// readConfigFile loads and validates one config from disk. Callers manage
// locking and caching.
func (m *Manager) readConfigFile(name string) (*engine.GameConfig, error) {
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns summary information for every valid configuration file
// in the directory. Files that fail to parse or validate are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var infos []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}
		infos = append(infos, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			BoardExtent: config.BoardExtent,
			LineLength:  config.LineLength,
			MaxPlayers:  config.MaxPlayers,
		})
	}
	return infos, nil
}

// GetDefault returns the default configuration.
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault switches the default configuration to the named one.
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// RefreshCache drops all cached configurations and re-resolves the default,
// picking up edits made to the files on disk.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.cache = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	def := m.resolveDefault()
	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
	return nil
}

// resolveDefault picks the default configuration: standard.json if present,
// otherwise the first valid config file, otherwise the built-in defaults.
// Called without m.mu held.
func (m *Manager) resolveDefault() *engine.GameConfig {
	if config, err := m.LoadConfig("standard"); err == nil {
		return config
	}
	if infos, err := m.ListConfigs(); err == nil && len(infos) > 0 {
		if config, err := m.LoadConfig(infos[0].ConfigID); err == nil {
			return config
		}
	}
	return engine.DefaultGameConfig()
}

// SaveConfig validates and writes a configuration to disk, updating the cache.
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.configDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.cache[name] = config
	m.mu.Unlock()
	return nil
}
