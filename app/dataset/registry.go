package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Registry struct {
	datasetsDir string
	defaultTTL  int
	cache       map[string]*Config
	mu          sync.RWMutex
}

func NewRegistry(datasetsDir string, defaultTTL int) *Registry {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Registry{
		datasetsDir: datasetsDir,
		defaultTTL:  defaultTTL,
		cache:       make(map[string]*Config),
	}
}

// Run loads every *.yml file in the datasets directory. A missing directory
// is not an error; callers register a fallback with Add.
func (r *Registry) Run() error {
	if _, err := os.Stat(r.datasetsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(r.datasetsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := r.LoadConfig(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Dataset loaded", "dataset", name, "sheet_id", config.SheetID, "ttl", config.TTL)
	}

	return nil
}

func (r *Registry) LoadConfig(name string) (*Config, error) {
	configFile := filepath.Join(r.datasetsDir, name+".yml")

	config, err := r.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = name

	if err := r.Add(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	return config, nil
}

// Add validates config, applies defaults and registers it under its name.
func (r *Registry) Add(config *Config) error {
	if err := r.validateConfig(config); err != nil {
		return err
	}

	if config.TTL == 0 {
		config.TTL = r.defaultTTL
	}
	if config.Title == "" {
		config.Title = config.Name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[config.Name] = config

	return nil
}

func (r *Registry) GetConfig(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.cache[name]
	if !ok {
		return nil, fmt.Errorf("dataset with name '%s' not found", name)
	}
	return config, nil
}

// GetConfigs returns datasets sorted by name.
func (r *Registry) GetConfigs() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]*Config, 0, len(r.cache))
	for _, v := range r.cache {
		configs = append(configs, v)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Name < configs[j].Name
	})
	return configs
}

func (r *Registry) GetConfigCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Registry) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

func (r *Registry) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	requiredFields := map[string]string{
		"dataset name": config.Name,
		"sheet ID":     config.SheetID,
	}

	for fieldName, fieldValue := range requiredFields {
		if strings.TrimSpace(fieldValue) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if config.TTL < 0 {
		return fmt.Errorf("ttl must be non-negative")
	}

	return nil
}
