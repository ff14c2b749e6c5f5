package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/turkosaurus/runpager/internal/types"
)

// AppName names the config, cache and log locations.
const AppName = "runpager"

// ErrNoConfig means neither config.yml nor config.toml exists.
var ErrNoConfig = errors.New("no config file")

// Messages overrides the transient status texts.
type Messages struct {
	Retry    string `yaml:"retry" toml:"retry"`
	Last     string `yaml:"last" toml:"last"`
	Complete string `yaml:"complete" toml:"complete"` // e.g. "%d runs loaded"
}

// Config holds the application configuration
type Config struct {
	Repos         []string       `yaml:"repos" toml:"repos"`
	PageSize      int            `yaml:"page_size" toml:"page_size"`
	LoadOnScroll  bool           `yaml:"load_on_scroll" toml:"load_on_scroll"`
	ReverseScroll bool           `yaml:"reverse_scroll" toml:"reverse_scroll"`
	Sort          types.SortMode `yaml:"sort" toml:"sort"`
	CachePath     string         `yaml:"cache_path" toml:"cache_path"`
	MsgTimeout    int            `yaml:"msg_timeout" toml:"msg_timeout"` // seconds
	Messages      Messages       `yaml:"messages" toml:"messages"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Repos:        []string{},
		PageSize:     20,
		LoadOnScroll: true,
		Sort:         types.SortNone,
		MsgTimeout:   3,
	}
}

// Load loads configuration from file or auto-detects from git
func Load() (*Config, error) {
	cfg, err := LoadFrom(Dir())
	if err != nil {
		return nil, err
	}
	if len(cfg.Repos) > 0 {
		return cfg, nil
	}

	// Auto-detect from current git repo
	repo, err := detectGitRepo()
	if err == nil && repo != "" {
		cfg.Repos = []string{repo}
	}
	return cfg, nil
}

// LoadFrom reads config.yml, or failing that config.toml, from dir. A
// missing file yields the defaults.
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()
	if err := readFile(dir, cfg); err != nil && !errors.Is(err, ErrNoConfig) {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func readFile(dir string, cfg *Config) error {
	if dir == "" {
		return ErrNoConfig
	}
	path := filepath.Join(dir, "config.yml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	path = filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ErrNoConfig
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.PageSize > 100 { // API maximum
		c.PageSize = 100
	}
	if c.Sort == "" {
		c.Sort = types.SortNone
	}
	if c.MsgTimeout <= 0 {
		c.MsgTimeout = 3
	}
	if c.CachePath == "" {
		c.CachePath = defaultCachePath()
	}
}

// Dir returns the directory holding the config file
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "runs.db")
}

// detectGitRepo attempts to detect the GitHub repo from git remote
func detectGitRepo() (string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return parseGitRemote(strings.TrimSpace(string(output))), nil
}

// parseGitRemote extracts owner/repo from a git remote URL
func parseGitRemote(url string) string {
	// Handle SSH URLs: git@github.com:owner/repo.git
	if strings.HasPrefix(url, "git@github.com:") {
		url = strings.TrimPrefix(url, "git@github.com:")
		url = strings.TrimSuffix(url, ".git")
		return url
	}

	// Handle HTTPS URLs: https://github.com/owner/repo.git
	if strings.Contains(url, "github.com/") {
		parts := strings.Split(url, "github.com/")
		if len(parts) == 2 {
			repo := strings.TrimSuffix(parts[1], ".git")
			return repo
		}
	}

	return ""
}
