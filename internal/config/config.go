package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// ImagesBaseURL is where the entry feeds are fetched from.
	ImagesBaseURL string `yaml:"images_base_url"`
	// Feeds lists the entry feed file names, fetched in order.
	Feeds []string `yaml:"feeds"`
	// Language selects localized sections text ("en" or "ru").
	Language string `yaml:"language"`
	// DownloadDir is where images are stored after download.
	DownloadDir string `yaml:"download_dir"`
}

func Default() Config {
	return Config{
		ImagesBaseURL: "http://getalt.org/_data/images/",
		Feeds: []string{
			"workstation.yml",
			"server.yml",
			"education.yml",
			"simply.yml",
		},
		Language:    "en",
		DownloadDir: defaultDownloadDir(),
	}
}

func (c *Config) Validate() error {
	if c.ImagesBaseURL == "" {
		return errors.New("images_base_url is required")
	}
	if len(c.Feeds) == 0 {
		return errors.New("at least one feed is required")
	}
	for _, f := range c.Feeds {
		if f == "" || f != filepath.Base(f) {
			return fmt.Errorf("invalid feed name: %q", f)
		}
	}
	if c.Language != "en" && c.Language != "ru" {
		return fmt.Errorf("invalid language: %q", c.Language)
	}
	if c.DownloadDir == "" {
		return errors.New("download_dir is required")
	}
	return nil
}

// Path returns the user-level config file location.
func Path() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "mediawriter", "config.yaml"), nil
}

// CacheDir returns the metadata cache directory path.
func CacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "mediawriter"), nil
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	defaults := Default()
	if cfg.ImagesBaseURL == "" {
		cfg.ImagesBaseURL = defaults.ImagesBaseURL
	}
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaults.Feeds
	}
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaults.DownloadDir
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault reads the config, falling back to defaults when no
// file exists yet.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
