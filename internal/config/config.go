// Package config loads the tool configuration with koanf, layered lowest to
// highest priority: struct defaults, an optional YAML file, then environment
// variables with the DCREC_ prefix ("__" maps to a nesting level, so
// DCREC_CATALOG__BASE_URL sets catalog.base_url).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "DCREC_"

// DefaultFile is picked up from the working directory when no -config flag
// is given.
const DefaultFile = "dcrec.yaml"

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Progress ProgressConfig `koanf:"progress"`
	Rank     RankConfig     `koanf:"rank"`
	Export   ExportConfig   `koanf:"export"`
	SFTP     SFTPConfig     `koanf:"sftp"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type CatalogConfig struct {
	BaseURL        string `koanf:"base_url"`
	APIKey         string `koanf:"api_key"`
	PageSize       int    `koanf:"page_size"`
	MaxPages       int    `koanf:"max_pages"` // <=0 means all
	CachePath      string `koanf:"cache_path"`
	SnapshotPath   string `koanf:"snapshot_path"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

type ProgressConfig struct {
	RecordsDir    string  `koanf:"records_dir"`
	CompletedFile string  `koanf:"completed_file"`
	MinSimilarity float64 `koanf:"min_similarity"`
}

type RankConfig struct {
	Categories []string `koanf:"categories"`
	Tracks     int      `koanf:"tracks"` // closest-to-completion tracks per category
	Rows       int      `koanf:"rows"`   // rows kept per ranked table
}

type ExportConfig struct {
	CSVPath string `koanf:"csv_path"`
	XMLPath string `koanf:"xml_path"`
}

type SFTPConfig struct {
	Host                  string `koanf:"host"`
	Port                  int    `koanf:"port"`
	User                  string `koanf:"user"`
	Pass                  string `koanf:"pass"`
	RemoteDir             string `koanf:"remote_dir"`
	KnownHostsFile        string `koanf:"known_hosts_file"`
	InsecureIgnoreHostKey bool   `koanf:"insecure_ignore_host_key"`
}

func defaults() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Catalog: CatalogConfig{
			BaseURL:        "https://app.datacamp.com/api",
			PageSize:       50,
			CachePath:      "catalog.db",
			SnapshotPath:   "catalog.json.br",
			TimeoutSeconds: 120,
		},
		Progress: ProgressConfig{MinSimilarity: 0.6},
		Rank:     RankConfig{Categories: []string{"Python"}, Tracks: 10, Rows: 10},
		SFTP:     SFTPConfig{Port: 22, RemoteDir: "/"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// DefaultFile when path is empty and the file exists), and DCREC_* env vars.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Env vars deliver list values as comma-separated strings; defaults and
	// YAML already carry real slices.
	if raw, ok := k.Get("rank.categories").(string); ok && raw != "" {
		if err := k.Set("rank.categories", splitCommas(raw)); err != nil {
			return nil, fmt.Errorf("set rank.categories: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps DCREC_CATALOG__BASE_URL to catalog.base_url.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

func splitCommas(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects configurations the tools cannot run with.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("config: catalog.base_url is required")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("config: catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.CachePath == "" && c.Catalog.SnapshotPath == "" {
		return fmt.Errorf("config: one of catalog.cache_path or catalog.snapshot_path is required")
	}
	if c.Rank.Tracks <= 0 {
		return fmt.Errorf("config: rank.tracks must be positive, got %d", c.Rank.Tracks)
	}
	if c.Rank.Rows <= 0 {
		return fmt.Errorf("config: rank.rows must be positive, got %d", c.Rank.Rows)
	}
	if len(c.Rank.Categories) == 0 {
		return fmt.Errorf("config: rank.categories must not be empty")
	}
	if c.Progress.MinSimilarity < 0 || c.Progress.MinSimilarity > 1 {
		return fmt.Errorf("config: progress.min_similarity must be within [0,1], got %v", c.Progress.MinSimilarity)
	}
	if c.SFTP.Host != "" && c.SFTP.User == "" {
		return fmt.Errorf("config: sftp.user is required when sftp.host is set")
	}
	return nil
}
