// Package config loads the project file c4puml.toml and resolves the
// directories c4puml keeps state in.
//
// A minimal file:
//
//	workspace = "architecture/workspace.json"
//	output    = "docs/diagrams"
//	legend    = true
//	formats   = ["puml", "svg"]
//
//	[[include]]
//	url   = "https://example.com/c4/theme.puml"
//	label = "theme"
//
//	[cache]
//	backend = "file"
//	ttl     = "24h"
//
// Values given on the command line override the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/pipeline"
)

// FileName is the project configuration looked up in the working directory.
const FileName = "c4puml.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the content of c4puml.toml.
type Config struct {
	Workspace string    `toml:"workspace"`
	Output    string    `toml:"output"`
	Legend    bool      `toml:"legend"`
	Sequence  bool      `toml:"sequence"`
	Detailed  bool      `toml:"detailed"`
	Formats   []string  `toml:"formats"`
	Views     []string  `toml:"views,omitempty"`
	Includes  []Include `toml:"include,omitempty"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// Include is one [[include]] entry. Exactly one of URL and File is set.
type Include struct {
	URL   string `toml:"url,omitempty"`
	File  string `toml:"file,omitempty"`
	Label string `toml:"label,omitempty"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr,omitempty"`
	// Prefix scopes keys in a shared Redis.
	Prefix string `toml:"prefix,omitempty"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as "24h" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Output:  ".",
		Formats: []string{pipeline.FormatPlantUML},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error: Load returns the defaults. Environment overrides are applied and
// the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	case err != nil:
		return nil, c4errors.Wrap(c4errors.ErrCodeInvalidConfig, err, "decode %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, c4errors.New(c4errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies C4PUML_CACHE, C4PUML_REDIS_ADDR and C4PUML_ADDR.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("C4PUML_CACHE"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("C4PUML_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("C4PUML_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks formats, include entries and the cache section.
func (c *Config) Validate() error {
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	for i, inc := range c.Includes {
		switch {
		case inc.URL != "" && inc.File != "":
			return c4errors.New(c4errors.ErrCodeInvalidConfig, "include %d: url and file are exclusive", i+1)
		case inc.URL != "":
			if err := c4errors.ValidateIncludeURL(inc.URL); err != nil {
				return fmt.Errorf("include %d: %w", i+1, err)
			}
		case inc.File != "":
			if err := c4errors.ValidateIncludeFile(inc.File); err != nil {
				return fmt.Errorf("include %d: %w", i+1, err)
			}
		default:
			return c4errors.New(c4errors.ErrCodeInvalidConfig, "include %d: url or file required", i+1)
		}
	}
	for _, key := range c.Views {
		if err := c4errors.ValidateViewKey(key); err != nil {
			return err
		}
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return c4errors.New(c4errors.ErrCodeInvalidConfig, "cache: redis backend requires redis_addr")
		}
	default:
		return c4errors.New(c4errors.ErrCodeInvalidConfig, "cache: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return c4errors.New(c4errors.ErrCodeInvalidConfig, "cache: ttl cannot be negative")
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	fmt.Fprintln(w, "# c4puml project configuration")
	fmt.Fprintln(w)
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Save writes c to path, refusing to replace an existing file unless
// overwrite is set.
func (c *Config) Save(path string, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PipelineOptions returns the export options the file describes.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Legend:   c.Legend,
		Sequence: c.Sequence,
		Detailed: c.Detailed,
		Views:    append([]string(nil), c.Views...),
		Formats:  append([]string(nil), c.Formats...),
	}
	for _, inc := range c.Includes {
		opts.Includes = append(opts.Includes, pipeline.Include(inc))
	}
	return opts
}
