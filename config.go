package ebook2pdf

import (
	"time"
)

// Config defaults.
const (
	DefaultPort            = 8080
	DefaultTmpDir          = "/tmp"
	DefaultLoginURL        = "https://learninghub.sap.com/login"
	DefaultSessionTimeout  = 90 * time.Second
	DefaultDownloadTimeout = 30 * time.Second
)

// Config holds the server configuration.
type Config struct {
	Port   int    `yaml:"port"`
	TmpDir string `yaml:"tmpdir"`

	// Values prefilled into the credentials form.
	IndexHTML string `yaml:"indexhtml"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`

	LoginURL        string   `yaml:"login_url"`
	SessionTimeout  Duration `yaml:"session_timeout"`
	DownloadRate    float64  `yaml:"download_rate"` // requests per second, 0 = unlimited
	DownloadTimeout Duration `yaml:"download_timeout"`
	FontDir         string   `yaml:"font_dir"` // empty = $HOME/.local/share/fonts
	MaxJobs         int      `yaml:"max_jobs"` // 0 = unbounded

	DebugMaxPages    int  `yaml:"debug_max_pages"` // 0 = no cap
	DebugNoCleanup   bool `yaml:"debug_no_cleanup"`
	DebugNoop        bool `yaml:"debug_learninghub_noop"`
	DebugScreenshots bool `yaml:"debug_screenshots"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Port:             DefaultPort,
		TmpDir:           DefaultTmpDir,
		LoginURL:         DefaultLoginURL,
		SessionTimeout:   Duration{DefaultSessionTimeout},
		DownloadTimeout:  Duration{DefaultDownloadTimeout},
		DebugScreenshots: true,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return Errorf(EINVALID, "port %d out of range", c.Port)
	}
	if c.TmpDir == "" {
		return Errorf(EINVALID, "tmpdir required")
	}
	if c.LoginURL == "" {
		return Errorf(EINVALID, "login_url required")
	}
	if c.SessionTimeout.Duration <= 0 {
		return Errorf(EINVALID, "session_timeout must be positive")
	}
	if c.DownloadTimeout.Duration <= 0 {
		return Errorf(EINVALID, "download_timeout must be positive")
	}
	if c.DownloadRate < 0 {
		return Errorf(EINVALID, "download_rate must not be negative")
	}
	if c.MaxJobs < 0 {
		return Errorf(EINVALID, "max_jobs must not be negative")
	}
	if c.DebugMaxPages < 0 {
		return Errorf(EINVALID, "debug_max_pages must not be negative")
	}
	return nil
}

// Duration is a time.Duration written as a string such as "90s" in config
// files.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses the duration from its string form.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return WrapError(EINVALID, err, "invalid duration %q", s)
	}
	d.Duration = v
	return nil
}

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
