package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packer settings applied to new runs
	DefaultTagStyle TagStyle `json:"default_tag_style" mapstructure:"default_tag_style"`
	DefaultSeed     int64    `json:"default_seed" mapstructure:"default_seed"` // 0 = seed from the clock
	DefaultWidth    float64  `json:"default_width" mapstructure:"default_width"`
	DefaultHeight   float64  `json:"default_height" mapstructure:"default_height"`

	// Logging
	LogLevel  string `json:"log_level" mapstructure:"log_level"`   // "debug", "info", "warn", "error"
	LogFormat string `json:"log_format" mapstructure:"log_format"` // "console" or "json"
	LogFile   string `json:"log_file" mapstructure:"log_file"`     // Optional rotating log file, empty = disabled

	RecentJobs []string `json:"recent_jobs" mapstructure:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultTagStyle: defaults.TagStyle,
		DefaultSeed:     0,
		DefaultWidth:    500,
		DefaultHeight:   500,
		LogLevel:        "info",
		LogFormat:       "console",
		LogFile:         "",
		RecentJobs:      []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// A zero DefaultSeed leaves the settings' seed untouched so the caller can pick one.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	if c.DefaultTagStyle != "" {
		s.TagStyle = c.DefaultTagStyle
	}
	if c.DefaultSeed != 0 {
		s.Seed = c.DefaultSeed
	}
}

// DefaultContainer returns the configured default container size.
func (c AppConfig) DefaultContainer() (Container, error) {
	return NewContainer(c.DefaultWidth, c.DefaultHeight)
}

// maxRecentJobs bounds the recent job list.
const maxRecentJobs = 10

// AddRecentJob moves path to the front of the recent job list.
func (c *AppConfig) AddRecentJob(path string) {
	jobs := []string{path}
	for _, p := range c.RecentJobs {
		if p != path {
			jobs = append(jobs, p)
		}
	}
	if len(jobs) > maxRecentJobs {
		jobs = jobs[:maxRecentJobs]
	}
	c.RecentJobs = jobs
}
