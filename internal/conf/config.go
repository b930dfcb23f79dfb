// Package conf loads and validates the application configuration.
package conf

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/vmcollection/spidermap-go/internal/errors"
)

// Settings holds the full application configuration, unmarshalled from
// config.yaml by viper.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main struct {
		Name string    // instance name, shows up in logs
		Log  LogConfig // logging configuration
	}

	WebServer struct {
		Enabled        bool          // true to enable web server
		Host           string        // interface to bind
		Port           string        // port for web server
		RequestTimeout time.Duration // per-request deadline for record queries
	}

	Database struct {
		SQLite struct {
			Enabled bool   // true to use sqlite
			Path    string // path to sqlite database
		}
		MySQL struct {
			Enabled  bool   // true to use mysql
			Username string // mysql username
			Password string // mysql password
			Database string // mysql database name
			Host     string // mysql server host
			Port     string // mysql server port
		}
	}

	Images struct {
		Directory string // directory holding specimen photographs
		BaseURL   string // external base URL used to build retrieval links
	}

	DocStore struct {
		URI        string // mongodb connection URI
		Database   string // database holding synchronized records
		Collection string // collection holding record documents
	}

	Sync struct {
		Enrichment struct {
			Limit int // max concurrent per-record sub-queries
		}
	}
}

// LogConfig defines rotating file log settings.
type LogConfig struct {
	Enabled bool   // true to write a log file
	Path    string // log file location
}

var (
	settingsInstance *Settings
	settingsMutex    sync.Mutex
)

// Setting returns the current settings instance, loading it on first use.
func Setting() *Settings {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	if settingsInstance == nil {
		settings, err := load()
		if err != nil {
			panic(fmt.Sprintf("error loading settings: %v", err))
		}
		settingsInstance = settings
	}
	return settingsInstance
}

// Load reads the configuration and returns a fresh Settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings, err := load()
	if err != nil {
		return nil, err
	}
	settingsInstance = settings
	return settingsInstance, nil
}

func load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/spidermap")
	viper.AddConfigPath("/etc/spidermap")

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults apply
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// ValidateSettings rejects configurations the service cannot run with.
func ValidateSettings(settings *Settings) error {
	if settings.Database.SQLite.Enabled && settings.Database.MySQL.Enabled {
		return errors.Newf("only one database backend may be enabled").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if !settings.Database.SQLite.Enabled && !settings.Database.MySQL.Enabled {
		return errors.Newf("no database backend enabled").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if settings.Sync.Enrichment.Limit < 1 {
		return errors.Newf("sync.enrichment.limit must be at least 1, got %d", settings.Sync.Enrichment.Limit).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}
