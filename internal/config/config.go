package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/skips/internal/skipapi"
)

const (
	keyBaseURL       = "SKIPS_API_BASE_URL"
	keyPostcode      = "SKIPS_POSTCODE"
	keyArea          = "SKIPS_AREA"
	keyTimeout       = "SKIPS_HTTP_TIMEOUT"
	keyTheme         = "SKIPS_THEME"
	keyDebug         = "SKIPS_DEBUG"
	keyLogFile       = "SKIPS_LOG_FILE"
	keySelectionFile = "SKIPS_SELECTION_FILE"
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration // zero means none
}

// Location is the fixed postcode/area the skips are listed for.
type Location struct {
	Postcode string
	Area     string
}

type Config struct {
	API           APIConfig
	Location      Location
	Theme         string
	Debug         bool
	LogFile       string
	SelectionFile string
}

// Flags registers the root flags that override configuration.
func Flags(fs *pflag.FlagSet) {
	fs.String("base-url", "", "skip API base URL")
	fs.String("postcode", "", "postcode to list skips for")
	fs.String("area", "", "area to list skips for")
	fs.Duration("timeout", 0, "HTTP timeout (0 = none)")
	fs.String("theme", "", "colour theme: classic, neon or mono")
	fs.Bool("debug", false, "verbose logging")
	fs.String("log-file", "", "log file used by the interactive browser")
	fs.String("selection-file", "", "where the chosen skip is saved")
}

// Load reads skips.env (if any), the environment and the flags in fs, in
// increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("skips")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault(keyBaseURL, skipapi.DefaultBaseURL)
	v.SetDefault(keyPostcode, "NR32")
	v.SetDefault(keyArea, "Lowestoft")
	v.SetDefault(keyTimeout, "0s")
	v.SetDefault(keyTheme, "classic")
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyLogFile, filepath.Join(os.TempDir(), "skips.log"))
	v.SetDefault(keySelectionFile, "selection.json")

	if fs != nil {
		for key, flag := range map[string]string{
			keyBaseURL:       "base-url",
			keyPostcode:      "postcode",
			keyArea:          "area",
			keyTimeout:       "timeout",
			keyTheme:         "theme",
			keyDebug:         "debug",
			keyLogFile:       "log-file",
			keySelectionFile: "selection-file",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", flag)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimSpace(v.GetString(keyBaseURL)),
			Timeout: v.GetDuration(keyTimeout),
		},
		Location: Location{
			Postcode: strings.TrimSpace(v.GetString(keyPostcode)),
			Area:     strings.TrimSpace(v.GetString(keyArea)),
		},
		Theme:         strings.ToLower(strings.TrimSpace(v.GetString(keyTheme))),
		Debug:         v.GetBool(keyDebug),
		LogFile:       v.GetString(keyLogFile),
		SelectionFile: v.GetString(keySelectionFile),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.Errorf("%s must be an absolute http(s) URL, got %q", keyBaseURL, cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return errors.Errorf("%s must not be negative", keyTimeout)
	}
	if cfg.Location.Postcode == "" {
		return errors.Errorf("%s is required", keyPostcode)
	}
	if cfg.Location.Area == "" {
		return errors.Errorf("%s is required", keyArea)
	}
	switch cfg.Theme {
	case "classic", "neon", "mono":
	default:
		return errors.Errorf("%s must be classic, neon or mono, got %q", keyTheme, cfg.Theme)
	}
	if cfg.SelectionFile == "" {
		return errors.Errorf("%s is required", keySelectionFile)
	}
	return nil
}
