package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"zerostour/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options contains the settings shared by every zerosctl command.
type Options struct {
	// APIURL is the Zeros Tour REST API base URL.
	APIURL string `json:"apiURL" mapstructure:"api-url"`

	// Token is sent as a bearer token with every call.
	Token string `json:"-" mapstructure:"token"`

	// Timeout bounds each API call.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// PageSize is the number of rows a list shows.
	PageSize int `json:"pageSize" mapstructure:"page-size"`

	// Role decides which screens are available.
	Role string `json:"role" mapstructure:"role"`

	LogLevel string `json:"logLevel" mapstructure:"log-level"`
}

// NewOptions creates Options with defaults taken from the environment.
func NewOptions() *Options {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("API_TIMEOUT_SEC", 30)
	v.SetDefault("DASHBOARD_PAGE_SIZE", 8)
	v.SetDefault("ROLE", "admin")

	return &Options{
		APIURL:   strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Token:    strings.TrimSpace(v.GetString("API_TOKEN")),
		Timeout:  time.Duration(v.GetInt("API_TIMEOUT_SEC")) * time.Second,
		PageSize: v.GetInt("DASHBOARD_PAGE_SIZE"),
		Role:     v.GetString("ROLE"),
		LogLevel: "warn",
	}
}

// AddFlags adds the global flags to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.APIURL, "api-url", o.APIURL, "Zeros Tour API base URL (env API_BASE_URL).")
	fs.StringVar(&o.Token, "token", o.Token, "API bearer token (env API_TOKEN).")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout of each API call.")
	fs.IntVar(&o.PageSize, "page-size", o.PageSize, "Rows per page.")
	fs.StringVar(&o.Role, "role", o.Role, "Role whose screens are available.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (debug, info, warn, error).")
}

// Validate checks the options once flags are parsed.
func (o *Options) Validate() []error {
	var errs []error
	if o.APIURL == "" {
		errs = append(errs, errors.New("--api-url or API_BASE_URL is required"))
	}
	if o.PageSize <= 0 {
		errs = append(errs, errors.New("--page-size must be positive"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, errors.New("--timeout must be positive"))
	}
	return errs
}

// Config is the dashboard configuration the options describe.
func (o *Options) Config() config.Cfg {
	return config.Cfg{
		App: config.AppCfg{Env: "cli", LogLevel: o.LogLevel},
		API: config.APICfg{
			BaseURL:    strings.TrimRight(o.APIURL, "/"),
			Token:      o.Token,
			TimeoutSec: max(int(o.Timeout/time.Second), 1),
		},
		Dashboard: config.DashboardCfg{DefaultPageSize: o.PageSize, SortBy: "fecha", SortDescending: true},
		Roles:     config.RolesCfg{Current: o.Role, Menu: config.DefaultMenuRoles()},
	}
}

func (o *Options) setupLogging() {
	lvl, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
