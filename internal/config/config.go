package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, LogLevel string }

// APICfg points at the upstream Zeros Tour REST API.
type APICfg struct {
	BaseURL    string
	Token      string
	TimeoutSec int
}

type DBCfg struct{ DSN string }

type RedisCfg struct {
	Addr       string
	DB         int
	SessionTTL time.Duration
}

type SecurityCfg struct {
	AdminToken string // guards the /admin routes
}

// DashboardCfg holds the list defaults every admin screen starts from.
type DashboardCfg struct {
	DefaultPageSize int
	SortBy          string
	SortDescending  bool
}

// RolesCfg maps menu paths to the roles allowed to see them.
type RolesCfg struct {
	Current string
	Menu    map[string][]string
}

// TripsCfg parameterises the mock trip generator.
type TripsCfg struct {
	Seed       int64
	StartHours []int
}

type Cfg struct {
	App       AppCfg
	API       APICfg
	DB        DBCfg
	Redis     RedisCfg
	Sec       SecurityCfg
	Dashboard DashboardCfg
	Roles     RolesCfg
	Trips     TripsCfg
}

// DefaultMenuRoles is the role map of the admin sidebar.
func DefaultMenuRoles() map[string][]string {
	return map[string][]string{
		"/reservas":                    {"admin", "cliente"},
		"/clientes/lista":              {"admin"},
		"/clientes/deudas":             {"admin"},
		"/servicios":                   {"admin"},
		"/choferes":                    {"admin"},
		"/usuarios":                    {"admin"},
		"/direcciones/subidas-bajadas": {"admin"},
		"/direcciones/ciudades":        {"admin"},
		"/vehiculos/coches":            {"admin"},
		"/vehiculos/tipos":             {"admin"},
		"/precios":                     {"admin"},
		"/mis-datos":                   {"cliente"},
	}
}

// Load reads .env (if present) and the process environment.
func Load() Cfg {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_TIMEOUT_SEC", 30)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("DASHBOARD_PAGE_SIZE", 8)
	v.SetDefault("DASHBOARD_SORT_BY", "fecha")
	v.SetDefault("DASHBOARD_SORT_DESC", true)
	v.SetDefault("ROLE", "admin")
	v.SetDefault("TRIPS_SEED", 0)
	v.SetDefault("TRIPS_START_HOURS", "6,8,10,12,14,16,18")

	cfg := Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		API: APICfg{
			BaseURL:    strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Token:      strings.TrimSpace(v.GetString("API_TOKEN")),
			TimeoutSec: v.GetInt("API_TIMEOUT_SEC"),
		},
		DB: DBCfg{DSN: v.GetString("DB_DSN")},
		Redis: RedisCfg{
			Addr:       v.GetString("REDIS_ADDR"),
			DB:         v.GetInt("REDIS_DB"),
			SessionTTL: v.GetDuration("SESSION_TTL"),
		},
		Sec: SecurityCfg{AdminToken: strings.TrimSpace(v.GetString("ADMIN_TOKEN"))},
		Dashboard: DashboardCfg{
			DefaultPageSize: v.GetInt("DASHBOARD_PAGE_SIZE"),
			SortBy:          v.GetString("DASHBOARD_SORT_BY"),
			SortDescending:  v.GetBool("DASHBOARD_SORT_DESC"),
		},
		Roles: RolesCfg{
			Current: v.GetString("ROLE"),
			Menu:    DefaultMenuRoles(),
		},
		Trips: TripsCfg{
			Seed:       v.GetInt64("TRIPS_SEED"),
			StartHours: parseHours(v.GetString("TRIPS_START_HOURS")),
		},
	}
	if raw := v.GetStringMapStringSlice("MENU_ROLES"); len(raw) > 0 {
		cfg.Roles.Menu = raw
	}

	setupLogging(cfg.App)

	// Fail fast on required settings
	if cfg.API.BaseURL == "" {
		log.Fatal().Msg("API_BASE_URL is required")
	}
	if cfg.Dashboard.DefaultPageSize <= 0 {
		log.Fatal().Int("page_size", cfg.Dashboard.DefaultPageSize).Msg("DASHBOARD_PAGE_SIZE must be positive")
	}
	return cfg
}

func setupLogging(app AppCfg) {
	lvl, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if app.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func parseHours(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || h < 0 || h > 23 {
			continue
		}
		out = append(out, h)
	}
	return out
}
