package app

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"halaqa_points/internal/leaderboard"
	"halaqa_points/internal/levels"
	"halaqa_points/internal/sheets"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// defaultCredentialsFile is used when neither GOOGLE_CREDENTIALS_FILE nor an
// inline service account key is configured.
const defaultCredentialsFile = "credentials.json"

// SetupEnvironment loads the .env file and configures zerolog output and log level.
func SetupEnvironment() {
	envErr := godotenv.Load(dotEnvFile)

	production := os.Getenv("ENV") == "production"
	if production {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.SetGlobalLevel(logLevel(os.Getenv("LOGLEVEL"), production))

	// wait until now to report on the .env file so we have the chance to set up logging first
	event := log.Debug().Str("file", dotEnvFile).Str("level", zerolog.GlobalLevel().String())
	if envErr == nil {
		event.Msg("Loaded environment variables from .env file")
	} else {
		event.Msg("No .env file loaded; using process environment")
	}
}

// logLevel resolves LOGLEVEL. Unset means info, or warn in production.
func logLevel(raw string, production bool) zerolog.Level {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		if production {
			return zerolog.WarnLevel
		}
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	}

	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", raw)
		return zerolog.InfoLevel
	}
	return level
}

// Config holds every setting the server and CLI read from the environment.
type Config struct {
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"server_host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`

	SpreadsheetID      string `mapstructure:"spreadsheet_id" validate:"required_without=WorkbookPath"`
	CredentialsFile    string `mapstructure:"google_credentials_file"`
	ClientEmail        string `mapstructure:"google_client_email" validate:"omitempty,email"`
	PrivateKey         string `mapstructure:"google_private_key" validate:"required_with=ClientEmail"`
	WorkbookPath       string `mapstructure:"workbook_path"`
	StudentsRange      string `mapstructure:"students_range" validate:"required"`
	RecordsRange       string `mapstructure:"records_range" validate:"required"`
	AnnouncementsRange string `mapstructure:"announcements_range" validate:"required"`

	CacheTTL        time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
	LevelsFile      string        `mapstructure:"levels_file"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	NtfyEnabled bool   `mapstructure:"ntfy_enabled"`
	NtfyURL     string `mapstructure:"ntfy_url" validate:"omitempty,url"`
	NtfyTopic   string `mapstructure:"ntfy_topic" validate:"required_if=NtfyEnabled true"`
}

// Addr is the listen address built from SERVER_HOST and PORT.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Credentials picks the service account source. An inline email and key pair
// wins; otherwise the credentials file is used.
func (c Config) Credentials() sheets.Credentials {
	if c.ClientEmail != "" {
		return sheets.Credentials{ClientEmail: c.ClientEmail, PrivateKey: c.PrivateKey}
	}
	file := c.CredentialsFile
	if file == "" {
		file = defaultCredentialsFile
	}
	return sheets.Credentials{File: file}
}

// Ranges returns the spreadsheet ranges the leaderboard reads.
func (c Config) Ranges() leaderboard.Ranges {
	return leaderboard.Ranges{
		Students:      c.StudentsRange,
		Records:       c.RecordsRange,
		Announcements: c.AnnouncementsRange,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("env", "development")
	v.SetDefault("server_host", "")
	v.SetDefault("port", 3000)
	v.SetDefault("spreadsheet_id", "")
	v.SetDefault("google_credentials_file", "")
	v.SetDefault("google_client_email", "")
	v.SetDefault("google_private_key", "")
	v.SetDefault("workbook_path", "")
	v.SetDefault("students_range", leaderboard.DefaultRanges.Students)
	v.SetDefault("records_range", leaderboard.DefaultRanges.Records)
	v.SetDefault("announcements_range", leaderboard.DefaultRanges.Announcements)
	v.SetDefault("cache_ttl", 30*time.Second)
	v.SetDefault("levels_file", "")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("ntfy_enabled", false)
	v.SetDefault("ntfy_url", "https://ntfy.sh")
	v.SetDefault("ntfy_topic", "halaqa-points")

	v.AutomaticEnv()
	return v
}

// LoadConfig reads the environment into a validated Config.
// Call SetupEnvironment first so values from .env are visible.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug().
		Str("addr", cfg.Addr()).
		Bool("workbook", cfg.WorkbookPath != "").
		Dur("cache_ttl", cfg.CacheTTL).
		Str("levels_file", cfg.LevelsFile).
		Msg("Loaded configuration")
	return cfg, nil
}

// LoadLevels reads a level ladder from a YAML or JSON file with a top-level
// "levels" list. An empty path selects levels.DefaultTable.
func LoadLevels(path string) (levels.Table, error) {
	if path == "" {
		return levels.DefaultTable, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return levels.Table{}, fmt.Errorf("failed to read levels file %s: %w", path, err)
	}

	var ladder []levels.Level
	if err := v.UnmarshalKey("levels", &ladder); err != nil {
		return levels.Table{}, fmt.Errorf("failed to decode levels file %s: %w", path, err)
	}

	table, err := levels.NewTable(ladder)
	if err != nil {
		return levels.Table{}, fmt.Errorf("invalid levels file %s: %w", path, err)
	}

	log.Info().Str("file", path).Int("levels", len(ladder)).Msg("Loaded level table")
	return table, nil
}
