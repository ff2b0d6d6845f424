package config

// Configuration for the holders chart
// Precedence: defaults < config.yaml < .env < environment < flags

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DisplayWindow   = "window"
	DisplayFile     = "file"
	DisplayTelegram = "telegram"

	// DefaultFileOutput is where display.mode=file writes when chart.output is unset.
	DefaultFileOutput = "etc/charts/holders_chart.png"
)

type Config struct {
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Display  DisplayConfig  `mapstructure:"display"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	App      AppConfig      `mapstructure:"app"`
}

// DatasetConfig points at the cleaned metrics CSV and the two columns plotted from it.
type DatasetConfig struct {
	Path        string `mapstructure:"path"`
	DateColumn  string `mapstructure:"date_column"`
	CountColumn string `mapstructure:"count_column"`
}

type ChartConfig struct {
	Title        string  `mapstructure:"title"`
	XLabel       string  `mapstructure:"x_label"`
	YLabel       string  `mapstructure:"y_label"`
	Width        int     `mapstructure:"width"`
	Height       int     `mapstructure:"height"`
	TickRotation float64 `mapstructure:"tick_rotation"` // degrees, counter-clockwise
	Output       string  `mapstructure:"output"`        // empty: temp file, or DefaultFileOutput in file mode
}

type DisplayConfig struct {
	Mode          string `mapstructure:"mode"`           // window, file or telegram
	ViewerTimeout int    `mapstructure:"viewer_timeout"` // seconds
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type AppConfig struct {
	LogsDir string `mapstructure:"logs_dir"`
}

// RegisterFlags adds every config key as a long flag, e.g. --dataset.path.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("dataset.path", "iacs_metrics_cleaned.csv", "CSV file with holder metrics (env: IACS_DATASET_PATH)")
	fs.String("dataset.date_column", "Date", "Column plotted on the x axis (env: IACS_DATE_COLUMN)")
	fs.String("dataset.count_column", "Unique Holders (Cumulative)", "Column plotted on the y axis (env: IACS_COUNT_COLUMN)")

	fs.String("chart.title", "$IACS Unique Holders Over Time", "Chart title")
	fs.String("chart.x_label", "Date", "X axis label")
	fs.String("chart.y_label", "Unique Holders", "Y axis label")
	fs.Int("chart.width", 1000, "Chart width in pixels")
	fs.Int("chart.height", 600, "Chart height in pixels")
	fs.Float64("chart.tick_rotation", 45, "X tick label rotation in degrees")
	fs.String("chart.output", "", "Where the rendered PNG is kept; empty means a temp file, or "+DefaultFileOutput+" in file mode (env: IACS_CHART_OUTPUT)")

	fs.String("display.mode", DisplayWindow, "How the chart is shown: window, file or telegram (env: IACS_DISPLAY)")
	fs.Int("display.viewer_timeout", 10, "Seconds to wait for the image viewer to start")

	fs.String("telegram.bot_token", "", "Telegram bot token for display.mode=telegram (env: TELEGRAM_BOT_TOKEN)")
	fs.String("telegram.chat_id", "", "Telegram chat id for display.mode=telegram (env: TELEGRAM_CHAT_ID)")

	fs.String("app.logs_dir", "logs", "Directory for app.log (env: IACS_LOGS_DIR)")
}

// LoadConfig builds the config. flags may be nil; only flags the user
// actually changed override lower layers.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	return load(flags, ".")
}

func load(flags *pflag.FlagSet, dir string) (*Config, error) {
	godotenv.Load(filepath.Join(dir, ".env")) // missing .env is fine

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		var bindErr error
		flags.Visit(func(f *pflag.Flag) {
			if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Display.Mode = strings.ToLower(strings.TrimSpace(cfg.Display.Mode))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("dataset.path", "IACS_DATASET_PATH")
	v.BindEnv("dataset.date_column", "IACS_DATE_COLUMN")
	v.BindEnv("dataset.count_column", "IACS_COUNT_COLUMN")
	v.BindEnv("chart.output", "IACS_CHART_OUTPUT")
	v.BindEnv("display.mode", "IACS_DISPLAY")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("app.logs_dir", "IACS_LOGS_DIR")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.path", "iacs_metrics_cleaned.csv")
	v.SetDefault("dataset.date_column", "Date")
	v.SetDefault("dataset.count_column", "Unique Holders (Cumulative)")

	v.SetDefault("chart.title", "$IACS Unique Holders Over Time")
	v.SetDefault("chart.x_label", "Date")
	v.SetDefault("chart.y_label", "Unique Holders")
	v.SetDefault("chart.width", 1000) // 10in at 100dpi
	v.SetDefault("chart.height", 600) // 6in at 100dpi
	v.SetDefault("chart.tick_rotation", 45.0)
	v.SetDefault("chart.output", "")

	v.SetDefault("display.mode", DisplayWindow)
	v.SetDefault("display.viewer_timeout", 10)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")

	v.SetDefault("app.logs_dir", "logs")
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Dataset.Path) == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if cfg.Dataset.DateColumn == "" || cfg.Dataset.CountColumn == "" {
		return fmt.Errorf("dataset.date_column and dataset.count_column are required")
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", cfg.Chart.Width, cfg.Chart.Height)
	}

	switch cfg.Display.Mode {
	case DisplayWindow, DisplayFile:
	case DisplayTelegram:
		if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
			return fmt.Errorf("display.mode=telegram requires telegram.bot_token and telegram.chat_id")
		}
	default:
		return fmt.Errorf("unknown display.mode %q: want window, file or telegram", cfg.Display.Mode)
	}
	return nil
}
