package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iacs-holders/internal/clients_api/telegram"
	"iacs-holders/internal/dataset"
	"iacs-holders/internal/features/holders_chart"
	"iacs-holders/internal/infra/config"
	"iacs-holders/internal/infra/fs"
	logging "iacs-holders/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.App.LogsDir); err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	defer logging.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presenter, err := newPresenter(cfg)
	if err != nil {
		return err
	}
	return renderAndShow(ctx, cfg, presenter)
}

func newPresenter(cfg *config.Config) (holders_chart.Presenter, error) {
	switch cfg.Display.Mode {
	case config.DisplayFile:
		return holders_chart.FilePresenter{}, nil
	case config.DisplayTelegram:
		client, err := telegram.NewClient(cfg.Telegram.BotToken)
		if err != nil {
			logging.LogError("Failed to initialize Telegram bot", zap.Error(err))
			return nil, err
		}
		return holders_chart.TelegramPresenter{
			Sender:  client,
			ChatID:  cfg.Telegram.ChatID,
			Caption: cfg.Chart.Title,
		}, nil
	default:
		return holders_chart.WindowPresenter{
			Timeout: time.Duration(cfg.Display.ViewerTimeout) * time.Second,
		}, nil
	}
}

func chartOptions(c config.ChartConfig) holders_chart.Options {
	opts := holders_chart.DefaultOptions()
	opts.Title = c.Title
	opts.XLabel = c.XLabel
	opts.YLabel = c.YLabel
	opts.Width = c.Width
	opts.Height = c.Height
	opts.TickRotation = c.TickRotation
	return opts
}

// renderAndShow is the whole program: load, render, save, present.
func renderAndShow(ctx context.Context, cfg *config.Config, presenter holders_chart.Presenter) error {
	series, err := dataset.Load(cfg.Dataset.Path, cfg.Dataset.DateColumn, cfg.Dataset.CountColumn)
	if err != nil {
		return err
	}

	chart, err := holders_chart.RenderChart(series.Dates, series.Counts, chartOptions(cfg.Chart))
	if err != nil {
		logging.LogError("Failed to render chart", zap.Error(err))
		return err
	}

	output, temp, err := chartOutput(cfg)
	if err != nil {
		logging.LogError("Failed to pick chart output", zap.Error(err))
		return err
	}
	// The desktop viewer reads the file after OpenFile returns, so only a
	// sent chart can be removed straight away.
	if temp && cfg.Display.Mode == config.DisplayTelegram {
		defer os.Remove(output)
	}

	if err := chart.SavePNG(output); err != nil {
		logging.LogError("Failed to save chart", zap.Error(err))
		return err
	}

	if err := presenter.Present(ctx, output); err != nil {
		logging.LogError("Failed to display chart", zap.String("mode", cfg.Display.Mode), zap.Error(err))
		return err
	}
	return nil
}

// chartOutput returns where the PNG is written. An explicit chart.output wins.
// Otherwise file mode uses config.DefaultFileOutput and the other modes get a
// temp file, so a plain run leaves nothing in the working directory.
func chartOutput(cfg *config.Config) (path string, temp bool, err error) {
	if cfg.Chart.Output != "" {
		return cfg.Chart.Output, false, nil
	}
	if cfg.Display.Mode == config.DisplayFile {
		return config.DefaultFileOutput, false, nil
	}
	path, err = fs.TempPath("holders_chart-*.png")
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
