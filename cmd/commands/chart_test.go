package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"iacs-holders/internal/dataset"
	"iacs-holders/internal/features/holders_chart"
	"iacs-holders/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePresenter struct {
	paths []string
}

func (p *capturePresenter) Present(ctx context.Context, chartPath string) error {
	p.paths = append(p.paths, chartPath)
	return nil
}

func testConfig(t *testing.T, csv string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "iacs_metrics_cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	return &config.Config{
		Dataset: config.DatasetConfig{
			Path:        path,
			DateColumn:  "Date",
			CountColumn: "Unique Holders (Cumulative)",
		},
		Chart: config.ChartConfig{
			Title:        "$IACS Unique Holders Over Time",
			XLabel:       "Date",
			YLabel:       "Unique Holders",
			Width:        1000,
			Height:       600,
			TickRotation: 45,
			Output:       filepath.Join(dir, "charts", "holders_chart.png"),
		},
		Display: config.DisplayConfig{Mode: config.DisplayFile},
	}
}

func TestRenderAndShow(t *testing.T) {
	cfg := testConfig(t, "Date,Unique Holders (Cumulative)\n2024-01-01,10\n2024-01-02,25\n2024-01-03,40\n")
	presenter := &capturePresenter{}

	require.NoError(t, renderAndShow(context.Background(), cfg, presenter))
	assert.Equal(t, []string{cfg.Chart.Output}, presenter.paths)
	assert.FileExists(t, cfg.Chart.Output)
}

func TestRenderAndShow_DefaultWindowLeavesWorkingDirClean(t *testing.T) {
	cfg := testConfig(t, "Date,Unique Holders (Cumulative)\n2024-01-01,10\n2024-01-02,25\n")
	cfg.Chart.Output = ""
	cfg.Display.Mode = config.DisplayWindow
	wd := t.TempDir()
	t.Chdir(wd)
	presenter := &capturePresenter{}

	require.NoError(t, renderAndShow(context.Background(), cfg, presenter))
	require.Len(t, presenter.paths, 1)
	t.Cleanup(func() { os.Remove(presenter.paths[0]) })

	assert.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(presenter.paths[0]))
	assert.FileExists(t, presenter.paths[0])
	entries, err := os.ReadDir(wd)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderAndShow_TelegramRemovesTempChart(t *testing.T) {
	cfg := testConfig(t, "Date,Unique Holders (Cumulative)\n2024-01-01,10\n")
	cfg.Chart.Output = ""
	cfg.Display.Mode = config.DisplayTelegram
	presenter := &capturePresenter{}

	require.NoError(t, renderAndShow(context.Background(), cfg, presenter))
	require.Len(t, presenter.paths, 1)
	assert.NoFileExists(t, presenter.paths[0])
}

func TestChartOutput(t *testing.T) {
	path, temp, err := chartOutput(&config.Config{
		Chart:   config.ChartConfig{Output: "out/chart.png"},
		Display: config.DisplayConfig{Mode: config.DisplayWindow},
	})
	require.NoError(t, err)
	assert.Equal(t, "out/chart.png", path)
	assert.False(t, temp)

	path, temp, err = chartOutput(&config.Config{Display: config.DisplayConfig{Mode: config.DisplayFile}})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFileOutput, path)
	assert.False(t, temp)
}

func TestRenderAndShow_HeaderOnly(t *testing.T) {
	cfg := testConfig(t, "Date,Unique Holders (Cumulative)\n")
	presenter := &capturePresenter{}

	require.NoError(t, renderAndShow(context.Background(), cfg, presenter))
	assert.FileExists(t, cfg.Chart.Output)
}

func TestRenderAndShow_MissingColumnDoesNotRender(t *testing.T) {
	cfg := testConfig(t, "Date,Holders\n2024-01-01,10\n")
	presenter := &capturePresenter{}

	err := renderAndShow(context.Background(), cfg, presenter)
	var colErr *dataset.MissingColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Unique Holders (Cumulative)", colErr.Column)

	assert.NoFileExists(t, cfg.Chart.Output)
	assert.Empty(t, presenter.paths)
}

func TestRenderAndShow_MissingFile(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.csv")

	err := renderAndShow(context.Background(), cfg, &capturePresenter{})
	var loadErr *dataset.DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, cfg.Dataset.Path, loadErr.Path)
}

func TestNewPresenter(t *testing.T) {
	p, err := newPresenter(&config.Config{Display: config.DisplayConfig{Mode: config.DisplayFile}})
	require.NoError(t, err)
	assert.IsType(t, holders_chart.FilePresenter{}, p)

	p, err = newPresenter(&config.Config{Display: config.DisplayConfig{Mode: config.DisplayWindow, ViewerTimeout: 3}})
	require.NoError(t, err)
	require.IsType(t, holders_chart.WindowPresenter{}, p)
	assert.Equal(t, "3s", p.(holders_chart.WindowPresenter).Timeout.String())
}

func TestRootCommand_FileMode(t *testing.T) {
	cfg := testConfig(t, "Date,Unique Holders (Cumulative)\n2024-01-01,10\n2024-01-02,25\n")

	rootCmd.SetArgs([]string{
		"--dataset.path", cfg.Dataset.Path,
		"--chart.output", cfg.Chart.Output,
		"--display.mode", "file",
		"--app.logs_dir", filepath.Join(t.TempDir(), "logs"),
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	assert.FileExists(t, cfg.Chart.Output)
}
