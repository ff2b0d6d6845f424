package holders_chart

import (
	"context"
	"time"

	"iacs-holders/internal/infra/exec"
	logging "iacs-holders/internal/infra/log"

	"go.uber.org/zap"
)

// Presenter shows a rendered chart file to the user.
type Presenter interface {
	Present(ctx context.Context, chartPath string) error
}

// WindowPresenter opens the chart in the desktop image viewer.
type WindowPresenter struct {
	Timeout time.Duration
}

func (p WindowPresenter) Present(ctx context.Context, chartPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := exec.OpenFile(chartPath, timeout); err != nil {
		return &RenderError{Op: "open viewer", Path: chartPath, Err: err}
	}
	logging.LogSuccess("Chart opened in viewer", zap.String("path", chartPath))
	return nil
}

// FilePresenter is the headless surface: the saved PNG is the result.
type FilePresenter struct{}

func (FilePresenter) Present(ctx context.Context, chartPath string) error {
	logging.LogSuccess("Chart written to " + chartPath)
	return nil
}

type PhotoSender interface {
	SendPhoto(ctx context.Context, chatID, path, caption string) error
}

// TelegramPresenter posts the chart as a photo to a chat.
type TelegramPresenter struct {
	Sender  PhotoSender
	ChatID  string
	Caption string
}

func (p TelegramPresenter) Present(ctx context.Context, chartPath string) error {
	if err := p.Sender.SendPhoto(ctx, p.ChatID, chartPath, p.Caption); err != nil {
		return &RenderError{Op: "send telegram", Path: chartPath, Err: err}
	}
	return nil
}
