package telegram

// Telegram Bot API client for delivering rendered charts
// Sends are rate limited, wrapped in a circuit breaker and retried on 429/5xx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"iacs-holders/internal/infra/log"
	"iacs-holders/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// sender is the part of *tgbotapi.BotAPI the client needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	Retry        retry.Options
	Rate         rate.Limit
	Burst        int
	BreakerTrips uint32 // consecutive failures before the breaker opens
}

var DefaultOptions = Options{
	Retry: retry.Options{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   30 * time.Second,
	},
	Rate:         rate.Every(time.Second), // Telegram allows ~1 msg/s per chat
	Burst:        1,
	BreakerTrips: 5,
}

type Client struct {
	bot            sender
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retry          retry.Options
}

// NewClient authorizes token against the Bot API.
func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	log.LogSuccess("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	return newClient(bot, DefaultOptions), nil
}

func newClient(bot sender, opts Options) *Client {
	trips := opts.BreakerTrips
	if trips == 0 {
		trips = DefaultOptions.BreakerTrips
	}
	return &Client{
		bot:         bot,
		rateLimiter: rate.NewLimiter(opts.Rate, opts.Burst),
		circuitBreaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "TelegramAPI",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= trips
			},
		}),
		retry: opts.Retry,
	}
}

// photoConfig builds a photo upload for a numeric chat id or an @channel name.
func photoConfig(chatID, path, caption string) (tgbotapi.PhotoConfig, error) {
	chatID = strings.TrimSpace(chatID)
	file := tgbotapi.FilePath(path)

	var photo tgbotapi.PhotoConfig
	if strings.HasPrefix(chatID, "@") {
		photo = tgbotapi.NewPhotoToChannel(chatID, file)
	} else {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return photo, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
		}
		photo = tgbotapi.NewPhoto(id, file)
	}
	photo.Caption = caption
	return photo, nil
}

// toAPIError lifts Bot API failures into retry.APIError so 429/5xx are retried.
func toAPIError(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return &retry.APIError{
			StatusCode: tgErr.Code,
			Message:    tgErr.Message,
			RetryAfter: time.Duration(tgErr.RetryAfter) * time.Second,
		}
	}
	return err
}

// SendPhoto uploads the image at path to chatID.
func (c *Client) SendPhoto(ctx context.Context, chatID, path, caption string) error {
	requestID := log.GenerateRequestID()
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("photo not found: %w", err)
	}
	photo, err := photoConfig(chatID, path, caption)
	if err != nil {
		return err
	}

	log.LogInfo("Telegram sendPhoto", zap.String("request_id", requestID), zap.String("chat_id", chatID), zap.String("path", path))

	err = retry.Do(ctx, c.retry, func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			msg, err := c.bot.Send(photo)
			if err != nil {
				return nil, toAPIError(err)
			}
			return msg, nil
		})
		return err
	})

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.LogWarn("Telegram circuit breaker is open", zap.String("request_id", requestID))
		}
		log.LogError("Failed to send chart to Telegram", append(fields, zap.Error(err))...)
		return fmt.Errorf("telegram sendPhoto failed: %w", err)
	}

	log.LogSuccess("Chart sent to Telegram", fields...)
	return nil
}
