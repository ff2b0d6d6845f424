package log

// Two-sink logger for the chart CLI
// File sink receives every level with structured fields
// Console sink only shows SUCCESS and ERROR lines for the operator

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Logger is the file logger. It stays a no-op until Init succeeds.
var Logger = zap.NewNop()
var consoleLogger = zap.NewNop()

var (
	initMu    sync.Mutex
	logFile   *rotatingLogWriter
	bufPool   = buffer.NewPool()
	logsDirIn string
)

// Init opens <logsDir>/app.log and builds both loggers.
// Calling it again with the same directory is a no-op.
func Init(logsDir string) error {
	initMu.Lock()
	defer initMu.Unlock()

	if logFile != nil && logsDirIn == logsDir {
		return nil
	}
	if logsDir == "" {
		logsDir = "logs"
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	writer, err := openLogFile(filepath.Join(logsDir, "app.log"))
	if err != nil {
		return err
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	fileCore := zapcore.NewCore(
		&fieldsJSONEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)},
		zapcore.AddSync(writer),
		zapcore.DebugLevel,
	)

	consoleConfig := zap.NewDevelopmentConfig()
	consoleConfig.EncoderConfig.EncodeLevel = consoleLevelEncoder
	consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncoderConfig.EncodeCaller = nil
	consoleConfig.Development = false
	consoleConfig.DisableStacktrace = true
	consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	console, err := consoleConfig.Build()
	if err != nil {
		writer.Close()
		return fmt.Errorf("failed to build console logger: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = writer
	logsDirIn = logsDir
	Logger = zap.New(fileCore)
	consoleLogger = console
	return nil
}

// Sync flushes both sinks. Errors from syncing a terminal are ignored.
func Sync() {
	_ = Logger.Sync()
	_ = consoleLogger.Sync()
}

// GenerateRequestID returns a random id used to correlate outbound calls.
func GenerateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func consoleLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset)
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

// LogInfo writes to the file only.
func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the file and prints a check-marked console line.
func LogSuccess(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
	if ms := durationMs(fields); ms > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, ms))
		return
	}
	consoleLogger.Info("✓ " + message)
}

// LogError writes to the file and prints a cross-marked console line.
func LogError(message string, fields ...zap.Field) {
	Logger.Error(message, fields...)
	if ms := durationMs(fields); ms > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, ms))
		return
	}
	consoleLogger.Error("✗ " + message)
}

func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
}

func durationMs(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

// MaxLogFileSize caps app.log; the file is truncated when it grows past it.
const MaxLogFileSize = 20 * 1024 * 1024

type rotatingLogWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
}

func openLogFile(path string) (*rotatingLogWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if info, err := os.Stat(path); err == nil && info.Size() > MaxLogFileSize {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &rotatingLogWriter{file: file, path: path}, nil
}

func (w *rotatingLogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := w.file.Stat(); err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()
		file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
		w.file = file
	}
	return w.file.Write(p)
}

func (w *rotatingLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func (w *rotatingLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// fieldsJSONEncoder renders "time     LEVEL message\t{fields}" lines.
type fieldsJSONEncoder struct {
	zapcore.Encoder
}

func (e *fieldsJSONEncoder) Clone() zapcore.Encoder {
	return &fieldsJSONEncoder{Encoder: e.Encoder.Clone()}
}

func (e *fieldsJSONEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufPool.Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, field := range fields {
			field.AddTo(enc)
		}
		if data, err := json.Marshal(enc.Fields); err == nil {
			buf.AppendString("\t")
			buf.Write(data)
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
