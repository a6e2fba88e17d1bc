package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"rssreader/internal/config"
	"runtime"
	"strings"
	"time"
)

// New создает логгер CLI на основе конфигурации.
// Записи уровня ERROR и выше всегда идут в errOut одной строкой,
// остальные - в файл cfg.File, если он задан, иначе тоже в errOut.
// Возвращаемая функция закрывает открытый файл логов.
func New(cfg config.LoggerConfig, errOut io.Writer) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }
	out := errOut
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		out = f
		closer = f.Close
	}
	handler := NewLevelDispatcherHandler(out, errOut, &slog.HandlerOptions{
		AddSource: cfg.Level == "debug",
		Level:     ParseLevel(cfg.Level),
	})
	return slog.New(handler), closer, nil
}

// ParseLevel преобразует строковое представление уровня логирования в slog.Level.
// Неизвестные значения дают slog.LevelError.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// LevelDispatcherHandler реализует slog.Handler с маршрутизацией сообщений по уровням.
// Сообщения уровня ERROR и выше направляются в errorHandler, остальные - в defaultHandler.
type LevelDispatcherHandler struct {
	defaultHandler slog.Handler
	errorHandler   slog.Handler
}

// NewLevelDispatcherHandler создает обработчик с маршрутизацией по уровням.
func NewLevelDispatcherHandler(defaultOut, errorOut io.Writer, opts *slog.HandlerOptions) *LevelDispatcherHandler {
	return &LevelDispatcherHandler{
		defaultHandler: NewReadableHandler(defaultOut, opts),
		errorHandler:   NewReadableHandler(errorOut, opts),
	}
}

func (h *LevelDispatcherHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.defaultHandler.Enabled(ctx, level)
}

func (h *LevelDispatcherHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.errorHandler.Handle(ctx, r)
	}
	return h.defaultHandler.Handle(ctx, r)
}

func (h *LevelDispatcherHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelDispatcherHandler{
		defaultHandler: h.defaultHandler.WithAttrs(attrs),
		errorHandler:   h.errorHandler.WithAttrs(attrs),
	}
}

func (h *LevelDispatcherHandler) WithGroup(name string) slog.Handler {
	return &LevelDispatcherHandler{
		defaultHandler: h.defaultHandler.WithGroup(name),
		errorHandler:   h.errorHandler.WithGroup(name),
	}
}

// ReadableHandler реализует slog.Handler с удобочитаемым однострочным форматом:
//
//	[15:04:05.000] LEVEL [component] (op) <file:line>: message | key=value, ...
type ReadableHandler struct {
	w     io.Writer
	opts  *slog.HandlerOptions
	attrs []slog.Attr
}

// NewReadableHandler создает обработчик с читаемым форматированием.
// Если opts равен nil, используются настройки по умолчанию.
func NewReadableHandler(w io.Writer, opts *slog.HandlerOptions) *ReadableHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ReadableHandler{w: w, opts: opts}
}

func (h *ReadableHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle форматирует и записывает запись лога одной строкой.
// Атрибуты component и op выносятся в префикс, остальные перечисляются после сообщения.
func (h *ReadableHandler) Handle(_ context.Context, r slog.Record) error {
	var component, operation string
	var attrParts []string
	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "component":
			component = a.Value.String()
		case "op":
			operation = a.Value.String()
		default:
			attrParts = append(attrParts, h.formatAttr(a))
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	var line strings.Builder
	fmt.Fprintf(&line, "[%s] %s", r.Time.Format("15:04:05.000"), formatLevel(r.Level))
	if component != "" {
		fmt.Fprintf(&line, " [%s]", component)
	}
	if operation != "" {
		fmt.Fprintf(&line, " (%s)", operation)
	}
	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(&line, " <%s:%d>", filepath.Base(frame.File), frame.Line)
	}
	line.WriteString(": ")
	line.WriteString(r.Message)
	if len(attrParts) > 0 {
		line.WriteString(" | ")
		line.WriteString(strings.Join(attrParts, ", "))
	}
	line.WriteByte('\n')
	_, err := io.WriteString(h.w, line.String())
	return err
}

func formatLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// formatAttr форматирует атрибут в зависимости от ключа.
// Ошибки берутся в кавычки, длинные URL сокращаются до схемы и хоста.
func (h *ReadableHandler) formatAttr(attr slog.Attr) string {
	switch attr.Key {
	case "error":
		return fmt.Sprintf("error=%q", attr.Value.String())
	case "url":
		return fmt.Sprintf("url=%s", shortenURL(attr.Value.String()))
	case "duration":
		if attr.Value.Kind() == slog.KindDuration {
			return fmt.Sprintf("duration=%s", attr.Value.Duration().Round(time.Millisecond))
		}
	}
	return fmt.Sprintf("%s=%s", attr.Key, attr.Value.String())
}

// shortenURL сокращает URL длиннее 50 символов до схемы и домена.
func shortenURL(url string) string {
	if len(url) > 50 {
		parts := strings.Split(url, "/")
		if len(parts) >= 3 {
			return fmt.Sprintf("%s//%s/...", parts[0], parts[2])
		}
	}
	return url
}

func (h *ReadableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ReadableHandler{w: h.w, opts: h.opts, attrs: merged}
}

// WithGroup не поддерживает вложенность: группы не используются в приложении.
func (h *ReadableHandler) WithGroup(_ string) slog.Handler {
	return h
}
