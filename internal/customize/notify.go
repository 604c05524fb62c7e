package customize

import "log/slog"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Notifier shows short, non-blocking messages (toasts in the editor, log lines elsewhere).
type Notifier interface {
	Notify(level Level, msg string)
}

type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(level Level, msg string) {
	l := n.Logger
	if l == nil {
		l = slog.Default()
	}
	if level == LevelWarning {
		l.Warn(msg)
		return
	}
	l.Info(msg, "level", string(level))
}
