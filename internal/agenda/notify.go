package agenda

import "go.uber.org/zap"

// Notifier recibe los avisos que en el front-end eran toasts
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier manda los avisos al logger
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info("✅ " + message)
}

func (n *LogNotifier) Error(message string) {
	n.logger.Warn("⚠️  " + message)
}
