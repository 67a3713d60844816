package status

import (
	"github.com/sirupsen/logrus"
)

// Notifier is the transient-notification surface. The editor-facing
// integrations show popups; the CLI maps these onto the component logger.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	// Transient shows a short-lived informational message (3s lifetime in
	// editor surfaces; a plain info line on the CLI).
	Transient(msg string)
}

// LogNotifier implements Notifier on top of a logrus entry.
type LogNotifier struct {
	Logger *logrus.Entry
}

func (n *LogNotifier) Info(msg string)  { n.Logger.Info(msg) }
func (n *LogNotifier) Warn(msg string)  { n.Logger.Warn(msg) }
func (n *LogNotifier) Error(msg string) { n.Logger.Error(msg) }

func (n *LogNotifier) Transient(msg string) { n.Logger.Info(msg) }
