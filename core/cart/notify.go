package cart

import "github.com/sirupsen/logrus"

type Level int

const (
	LevelSuccess Level = iota + 1
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "unknown"
}

const (
	MsgAdded   = "Product added to cart"
	MsgRemoved = "Product removed from cart"
)

// Notification is a toast shown to the shopper. An error level only styles
// the message; it does not mean something failed.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (l LogNotifier) Notify(n Notification) {
	log := l.Log.WithField("level", n.Level.String())
	if n.Level == LevelError {
		log.Warn(n.Message)
		return
	}
	log.Info(n.Message)
}
