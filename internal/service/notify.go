package service

import "go.uber.org/zap"

type NotificationKind string

const (
	NOTIFY_SUCCESS NotificationKind = "success"
	NOTIFY_ERROR   NotificationKind = "error"
)

// Notification is one user-facing outcome message. Services emit exactly one
// per settled action.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Details string
}

type Notifier interface {
	Notify(n Notification)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier routes notifications to the log, for headless use.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(notification Notification) {
	if notification.Kind == NOTIFY_ERROR {
		n.logger.Sugar().Errorf("%s: %s", notification.Title, notification.Details)
		return
	}
	n.logger.Sugar().Infof("%s: %s", notification.Title, notification.Details)
}

type channelNotifier struct {
	ch chan Notification
}

// NewChannelNotifier buffers notifications on a channel for a UI to drain.
// When the buffer is full the oldest notification is dropped first.
func NewChannelNotifier(buffer int) (Notifier, <-chan Notification) {
	n := &channelNotifier{ch: make(chan Notification, buffer)}
	return n, n.ch
}

func (n *channelNotifier) Notify(notification Notification) {
	for {
		select {
		case n.ch <- notification:
			return
		default:
			select {
			case <-n.ch:
			default:
			}
		}
	}
}
