package session

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notification is a transient user-facing message.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// notify must be called without s.mu held.
func (s *Session) notify(level Level, title, description string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(Notification{Level: level, Title: title, Description: description})
}
