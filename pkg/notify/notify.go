// Package notify is the user-visible, non-blocking message channel the
// engine reports through. Errors surfaced here are informational; nothing
// in the engine blocks on or retries through a notification.
package notify

// Severity classifies a notification for display purposes.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

// String returns a short label for the severity.
func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier is the single sink for user-visible messages.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a function to the Notifier interface.
type Func func(message string, severity Severity)

// Notify implements Notifier.
func (f Func) Notify(message string, severity Severity) {
	f(message, severity)
}

// Nop returns a Notifier that discards everything. Useful in tests.
func Nop() Notifier {
	return Func(func(string, Severity) {})
}
