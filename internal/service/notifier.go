package service

// Notifier delivers live events to dashboard consumers. Delivery is
// best-effort; the engine never blocks or fails on it.
type Notifier interface {
	NotifyDashboard(event string, payload interface{})
	NotifySession(sessionID string, event string, payload interface{})
}
