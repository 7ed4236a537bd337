package logging

import (
	"go.uber.org/zap/zaptest/observer"
)

// FilterMessages returns the observed entries at or above minLevel whose message equals msg.
func FilterMessages(logs *observer.ObservedLogs, minLevel Level, msg string) []observer.LoggedEntry {
	return logs.Filter(func(entry observer.LoggedEntry) bool {
		return entry.Level >= minLevel.AsZap() && entry.Message == msg
	}).All()
}
