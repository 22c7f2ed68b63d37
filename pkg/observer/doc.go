// Package observer implements the asynchronous, commit-ordered observer
// delivery mechanism referenced by spec §4.10/§5 (C10's observer half):
// a channel-and-goroutine broker, adapted from warren's pkg/events, that
// fans a committed transaction's ObserverEvent out to every subscriber
// without ever letting a callback observe an in-progress mutation.
package observer
