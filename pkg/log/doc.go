// Package log wraps zerolog with a global logger and component-scoped
// child loggers, adapted from warren's pkg/log. Init must be
// called once at process start; packages that log before Init (or a
// test that never calls it) get a zero-value zerolog.Logger, which
// discards writes rather than panicking.
package log
