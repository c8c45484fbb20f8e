// Package logger provides structured logging built on zerolog, with
// component-tagged sub-loggers, a global logger for middleware, and
// console or JSON output selected by configuration.
package logger
