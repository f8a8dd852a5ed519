// Package logging configures structured logging for Lexgate on top of
// log/slog. It maps the logging section of the configuration to a handler
// (JSON or text, with optional source locations) and provides context
// helpers for the identifiers that thread through a decision.
package logging
