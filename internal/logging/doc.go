// Package logging builds the slog loggers used across curator.
//
// It provides a console handler that prints one line per record with a
// component prefix and key=value attributes, a JSON handler for machine
// consumption, attribute helper aliases, context-derived fields (run ID and
// stage name), and a sampler that keeps bulk-transfer progress logs readable.
package logging
