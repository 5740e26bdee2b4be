// Package services defines shared utilities consumed by the pipeline
// components.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that separate fatal
//     setup failures from per-job transfer failures.
package services
