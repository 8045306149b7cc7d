// Package diagnostic provides structured infos, warnings, and errors
// collected while resolving YAML schema declarations.
//
// Key capabilities:
//   - Skipped declaration notes (empty values)
//   - Unknown and unsupported kind warnings with suggestions
//   - Dropped array/object shape reports
//   - Aggregation across schemas and filesets
package diagnostic
