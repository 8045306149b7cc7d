// Package match derives display titles from identifiers and ranks known
// names against unknown tokens for "did you mean" suggestions.
package match
