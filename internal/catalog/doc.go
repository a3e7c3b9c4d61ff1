// Package catalog persists discovered content and build history.
//
// Entries mirror the classified source tree (posts and pages keyed by
// source path, diffed by checksum) so repeated builds and CLI queries do
// not have to re-parse Markdown. Storage runs on bun over SQLite by
// default, with a Postgres option selected by driver name, and an
// in-memory implementation for tests and cache-less runs.
package catalog
