// Package linkcheck resolves internal references inside rendered content.
//
// It walks the Markdown AST of each document, classifies every link and
// image destination, and verifies that internal targets map to a known
// route or a file in the source tree. Anchor fragments are checked against
// the auto-generated heading IDs of the same document. External URLs are
// counted but never fetched.
package linkcheck
