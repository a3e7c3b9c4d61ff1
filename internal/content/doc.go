// Package content turns parsed Markdown documents and YAML data files into
// the site's domain model: dated posts, standalone pages, and data-driven
// listings. Classification is by source location (everything under the posts
// directory is a post), publish dates come from frontmatter or the
// YYYY/MM/DD directory path, and ordering is deterministic.
package content
