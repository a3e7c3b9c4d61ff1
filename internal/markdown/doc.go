// Package markdown loads Markdown source files, extracts YAML frontmatter,
// and renders document bodies to HTML with Goldmark. It is the ingestion
// layer the content and generator packages build on.
package markdown
