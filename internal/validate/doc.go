// Package validate enforces the publishing contract over blog post
// frontmatter: a non-empty description, two to four tags drawn from the
// configured vocabulary, and comments explicitly enabled.
package validate
