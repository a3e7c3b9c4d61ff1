// Package siteconfig loads and validates site.yaml, the declarative
// configuration a site author checks in next to their content. Structural
// validation happens against an embedded JSON schema so unknown keys and
// type mismatches fail the build with precise locations; semantic checks
// (absolute base URL, rooted nav paths, tag bounds) run after decoding.
package siteconfig
