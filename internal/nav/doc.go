// Package nav owns the site's URL scheme and navigation rendering.
//
// One urlkit route table defines how posts, pages, tag indexes, and year
// archives map to URLs, with locale-prefixed child groups for translated
// content. Menu building marks the active entry and its trail for the
// current route.
package nav
