package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Rules is the frontmatter contract enforced over blog posts.
type Rules struct {
	// MinTags and MaxTags bound the tag list arity.
	MinTags int
	MaxTags int
	// RequireComments demands an explicit `comments: true` key.
	RequireComments bool
	// RequireDescription demands a non-empty description.
	RequireDescription bool
	// AllowedTags restricts tags to a vocabulary when non-empty. Matching is
	// case-insensitive.
	AllowedTags []string
}

// DefaultRules carries the historical content contract: a description, two to
// four tags, and comments switched on.
func DefaultRules() Rules {
	return Rules{
		MinTags:            2,
		MaxTags:            4,
		RequireComments:    true,
		RequireDescription: true,
	}
}

// Issue is one contract violation in one file.
type Issue struct {
	Path    string
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Path, i.Field, i.Message)
}

// Result aggregates a validation run.
type Result struct {
	Checked int
	Issues  []Issue
}

// Failed reports whether any file violated the contract.
func (r *Result) Failed() bool {
	return len(r.Issues) > 0
}

// FilesWithIssues lists the distinct offending paths in sorted order.
func (r *Result) FilesWithIssues() []string {
	seen := map[string]struct{}{}
	for _, issue := range r.Issues {
		seen[issue.Path] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Report renders the per-file issue list the CLI prints on failure.
func (r *Result) Report() string {
	if !r.Failed() {
		return fmt.Sprintf("all %d post(s) passed frontmatter validation", r.Checked)
	}

	grouped := map[string][]Issue{}
	for _, issue := range r.Issues {
		grouped[issue.Path] = append(grouped[issue.Path], issue)
	}

	var b strings.Builder
	b.WriteString("frontmatter validation failed:\n")
	for _, path := range r.FilesWithIssues() {
		fmt.Fprintf(&b, "\n%s:\n", path)
		for _, issue := range grouped[path] {
			fmt.Fprintf(&b, "  - %s\n", issue.Message)
		}
	}
	return b.String()
}

// CheckFrontMatter applies the contract to one file's frontmatter.
func CheckFrontMatter(path string, fm interfaces.FrontMatter, rules Rules) []Issue {
	if !fm.Present {
		return []Issue{{Path: path, Message: "missing frontmatter"}}
	}

	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Path: path, Field: field, Message: message})
	}

	if rules.RequireDescription && strings.TrimSpace(fm.Description) == "" {
		add("description", "missing or empty description")
	}

	switch {
	case len(fm.Tags) == 0:
		add("tags", "missing or empty tags")
	case len(fm.Tags) < rules.MinTags:
		add("tags", fmt.Sprintf("tags must have at least %d items", rules.MinTags))
	case len(fm.Tags) > rules.MaxTags:
		add("tags", fmt.Sprintf("tags must have at most %d items", rules.MaxTags))
	}

	if len(rules.AllowedTags) > 0 {
		for _, tag := range fm.Tags {
			if !tagAllowed(tag, rules.AllowedTags) {
				add("tags", fmt.Sprintf("tag %q is not in the allowed vocabulary", tag))
			}
		}
	}

	if rules.RequireComments && (fm.Comments == nil || !*fm.Comments) {
		add("comments", "missing or invalid comments: true")
	}

	return issues
}

func tagAllowed(tag string, allowed []string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}
