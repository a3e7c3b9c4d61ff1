package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	slugpkg "github.com/goliatone/go-slug"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	newTags  []string
	newDraft bool
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a dated post with a front matter skeleton",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path, err := scaffoldPost(appConfig.SourceDir, appConfig.Markdown.ContentDir, appConfig.Content.PostsDir, args[0], newTags, newDraft, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", path)
		return nil
	},
}

// scaffoldPost writes a new post under <postsDir>/YYYY/MM/DD/<slug>.md so the
// publish date can be recovered from the path alone.
func scaffoldPost(sourceDir, contentDir, postsDir, title string, tags []string, draft bool, now time.Time) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("new: title is required")
	}

	slug, err := slugpkg.Normalize(title)
	if err != nil || slug == "" {
		return "", fmt.Errorf("new: cannot derive a slug from %q", title)
	}

	now = now.UTC()
	dir := filepath.Join(sourceDir, contentDir, filepath.FromSlash(postsDir), now.Format("2006/01/02"))
	path := filepath.Join(dir, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("new: %s already exists", path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("new: create %s: %w", dir, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", postTitle(title, slug))
	b.WriteString("description: \"\"\n")
	fmt.Fprintf(&b, "date: %s\n", now.Format("2006-01-02"))
	if len(tags) > 0 {
		fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(tags, ", "))
	} else {
		b.WriteString("tags: []\n")
	}
	if draft {
		b.WriteString("draft: true\n")
	}
	b.WriteString("---\n\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("new: write %s: %w", path, err)
	}
	return path, nil
}

// postTitle keeps the title as typed unless it is all lowercase, in which
// case the slug words get title-cased.
func postTitle(title, slug string) string {
	if title != strings.ToLower(title) {
		return title
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(words)
}

func init() {
	newCmd.Flags().StringSliceVar(&newTags, "tags", nil, "tags to seed the front matter with")
	newCmd.Flags().BoolVar(&newDraft, "draft", false, "mark the post as a draft")
	rootCmd.AddCommand(newCmd)
}
