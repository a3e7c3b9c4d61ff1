package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitegen/internal/markdown"
)

func newTestValidator(tb testing.TB, rules Rules) *Service {
	tb.Helper()

	md, err := markdown.NewService(markdown.Config{
		BasePath:      "testdata",
		DefaultLocale: "en",
		Pattern:       "*.md",
		Recursive:     true,
	}, nil)
	if err != nil {
		tb.Fatalf("markdown.NewService: %v", err)
	}

	svc, err := NewService(Config{PostsDir: "posts", Rules: rules}, md, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestValidateTree(t *testing.T) {
	svc := newTestValidator(t, DefaultRules())

	result, err := svc.ValidateTree(context.Background())
	if err != nil {
		t.Fatalf("ValidateTree: %v", err)
	}

	if result.Checked != 4 {
		t.Fatalf("expected 4 checked posts, got %d", result.Checked)
	}
	if !result.Failed() {
		t.Fatalf("expected validation failures")
	}

	failing := result.FilesWithIssues()
	if len(failing) != 3 {
		t.Fatalf("expected 3 failing files, got %v", failing)
	}

	byPath := map[string]int{}
	for _, issue := range result.Issues {
		byPath[issue.Path]++
	}
	if byPath["posts/2024/05/02/bad.md"] != 3 {
		t.Fatalf("expected 3 issues for bad.md, got %d", byPath["posts/2024/05/02/bad.md"])
	}
	if byPath["posts/2024/05/03/no-frontmatter.md"] != 1 {
		t.Fatalf("expected 1 issue for missing frontmatter, got %d", byPath["posts/2024/05/03/no-frontmatter.md"])
	}
	if byPath["posts/2024/05/04/too-many-tags.md"] != 1 {
		t.Fatalf("expected 1 issue for tag overflow, got %d", byPath["posts/2024/05/04/too-many-tags.md"])
	}
	if byPath["posts/2024/05/01/good.md"] != 0 {
		t.Fatalf("expected no issues for good.md, got %d", byPath["posts/2024/05/01/good.md"])
	}
}

func TestValidateTree_WithVocabulary(t *testing.T) {
	rules := DefaultRules()
	rules.AllowedTags = []string{"Python", "Testing"}
	svc := newTestValidator(t, rules)

	result, err := svc.ValidateTree(context.Background())
	if err != nil {
		t.Fatalf("ValidateTree: %v", err)
	}

	// too-many-tags.md now also violates the vocabulary with Docker/Pandas/
	// Development on top of its arity issue.
	count := 0
	for _, issue := range result.Issues {
		if issue.Path == "posts/2024/05/04/too-many-tags.md" {
			count++
		}
	}
	if count != 4 {
		t.Fatalf("expected 4 issues for too-many-tags.md, got %d", count)
	}
}

func TestNewService_RequiresMarkdown(t *testing.T) {
	if _, err := NewService(Config{}, nil, nil); !errors.Is(err, ErrMarkdownServiceRequired) {
		t.Fatalf("expected ErrMarkdownServiceRequired, got %v", err)
	}
}

func TestValidateTree_CancelledContext(t *testing.T) {
	svc := newTestValidator(t, DefaultRules())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.ValidateTree(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
