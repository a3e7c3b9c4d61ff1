package content

import (
	"testing"
	"time"
)

func TestDateFromPath(t *testing.T) {
	date, ok := DateFromPath("blog/posts/2024/03/14/iterators.md", "blog/posts")
	if !ok {
		t.Fatalf("expected date to be inferred")
	}
	want := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Fatalf("expected %s, got %s", want, date)
	}
}

func TestDateFromPath_NoMatch(t *testing.T) {
	cases := map[string]string{
		"too shallow":       "blog/posts/2024/03/iterators.md",
		"non-numeric":       "blog/posts/year/03/14/iterators.md",
		"short year":        "blog/posts/24/03/14/iterators.md",
		"unpadded month":    "blog/posts/2024/3/14/iterators.md",
		"impossible month":  "blog/posts/2024/13/14/iterators.md",
		"impossible day":    "blog/posts/2024/02/31/iterators.md",
		"outside posts dir": "docs/2024/03/14/iterators.md",
	}

	for name, path := range cases {
		if _, ok := DateFromPath(path, "blog/posts"); ok {
			t.Fatalf("%s: expected no date for %s", name, path)
		}
	}
}

func TestIsPostPath(t *testing.T) {
	if !IsPostPath("blog/posts/2024/03/14/iterators.md", "blog/posts") {
		t.Fatalf("expected post path to match")
	}
	if IsPostPath("blog/postscript/2024/03/14/x.md", "blog/posts") {
		t.Fatalf("expected sibling directory not to match")
	}
	if IsPostPath("about.md", "blog/posts") {
		t.Fatalf("expected page not to match")
	}
	if IsPostPath("about.md", "") {
		t.Fatalf("expected empty posts dir to match nothing")
	}
}
