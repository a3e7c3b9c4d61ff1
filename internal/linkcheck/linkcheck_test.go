package linkcheck

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func TestExtractRefs(t *testing.T) {
	source := []byte(`# Iterators All The Way Down

See [the config post](/blog/2024/01/05/config-files/) and
[the intro](#iterators-all-the-way-down).

![diagram](images/diagram.png)

Autolink: https://example.dev/elsewhere
`)

	refs, err := ExtractRefs(source)
	if err != nil {
		t.Fatalf("ExtractRefs: %v", err)
	}

	if len(refs.Links) != 3 {
		t.Fatalf("expected 3 links, got %v", refs.Links)
	}
	if len(refs.Images) != 1 || refs.Images[0] != "images/diagram.png" {
		t.Fatalf("unexpected images: %v", refs.Images)
	}
	if _, ok := refs.Anchors["iterators-all-the-way-down"]; !ok {
		t.Fatalf("expected auto heading ID, got %v", refs.Anchors)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]linkKind{
		"https://example.dev/":  kindExternal,
		"mailto:dev@example.io": kindExternal,
		"//cdn.example.dev/x":   kindExternal,
		"#section":              kindAnchor,
		"/blog/":                kindInternal,
		"../sibling/":           kindInternal,
		"  ":                    kindMalformed,
	}
	for dest, want := range cases {
		if got := classify(dest); got != want {
			t.Fatalf("classify(%q) = %d, want %d", dest, got, want)
		}
	}
}

func TestNormalizeRoute(t *testing.T) {
	cases := map[string]string{
		"/blog":                        "/blog/",
		"/blog/":                       "/blog/",
		"/blog/index.html":             "/blog/",
		"/feed.xml":                    "/feed.xml",
		"":                             "/",
		"/":                            "/",
		"blog/2024/01/05/config-files": "/blog/2024/01/05/config-files/",
	}
	for in, want := range cases {
		if got := normalizeRoute(in); got != want {
			t.Fatalf("normalizeRoute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheck(t *testing.T) {
	body := []byte(`# Iterators All The Way Down

Good: [config post](/blog/2024/01/05/config-files/)
Good relative: [sibling](../../../01/05/config-files/)
Good anchor: [top](#iterators-all-the-way-down)
Good file: ![diagram](images/diagram.png)
Good feed: [feed](/feed.xml)
External: [docs](https://example.dev/docs)
Bad route: [gone](/blog/2020/01/01/removed/)
Bad anchor: [nowhere](#missing-section)
`)

	doc := &interfaces.Document{
		FilePath: "blog/posts/2024/03/14/iterators.md",
		Body:     body,
	}

	files := fstest.MapFS{
		"blog/posts/2024/03/14/images/diagram.png": &fstest.MapFile{Data: []byte("png")},
	}

	svc := NewService(nil)
	report, err := svc.Check(context.Background(), []DocumentRef{
		{Doc: doc, Route: "/blog/2024/03/14/iterators/"},
	}, KnownTargets{
		Routes: []string{
			"/blog/2024/03/14/iterators/",
			"/blog/2024/01/05/config-files/",
			"/feed.xml",
		},
		Files: files,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if report.Documents != 1 {
		t.Fatalf("expected 1 document, got %d", report.Documents)
	}
	if report.External != 1 {
		t.Fatalf("expected 1 external link, got %d", report.External)
	}
	if len(report.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", report.Issues)
	}

	reasons := map[string]string{}
	for _, issue := range report.Issues {
		reasons[issue.Destination] = issue.Reason
	}
	if reasons["/blog/2020/01/01/removed/"] != "no matching route or file" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
	if reasons["#missing-section"] != "anchor not found" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}

	if !report.Failed() {
		t.Fatalf("expected failure")
	}
	rendered := report.Render()
	if !strings.Contains(rendered, "link check failed:") {
		t.Fatalf("unexpected render prefix %q", rendered)
	}
	if !strings.Contains(rendered, "blog/posts/2024/03/14/iterators.md:") {
		t.Fatalf("expected per-file section, got %q", rendered)
	}
}

func TestCheck_CleanReport(t *testing.T) {
	doc := &interfaces.Document{
		FilePath: "about.md",
		Body:     []byte("All good: [home](/)\n"),
	}

	svc := NewService(nil)
	report, err := svc.Check(context.Background(), []DocumentRef{{Doc: doc, Route: "/about/"}}, KnownTargets{
		Routes: []string{"/", "/about/"},
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.Failed() {
		t.Fatalf("expected clean report, got %v", report.Issues)
	}
	if !strings.Contains(report.Render(), "all internal references resolve") {
		t.Fatalf("unexpected render %q", report.Render())
	}
}

func TestCheck_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(nil)
	if _, err := svc.Check(ctx, []DocumentRef{{Doc: &interfaces.Document{}}}, KnownTargets{}); err == nil {
		t.Fatalf("expected context error")
	}
}
