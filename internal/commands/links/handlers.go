package linkscmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/linkcheck"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/nav"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const checkLinksOperation = "links.check"

var (
	// ErrLinkcheckFeatureDisabled is returned when the link check feature flag is disabled at runtime.
	ErrLinkcheckFeatureDisabled = errors.New("links command: feature disabled")
	// ErrBrokenLinks is returned when internal references fail to resolve.
	ErrBrokenLinks = errors.New("links command: broken references found")
)

var _ command.Commander[CheckLinksCommand] = (*CheckLinksHandler)(nil)

// Dependencies collects the collaborators a link check run needs: the parsed
// documents, the route table they publish at, and the source tree that
// relative file references resolve against.
type Dependencies struct {
	Markdown interfaces.MarkdownService
	Loader   *content.Service
	Routes   *nav.Routes
	Checker  *linkcheck.Service
	SourceFS fs.FS
}

// CheckLinksHandler assembles the document set and drives the link checker.
type CheckLinksHandler struct {
	inner *commands.Handler[CheckLinksCommand]
}

// NewCheckLinksHandler binds the handler to its dependencies. The optional
// onReport callback receives the full report so callers can render the
// per-file breakage list.
func NewCheckLinksHandler(deps Dependencies, logger interfaces.Logger, gates FeatureGates, onReport func(*linkcheck.Report), opts ...commands.HandlerOption[CheckLinksCommand]) *CheckLinksHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CheckLinksCommand) error {
		if !gates.linkcheckEnabled() {
			return ErrLinkcheckFeatureDisabled
		}

		refs, known, err := assembleTargets(ctx, deps, msg)
		if err != nil {
			return err
		}

		report, err := deps.Checker.Check(ctx, refs, known)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"documents":   report.Documents,
			"checked":     report.Checked,
			"external":    report.External,
			"issue_count": len(report.Issues),
		}).Info("links.command.check.completed")
		if onReport != nil {
			onReport(report)
		}
		if report.Failed() {
			return fmt.Errorf("%w: %d issue(s)", ErrBrokenLinks, len(report.Issues))
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CheckLinksCommand]{
		commands.WithLogger[CheckLinksCommand](baseLogger),
		commands.WithOperation[CheckLinksCommand](checkLinksOperation),
		commands.WithMessageFields(func(msg CheckLinksCommand) map[string]any {
			fields := map[string]any{}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			if len(msg.Paths) > 0 {
				fields["paths"] = msg.Paths
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CheckLinksCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckLinksHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CheckLinksCommand].
func (h *CheckLinksHandler) Execute(ctx context.Context, msg CheckLinksCommand) error {
	return h.inner.Execute(ctx, msg)
}

// assembleTargets loads the documents, maps each to the route it publishes
// at, and enumerates every route the site generates so internal links can be
// resolved without building the site.
func assembleTargets(ctx context.Context, deps Dependencies, msg CheckLinksCommand) ([]linkcheck.DocumentRef, linkcheck.KnownTargets, error) {
	var known linkcheck.KnownTargets

	docs, err := deps.Markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		return nil, known, err
	}

	tree, err := deps.Loader.LoadTree(ctx)
	if err != nil {
		return nil, known, err
	}

	routeByPath := map[string]string{}
	routes := []string{"/"}
	record := func(sourcePath, route string) {
		routeByPath[sourcePath] = route
		routes = append(routes, route)
	}

	for _, post := range tree.Posts {
		route, err := deps.Routes.PostPath(post)
		if err != nil {
			return nil, known, fmt.Errorf("links: route post %s: %w", post.SourcePath, err)
		}
		record(post.SourcePath, route)
	}
	for _, page := range tree.Pages {
		route, err := deps.Routes.PagePath(page)
		if err != nil {
			return nil, known, fmt.Errorf("links: route page %s: %w", page.SourcePath, err)
		}
		record(page.SourcePath, route)
	}
	for _, listing := range tree.Listings {
		routes = append(routes, "/"+strings.Trim(listing.Key, "/")+"/")
	}
	for tag := range tree.PostsByTag() {
		route, err := deps.Routes.TagPath(tag)
		if err != nil {
			return nil, known, fmt.Errorf("links: route tag %q: %w", tag, err)
		}
		routes = append(routes, route)
	}
	for year := range tree.PostsByYear() {
		route, err := deps.Routes.ArchivePath(year)
		if err != nil {
			return nil, known, fmt.Errorf("links: route archive %d: %w", year, err)
		}
		routes = append(routes, route)
	}

	refs := make([]linkcheck.DocumentRef, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if !msg.IncludeDrafts && doc.FrontMatter.Draft {
			continue
		}
		if !pathSelected(doc.FilePath, msg.Paths) {
			continue
		}
		refs = append(refs, linkcheck.DocumentRef{
			Doc:   doc,
			Route: routeByPath[doc.FilePath],
		})
	}

	known = linkcheck.KnownTargets{
		Routes: routes,
		Files:  deps.SourceFS,
	}
	return refs, known, nil
}

func pathSelected(filePath string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(filePath, strings.TrimPrefix(strings.TrimSpace(prefix), "./")) {
			return true
		}
	}
	return false
}
