package linkcheck

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// DocumentRef pairs a parsed document with the route it renders at. Route may
// be empty for documents that do not map to an output page.
type DocumentRef struct {
	Doc   *interfaces.Document
	Route string
}

// KnownTargets enumerates what internal destinations may legally point at:
// the set of generated routes and the files of the source tree.
type KnownTargets struct {
	Routes []string
	Files  fs.FS
}

// Issue is one broken reference.
type Issue struct {
	SourcePath  string
	Destination string
	Reason      string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.SourcePath, i.Destination, i.Reason)
}

// Report aggregates a link check run.
type Report struct {
	Documents int
	Checked   int
	External  int
	Issues    []Issue
}

// Failed reports whether any internal reference failed to resolve.
func (r *Report) Failed() bool {
	return len(r.Issues) > 0
}

// Render formats the per-file breakage list for the CLI.
func (r *Report) Render() string {
	if !r.Failed() {
		return fmt.Sprintf("checked %d link(s) across %d document(s), all internal references resolve", r.Checked, r.Documents)
	}

	grouped := map[string][]Issue{}
	paths := []string{}
	for _, issue := range r.Issues {
		if _, ok := grouped[issue.SourcePath]; !ok {
			paths = append(paths, issue.SourcePath)
		}
		grouped[issue.SourcePath] = append(grouped[issue.SourcePath], issue)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("link check failed:\n")
	for _, path := range paths {
		fmt.Fprintf(&b, "\n%s:\n", path)
		for _, issue := range grouped[path] {
			fmt.Fprintf(&b, "  - %s (%s)\n", issue.Destination, issue.Reason)
		}
	}
	return b.String()
}

// Service checks that every internal link and image in a document set
// resolves to a known route, a source file, or an in-document anchor.
// External URLs are classified and skipped, never fetched.
type Service struct {
	logger interfaces.Logger
}

// NewService builds a link checker.
func NewService(logger interfaces.Logger) *Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{logger: logger}
}

// Check walks every document and resolves its references against known.
func (s *Service) Check(ctx context.Context, docs []DocumentRef, known KnownTargets) (*Report, error) {
	res := newResolver(known.Routes, known.Files)
	report := &Report{Documents: len(docs)}

	for _, ref := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ref.Doc == nil {
			continue
		}

		refs, err := ExtractRefs(ref.Doc.Body)
		if err != nil {
			return nil, fmt.Errorf("linkcheck: parse %s: %w", ref.Doc.FilePath, err)
		}

		destinations := make([]string, 0, len(refs.Links)+len(refs.Images))
		destinations = append(destinations, refs.Links...)
		destinations = append(destinations, refs.Images...)

		for _, dest := range destinations {
			report.Checked++
			switch classify(dest) {
			case kindExternal:
				report.External++
			case kindAnchor:
				anchor := strings.TrimPrefix(strings.TrimSpace(dest), "#")
				if _, ok := refs.Anchors[anchor]; !ok {
					report.Issues = append(report.Issues, Issue{
						SourcePath:  ref.Doc.FilePath,
						Destination: dest,
						Reason:      "anchor not found",
					})
				}
			case kindMalformed:
				report.Issues = append(report.Issues, Issue{
					SourcePath:  ref.Doc.FilePath,
					Destination: dest,
					Reason:      "malformed destination",
				})
			default:
				if !res.resolve(ref.Route, ref.Doc.FilePath, dest) {
					report.Issues = append(report.Issues, Issue{
						SourcePath:  ref.Doc.FilePath,
						Destination: dest,
						Reason:      "no matching route or file",
					})
				}
			}
		}
	}

	if report.Failed() {
		s.logger.Warn("links.check.failed",
			"documents", report.Documents,
			"checked", report.Checked,
			"broken", len(report.Issues),
		)
	} else {
		s.logger.Info("links.check.passed",
			"documents", report.Documents,
			"checked", report.Checked,
			"external_skipped", report.External,
		)
	}
	return report, nil
}
