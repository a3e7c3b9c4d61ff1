package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrMarkdownServiceRequired indicates the service was constructed without a
// document source.
var ErrMarkdownServiceRequired = errors.New("validate: markdown service is required")

// Config controls which part of the tree the validator walks.
type Config struct {
	// PostsDir restricts validation to the posts tree; pages are exempt from
	// the contract.
	PostsDir string
	Rules    Rules
}

// Service walks the posts tree and applies the frontmatter contract.
type Service struct {
	cfg      Config
	markdown interfaces.MarkdownService
	logger   interfaces.Logger
}

// NewService builds a validator over the given Markdown source.
func NewService(cfg Config, markdown interfaces.MarkdownService, logger interfaces.Logger) (*Service, error) {
	if markdown == nil {
		return nil, ErrMarkdownServiceRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		cfg:      cfg,
		markdown: markdown,
		logger:   logger,
	}, nil
}

// ValidateTree loads every post and returns the aggregated result. The error
// return covers load failures; contract violations live in the Result.
func (s *Service) ValidateTree(ctx context.Context) (*Result, error) {
	dir := s.cfg.PostsDir
	if dir == "" {
		dir = "."
	}

	docs, err := s.markdown.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("validate: load posts: %w", err)
	}

	result := &Result{Checked: len(docs)}
	for _, doc := range docs {
		issues := CheckFrontMatter(doc.FilePath, doc.FrontMatter, s.cfg.Rules)
		if len(issues) > 0 {
			logger := logging.WithSourceContext(s.logger, doc.FilePath, doc.Locale, "validate")
			logger.Warn("content.frontmatter.invalid", "issues", len(issues))
			result.Issues = append(result.Issues, issues...)
		}
	}

	if result.Failed() {
		s.logger.Warn("content.validate.failed",
			"checked", result.Checked,
			"files_failing", len(result.FilesWithIssues()),
			"issues", len(result.Issues),
		)
	} else {
		s.logger.Info("content.validate.passed", "checked", result.Checked)
	}
	return result, nil
}

// ValidateDocument applies the contract to a single parsed document.
func (s *Service) ValidateDocument(doc *interfaces.Document) []Issue {
	if doc == nil {
		return nil
	}
	return CheckFrontMatter(doc.FilePath, doc.FrontMatter, s.cfg.Rules)
}
