package buildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildSiteMessageType   = "sitegen.build.site"
	cleanOutputMessageType = "sitegen.build.clean"
)

// BuildSiteCommand triggers a full site build. Locales and Tags narrow the
// scope; DryRun renders without writing; Force bypasses the incremental
// manifest.
type BuildSiteCommand struct {
	// Locales restricts the build to the given locale codes. Empty builds all.
	Locales []string `json:"locales,omitempty"`
	// Tags restricts the build to posts carrying one of the given tags.
	Tags []string `json:"tags,omitempty"`
	// DryRun renders every page without persisting artifacts.
	DryRun bool `json:"dry_run,omitempty"`
	// Force rebuilds pages the incremental manifest would otherwise skip.
	Force bool `json:"force,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects blank locale or tag values before handlers execute.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Locales, validation.Each(validation.By(nonBlank("sitegen.build.site.locale_blank", "locale must not be blank")))),
		validation.Field(&cmd.Tags, validation.Each(validation.By(nonBlank("sitegen.build.site.tag_blank", "tag must not be blank")))),
	)
}

// CleanOutputCommand removes the generated output tree.
type CleanOutputCommand struct{}

// Type implements command.Message.
func (CleanOutputCommand) Type() string { return cleanOutputMessageType }

// Validate implements command.Message.
func (CleanOutputCommand) Validate() error { return nil }

func nonBlank(code, message string) func(value any) error {
	return func(value any) error {
		str, _ := value.(string)
		if strings.TrimSpace(str) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
