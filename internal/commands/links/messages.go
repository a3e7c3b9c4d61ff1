package linkscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const checkLinksMessageType = "sitegen.links.check"

// CheckLinksCommand verifies that every internal link and image in the
// source tree resolves to a known route, a source file, or an in-document
// anchor.
type CheckLinksCommand struct {
	// IncludeDrafts extends the check to draft documents.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// Paths restricts the check to documents whose source path has one of
	// the given prefixes. Empty checks everything.
	Paths []string `json:"paths,omitempty"`
}

// Type implements command.Message.
func (CheckLinksCommand) Type() string { return checkLinksMessageType }

// Validate rejects blank path prefixes before handlers execute.
func (cmd CheckLinksCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Paths, validation.Each(validation.By(func(value any) error {
			str, _ := value.(string)
			if strings.TrimSpace(str) == "" {
				return validation.NewError("sitegen.links.check.path_blank", "path prefix must not be blank")
			}
			return nil
		}))),
	)
}
