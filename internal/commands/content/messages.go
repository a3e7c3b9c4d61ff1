package contentcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	validateContentMessageType = "sitegen.content.validate"
	syncCatalogMessageType     = "sitegen.content.sync"
)

// ValidateContentCommand runs the front matter contract checks over the
// source tree: description present, tag count within bounds, comments
// enabled on posts.
type ValidateContentCommand struct{}

// Type implements command.Message.
func (ValidateContentCommand) Type() string { return validateContentMessageType }

// Validate implements command.Message.
func (ValidateContentCommand) Validate() error { return nil }

// SyncCatalogCommand mirrors the loaded content tree into the catalog
// repository so downstream queries (recent posts, tags, build history) see
// the current source state.
type SyncCatalogCommand struct {
	// DryRun counts the work without touching the repository.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes catalog entries whose source file disappeared.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
	// BuildOutputDir, when set, records a build row pointing at the output
	// tree alongside the sync.
	BuildOutputDir string `json:"build_output_dir,omitempty"`
}

// Type implements command.Message.
func (SyncCatalogCommand) Type() string { return syncCatalogMessageType }

// Validate rejects blank-but-present output directories before handlers execute.
func (cmd SyncCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.BuildOutputDir, validation.By(func(value any) error {
			str, _ := value.(string)
			if str != "" && strings.TrimSpace(str) == "" {
				return validation.NewError("sitegen.content.sync.output_dir_blank", "build output dir must not be blank")
			}
			return nil
		})),
	)
}
