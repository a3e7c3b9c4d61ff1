package themes

import (
	"context"

	gotheme "github.com/goliatone/go-theme"
)

type noopService struct{}

// NewNoOpService returns a Service that fails all operations with
// ErrFeatureDisabled.
func NewNoOpService() Service {
	return noopService{}
}

func (noopService) Discover(context.Context) ([]*Theme, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) Theme(context.Context, string) (*Theme, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) Themes(context.Context) ([]*Theme, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) Selection(context.Context, string, string) (*gotheme.Selection, error) {
	return nil, ErrFeatureDisabled
}
