package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMarkdownServiceRequired = errors.New("content: markdown service is required")
	ErrSlugEmpty               = errors.New("content: slug could not be derived")
	ErrListingInvalid          = errors.New("content: listing data file is invalid")
	ErrDuplicateRoute          = errors.New("content: duplicate route")
)

// ListingError reports a listing data file that failed validation.
type ListingError struct {
	Path    string
	Message string
}

func (e *ListingError) Error() string {
	if e == nil {
		return ErrListingInvalid.Error()
	}
	path := strings.TrimSpace(e.Path)
	if path == "" {
		return fmt.Sprintf("%s: %s", ErrListingInvalid.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrListingInvalid.Error(), path, e.Message)
}

func (e *ListingError) Unwrap() error {
	return ErrListingInvalid
}

// DuplicateRouteError reports two source files resolving to the same route.
type DuplicateRouteError struct {
	Route  string
	First  string
	Second string
}

func (e *DuplicateRouteError) Error() string {
	if e == nil {
		return ErrDuplicateRoute.Error()
	}
	return fmt.Sprintf("%s: %s (%s and %s)", ErrDuplicateRoute.Error(), e.Route, e.First, e.Second)
}

func (e *DuplicateRouteError) Unwrap() error {
	return ErrDuplicateRoute
}
