package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadListing(t *testing.T) {
	listing, err := LoadListing(os.DirFS(filepath.Join("testdata", "site")), "data/projects.yaml")
	if err != nil {
		t.Fatalf("LoadListing: %v", err)
	}

	if listing.Key != "projects" {
		t.Fatalf("expected key projects, got %q", listing.Key)
	}
	if listing.Title != "Projects" {
		t.Fatalf("unexpected title %q", listing.Title)
	}
	if len(listing.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(listing.Entries))
	}
	if listing.Entries[0].Name != "go-sitegen" {
		t.Fatalf("unexpected first entry %q", listing.Entries[0].Name)
	}
	if listing.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected deterministic listing ID")
	}
}

func TestParseListing_OptionalFields(t *testing.T) {
	listing, err := LoadListing(os.DirFS(filepath.Join("testdata", "site")), "data/talks.yaml")
	if err != nil {
		t.Fatalf("LoadListing: %v", err)
	}

	entry := listing.Entries[0]
	if entry.Venue != "PyCon Somewhere" || entry.Date != "2023-10-12" {
		t.Fatalf("expected optional fields to decode, got %+v", entry)
	}
}

func TestParseListing_TitleFallsBackToKey(t *testing.T) {
	listing, err := ParseListing("data/open-source.yaml", []byte("entries:\n  - name: thing\n    link: https://example.dev\n"))
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if listing.Key != "open-source" {
		t.Fatalf("unexpected key %q", listing.Key)
	}
	if listing.Title != "Open Source" {
		t.Fatalf("expected derived title, got %q", listing.Title)
	}
}

func TestParseListing_MissingLink(t *testing.T) {
	_, err := ParseListing("data/projects.yaml", []byte("title: Projects\nentries:\n  - name: thing\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, ErrListingInvalid) {
		t.Fatalf("expected ErrListingInvalid, got %v", err)
	}
	var listingErr *ListingError
	if !errors.As(err, &listingErr) {
		t.Fatalf("expected ListingError, got %T", err)
	}
	if listingErr.Path != "data/projects.yaml" {
		t.Fatalf("expected path context, got %q", listingErr.Path)
	}
}

func TestParseListing_MalformedYAML(t *testing.T) {
	_, err := ParseListing("data/projects.yaml", []byte("entries: [unclosed"))
	if !errors.Is(err, ErrListingInvalid) {
		t.Fatalf("expected ErrListingInvalid, got %v", err)
	}
}
