package themes

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-sitegen/pkg/testsupport"
	"github.com/google/uuid"
)

func TestManifestParsingFixture(t *testing.T) {
	manifestPath := filepath.Join("testdata", "aurora_manifest.json")

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if manifest.Name == "" {
		t.Fatalf("expected manifest name to be populated")
	}

	theme, err := ManifestToTheme("themes/aurora", manifest)
	if err != nil {
		t.Fatalf("manifest to theme: %v", err)
	}
	if theme.ID == uuid.Nil {
		t.Fatalf("expected deterministic theme id")
	}

	again, err := ManifestToTheme("themes/aurora", manifest)
	if err != nil {
		t.Fatalf("manifest to theme again: %v", err)
	}
	if theme.ID != again.ID {
		t.Fatalf("expected stable id across conversions, got %s and %s", theme.ID, again.ID)
	}

	got := *theme
	got.ID = uuid.Nil

	var want Theme
	goldenPath := filepath.Join("testdata", "aurora_manifest.golden.json")
	if err := testsupport.LoadGolden(goldenPath, &want); err != nil {
		t.Fatalf("load manifest golden: %v", err)
	}

	if !reflect.DeepEqual(want, got) {
		t.Fatalf("manifest conversion mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestManifestToThemeDefaults(t *testing.T) {
	theme, err := ManifestToTheme("themes/bare", &Manifest{Name: "bare", Version: "0.1.0"})
	if err != nil {
		t.Fatalf("manifest to theme: %v", err)
	}
	if theme.Engine != DefaultEngine {
		t.Fatalf("expected default engine, got %q", theme.Engine)
	}
	if theme.TemplatesDir != DefaultTemplatesDir {
		t.Fatalf("expected default templates dir, got %q", theme.TemplatesDir)
	}
}

func TestManifestToThemeValidation(t *testing.T) {
	if _, err := ManifestToTheme("themes/aurora", nil); err == nil {
		t.Fatalf("expected error when manifest is nil")
	}

	if _, err := ManifestToTheme("themes/aurora", &Manifest{Version: "1.0.0"}); err == nil {
		t.Fatalf("expected error when name missing")
	}

	if _, err := ManifestToTheme("themes/aurora", &Manifest{Name: "aurora"}); err == nil {
		t.Fatalf("expected error when version missing")
	}
}
