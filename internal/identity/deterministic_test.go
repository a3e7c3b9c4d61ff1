package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	a := EntryUUID("blog/posts/2024/03/14/iterators.md")
	b := EntryUUID("blog/posts/2024/03/14/iterators.md")
	if a != b {
		t.Fatalf("expected stable UUID, got %s and %s", a, b)
	}
	if a == uuid.Nil {
		t.Fatalf("expected non-nil UUID")
	}

	if EntryUUID("a.md") == EntryUUID("b.md") {
		t.Fatalf("expected distinct paths to produce distinct UUIDs")
	}
	if EntryUUID("about.md") == TagUUID("about.md") {
		t.Fatalf("expected prefixes to separate entity namespaces")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("  "); got != uuid.Nil {
		t.Fatalf("expected Nil for blank key, got %s", got)
	}
}

func TestTagUUIDNormalizesCase(t *testing.T) {
	if TagUUID("Python") != TagUUID("python") {
		t.Fatalf("expected tag identity to ignore case")
	}
}
