package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestScaffoldPostWritesDatedSkeleton(t *testing.T) {
	source := t.TempDir()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	path, err := scaffoldPost(source, "docs", "blog/posts", "Shipping My First CLI", []string{"go", "tooling"}, false, now)
	if err != nil {
		t.Fatalf("scaffoldPost: %v", err)
	}

	want := filepath.Join(source, "docs", "blog", "posts", "2024", "05", "10", "shipping-my-first-cli.md")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	body := string(data)
	for _, fragment := range []string{
		"title: Shipping My First CLI",
		"date: 2024-05-10",
		"tags: [go, tooling]",
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("scaffold missing %q:\n%s", fragment, body)
		}
	}
	if strings.Contains(body, "draft:") {
		t.Fatalf("unexpected draft flag:\n%s", body)
	}
}

func TestScaffoldPostTitleCasesLowercaseTitles(t *testing.T) {
	source := t.TempDir()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	path, err := scaffoldPost(source, "docs", "blog/posts", "notes on testing", nil, true, now)
	if err != nil {
		t.Fatalf("scaffoldPost: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "title: Notes On Testing") {
		t.Fatalf("expected title-cased title:\n%s", body)
	}
	if !strings.Contains(body, "draft: true") {
		t.Fatalf("expected draft flag:\n%s", body)
	}
}

func TestScaffoldPostRejectsExistingFile(t *testing.T) {
	source := t.TempDir()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	if _, err := scaffoldPost(source, "docs", "blog/posts", "Hello", nil, false, now); err != nil {
		t.Fatalf("first scaffold: %v", err)
	}
	if _, err := scaffoldPost(source, "docs", "blog/posts", "Hello", nil, false, now); err == nil {
		t.Fatal("expected error for existing file")
	}
}
