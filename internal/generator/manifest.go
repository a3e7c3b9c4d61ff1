package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// manifestFileName is written at the root of the output directory and read
// back by the next incremental build.
const manifestFileName = ".sitegen-manifest.json"

const manifestVersion = 1

// manifestPage records what one output page looked like after the last
// successful build.
type manifestPage struct {
	PageID       string    `json:"page_id"`
	Locale       string    `json:"locale"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Template     string    `json:"template"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified,omitempty"`
	RenderedAt   time.Time `json:"rendered_at"`
}

// manifestAsset records a copied asset so unchanged assets can be skipped.
type manifestAsset struct {
	Source   string    `json:"source"`
	Output   string    `json:"output"`
	Checksum string    `json:"checksum"`
	CopiedAt time.Time `json:"copied_at"`
}

type buildManifest struct {
	mu          sync.RWMutex
	Version     int
	GeneratedAt time.Time
	pages       map[string]manifestPage
	assets      map[string]manifestAsset
}

// manifestDocument is the wire shape; page and asset maps are flattened to
// sorted slices so the marshalled output is deterministic.
type manifestDocument struct {
	Version     int             `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Pages       []manifestPage  `json:"pages"`
	Assets      []manifestAsset `json:"assets,omitempty"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestVersion,
		pages:   map[string]manifestPage{},
		assets:  map[string]manifestAsset{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var doc manifestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if doc.Version != manifestVersion {
		// Unknown versions start fresh rather than failing the build.
		return newBuildManifest(), nil
	}
	manifest := newBuildManifest()
	manifest.GeneratedAt = doc.GeneratedAt
	for _, page := range doc.Pages {
		manifest.pages[manifestKey(page.PageID, page.Locale)] = page
	}
	for _, asset := range doc.Assets {
		manifest.assets[asset.Source] = asset
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc := manifestDocument{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Pages:       make([]manifestPage, 0, len(m.pages)),
		Assets:      make([]manifestAsset, 0, len(m.assets)),
	}
	for _, page := range m.pages {
		doc.Pages = append(doc.Pages, page)
	}
	sort.Slice(doc.Pages, func(i, j int) bool {
		if doc.Pages[i].Locale == doc.Pages[j].Locale {
			return doc.Pages[i].Route < doc.Pages[j].Route
		}
		return doc.Pages[i].Locale < doc.Pages[j].Locale
	})
	for _, asset := range m.assets {
		doc.Assets = append(doc.Assets, asset)
	}
	sort.Slice(doc.Assets, func(i, j int) bool {
		return doc.Assets[i].Source < doc.Assets[j].Source
	})
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generator: marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

func (m *buildManifest) pageKey(id uuid.UUID, locale string) string {
	return manifestKey(id.String(), locale)
}

func manifestKey(id, locale string) string {
	return strings.ToLower(locale) + "/" + id
}

func (m *buildManifest) setPage(page manifestPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[manifestKey(page.PageID, page.Locale)] = page
}

func (m *buildManifest) lookupPage(id uuid.UUID, locale string) (manifestPage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[m.pageKey(id, locale)]
	return page, ok
}

// shouldSkipPage reports whether the page can be skipped in an incremental
// build: the dependency hash matches and the last build wrote the same
// output path.
func (m *buildManifest) shouldSkipPage(id uuid.UUID, locale, hash, output string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	page, ok := m.lookupPage(id, locale)
	if !ok {
		return false
	}
	return page.Hash == hash && page.Output == output
}

func (m *buildManifest) setAsset(asset manifestAsset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.Source] = asset
}

func (m *buildManifest) shouldSkipAsset(source, checksum string) bool {
	if strings.TrimSpace(checksum) == "" {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	asset, ok := m.assets[source]
	return ok && asset.Checksum == checksum
}
