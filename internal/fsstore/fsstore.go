// Package fsstore implements the storage provider contract over a local
// directory. The generator routes every artifact write through a
// storage.Provider so hosts can swap the destination; this is the default
// destination for site builds.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/storage"
)

// Operation strings recognised by Exec and Query. They mirror the op-string
// protocol the generator's artifact writer speaks.
const (
	OpEnsureDir = "sitegen.ensure_dir"
	OpWrite     = "sitegen.write"
	OpRead      = "sitegen.read"
	OpRemove    = "sitegen.remove"
)

var (
	ErrRootRequired       = errors.New("fsstore: root directory is required")
	ErrUnknownOperation   = errors.New("fsstore: unknown operation")
	ErrPathOutsideRoot    = errors.New("fsstore: path escapes the root directory")
	ErrContentReaderValue = errors.New("fsstore: write content must be an io.Reader")
)

// Provider writes generator artifacts beneath a root directory. Paths passed
// to operations are slash separated and relative to the root.
type Provider struct {
	root string
}

// New builds a provider rooted at dir. The directory is created on first
// write, not here, so dry runs never touch the disk.
func New(dir string) (*Provider, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, ErrRootRequired
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("fsstore: resolve root %s: %w", dir, err)
	}
	return &Provider{root: abs}, nil
}

// Root returns the absolute root directory.
func (p *Provider) Root() string {
	return p.root
}

// Exec applies a mutation operation. Supported operations:
//
//	OpEnsureDir path
//	OpWrite     path, content io.Reader, size, category, contentType, locale, checksum, metadata
//	OpRemove    path (empty removes the whole root)
func (p *Provider) Exec(ctx context.Context, op string, args ...any) (storage.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch op {
	case OpEnsureDir:
		target, err := p.resolve(stringArg(args, 0))
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("fsstore: ensure dir %s: %w", target, err)
		}
		return execResult{}, nil
	case OpWrite:
		return p.write(args)
	case OpRemove:
		rel := stringArg(args, 0)
		target := p.root
		if strings.TrimSpace(rel) != "" {
			resolved, err := p.resolve(rel)
			if err != nil {
				return nil, err
			}
			target = resolved
		}
		if err := os.RemoveAll(target); err != nil {
			return nil, fmt.Errorf("fsstore: remove %s: %w", target, err)
		}
		return execResult{rows: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
}

// Query reads artifacts back. OpRead returns a single row holding the file
// bytes; a missing file yields zero rows so callers can treat absence as a
// fresh state.
func (p *Provider) Query(ctx context.Context, op string, args ...any) (storage.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if op != OpRead {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	target, err := p.resolve(stringArg(args, 0))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return &byteRows{}, nil
		}
		return nil, fmt.Errorf("fsstore: read %s: %w", target, err)
	}
	return &byteRows{data: data, pending: true}, nil
}

// Transaction runs fn against the provider directly. Filesystem writes are
// not transactional; the generator only batches independent artifact writes
// through this path.
func (p *Provider) Transaction(ctx context.Context, fn func(tx storage.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(passthroughTx{p: p, ctx: ctx})
}

// Capabilities reports the provider feature set.
func (p *Provider) Capabilities() storage.Capabilities {
	return storage.Capabilities{
		Metadata: map[string]any{
			"kind": "filesystem",
			"root": p.root,
		},
	}
}

func (p *Provider) write(args []any) (storage.Result, error) {
	rel := stringArg(args, 0)
	target, err := p.resolve(rel)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, ErrContentReaderValue
	}
	reader, ok := args[1].(io.Reader)
	if !ok || reader == nil {
		return nil, ErrContentReaderValue
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("fsstore: ensure parent of %s: %w", target, err)
	}
	file, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("fsstore: create %s: %w", target, err)
	}
	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("fsstore: write %s: %w", target, err)
	}
	return execResult{rows: 1, bytes: written}, nil
}

func (p *Provider) resolve(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimSpace(rel)))
	if cleaned == "." || cleaned == "" {
		return p.root, nil
	}
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, rel)
	}
	return filepath.Join(p.root, cleaned), nil
}

func stringArg(args []any, idx int) string {
	if idx >= len(args) {
		return ""
	}
	value, _ := args[idx].(string)
	return value
}

type execResult struct {
	rows  int64
	bytes int64
}

func (r execResult) RowsAffected() (int64, error) { return r.rows, nil }
func (r execResult) LastInsertId() (int64, error) { return r.bytes, nil }

type byteRows struct {
	data    []byte
	pending bool
}

func (r *byteRows) Next() bool {
	if !r.pending {
		return false
	}
	r.pending = false
	return true
}

func (r *byteRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return errors.New("fsstore: scan requires a destination")
	}
	ptr, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("fsstore: scan destination must be *[]byte")
	}
	*ptr = append([]byte(nil), r.data...)
	return nil
}

func (r *byteRows) Close() error { return nil }

type passthroughTx struct {
	p   *Provider
	ctx context.Context
}

func (t passthroughTx) Query(ctx context.Context, op string, args ...any) (storage.Rows, error) {
	return t.p.Query(ctx, op, args...)
}

func (t passthroughTx) Exec(ctx context.Context, op string, args ...any) (storage.Result, error) {
	return t.p.Exec(ctx, op, args...)
}

func (t passthroughTx) Transaction(ctx context.Context, fn func(tx storage.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(t)
}

func (t passthroughTx) Commit() error   { return nil }
func (t passthroughTx) Rollback() error { return nil }
