package themes

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
	slugpkg "github.com/goliatone/go-slug"
)

// RendererOption configures the html/template renderer.
type RendererOption func(*htmlRenderer)

// WithOverrides parses templates from dir after the theme templates, so a
// template with the same base name replaces the theme version.
func WithOverrides(dir string) RendererOption {
	return func(r *htmlRenderer) {
		r.overridesDir = strings.TrimSpace(dir)
	}
}

// WithBaseURL configures the absURL template function.
func WithBaseURL(baseURL string) RendererOption {
	return func(r *htmlRenderer) {
		r.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithFuncs merges extra template functions into the default set.
func WithFuncs(funcs template.FuncMap) RendererOption {
	return func(r *htmlRenderer) {
		for name, fn := range funcs {
			r.extraFuncs[name] = fn
		}
	}
}

// NewRenderer returns a TemplateRenderer backed by html/template, parsing
// every .html and .tmpl file under baseDir. Templates are addressed by base
// name.
func NewRenderer(baseDir string, opts ...RendererOption) (interfaces.TemplateRenderer, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("themes: inspect template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("themes: template path %q is not a directory", baseDir)
	}

	renderer := &htmlRenderer{
		baseDir:    baseDir,
		extraFuncs: template.FuncMap{},
		filters:    map[string]func(any, any) (any, error){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(renderer)
		}
	}
	return renderer, nil
}

type htmlRenderer struct {
	baseDir      string
	overridesDir string
	baseURL      string
	extraFuncs   template.FuncMap

	mu      sync.Mutex
	filters map[string]func(any, any) (any, error)
	global  any
	parsed  bool

	once sync.Once
	tpl  *template.Template
	err  error
}

func (r *htmlRenderer) ensureTemplates() (*template.Template, error) {
	r.once.Do(func() {
		files, err := collectTemplateFiles(r.baseDir)
		if err != nil {
			r.err = err
			return
		}
		if r.overridesDir != "" {
			overrides, err := collectTemplateFiles(r.overridesDir)
			if err != nil && !os.IsNotExist(err) {
				r.err = err
				return
			}
			// Later files win on duplicate base names, which is how
			// overrides replace theme templates.
			files = append(files, overrides...)
		}
		if len(files) == 0 {
			r.err = fmt.Errorf("themes: no templates found in %s", r.baseDir)
			return
		}

		r.mu.Lock()
		funcs := r.funcMap()
		r.parsed = true
		r.mu.Unlock()

		r.tpl, r.err = template.New("theme").Funcs(funcs).ParseFiles(files...)
	})
	return r.tpl, r.err
}

func (r *htmlRenderer) funcMap() template.FuncMap {
	funcs := template.FuncMap{
		"safeHTML": func(value any) template.HTML { return toHTML(value) },
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
		"dateISO": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"slugify": func(value string) string {
			normalized, err := slugpkg.Normalize(value)
			if err != nil {
				return strings.ToLower(strings.TrimSpace(value))
			}
			return normalized
		},
		"absURL": func(target string) string {
			if strings.Contains(target, "://") {
				return target
			}
			if !strings.HasPrefix(target, "/") {
				target = "/" + target
			}
			if r.baseURL == "" {
				return target
			}
			return r.baseURL + path.Clean(target)
		},
		"global": func() any {
			r.mu.Lock()
			defer r.mu.Unlock()
			return r.global
		},
	}
	for name, fn := range r.extraFuncs {
		funcs[name] = fn
	}
	for name, fn := range r.filters {
		funcs[name] = fn
	}
	return funcs
}

func (r *htmlRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *htmlRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return "", err
	}
	resolved := lookupTemplate(tpl, name)
	if resolved == nil {
		return "", fmt.Errorf("themes: template %q not found", name)
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.ExecuteTemplate(writer, resolved.Name(), data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

func (r *htmlRenderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	r.mu.Lock()
	funcs := r.funcMap()
	r.mu.Unlock()

	tpl, err := template.New("inline").Funcs(funcs).Parse(content)
	if err != nil {
		return "", err
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.Execute(writer, data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

// RegisterFilter exposes fn as a two argument template function. Filters must
// be registered before the first render because the parsed template set is
// immutable.
func (r *htmlRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("themes: filter name required")
	}
	if fn == nil {
		return fmt.Errorf("themes: filter %q requires a function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parsed {
		return fmt.Errorf("themes: templates already parsed, register filter %q earlier", name)
	}
	r.filters[name] = fn
	return nil
}

// GlobalContext stores data exposed to every template via the global
// function.
func (r *htmlRenderer) GlobalContext(data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = data
	return nil
}

// lookupTemplate resolves a template by name, falling back to the file base
// name so callers can use "post" for a template parsed from post.html.
func lookupTemplate(tpl *template.Template, name string) *template.Template {
	if t := tpl.Lookup(name); t != nil {
		return t
	}
	if filepath.Ext(name) == "" {
		for _, ext := range []string{".html", ".tmpl"} {
			if t := tpl.Lookup(name + ext); t != nil {
				return t
			}
		}
	}
	return nil
}

func collectTemplateFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".tmpl" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func toHTML(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	case []byte:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
