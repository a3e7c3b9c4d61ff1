package interfaces

import (
	"io"
)

// TemplateRenderer is the rendering contract the generator drives. The themes
// package provides an html/template implementation; hosts can swap in their
// own engine as long as Render either returns the output or writes to out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
