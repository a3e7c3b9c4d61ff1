package linkcheck

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Refs holds every outbound reference found in one document plus the anchor
// IDs its own headings define.
type Refs struct {
	Links   []string
	Images  []string
	Anchors map[string]struct{}
}

// ExtractRefs parses Markdown and collects link and image destinations from
// the AST. Heading IDs use the same auto-ID rules as the renderer, so anchor
// checks agree with the generated HTML.
func ExtractRefs(source []byte) (*Refs, error) {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	root := engine.Parser().Parse(text.NewReader(source))

	refs := &Refs{Anchors: map[string]struct{}{}}
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			refs.Links = append(refs.Links, string(node.Destination))
		case *ast.Image:
			refs.Images = append(refs.Images, string(node.Destination))
		case *ast.AutoLink:
			refs.Links = append(refs.Links, string(node.URL(source)))
		case *ast.Heading:
			if value, ok := node.AttributeString("id"); ok {
				switch id := value.(type) {
				case []byte:
					refs.Anchors[string(id)] = struct{}{}
				case string:
					refs.Anchors[id] = struct{}{}
				}
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}
