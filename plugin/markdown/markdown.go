// Package markdown extracts plain text from markdown documents so that
// chunking and embedding operate on prose rather than on markup.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
)

// ExtractText converts markdown to plain text. Block elements are separated
// by blank lines, heading and emphasis markers are dropped, and code blocks
// keep their literal content. Input that is not markdown passes through
// essentially unchanged.
func ExtractText(source []byte) string {
	doc := parser.Parser().Parse(text.NewReader(source))

	var blocks []string
	var current bytes.Buffer

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			blocks = append(blocks, s)
		}
		current.Reset()
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := n.(*ast.ListItem); ok {
				flush()
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.Blockquote:
			flush()
		case *ast.FencedCodeBlock:
			flush()
			for i := 0; i < node.Lines().Len(); i++ {
				line := node.Lines().At(i)
				current.Write(line.Value(source))
			}
			flush()
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			flush()
			for i := 0; i < node.Lines().Len(); i++ {
				line := node.Lines().At(i)
				current.Write(line.Value(source))
			}
			flush()
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			current.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				current.WriteByte(' ')
			}
		case *ast.String:
			current.Write(node.Value)
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					current.Write(t.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			current.Write(node.URL(source))
			return ast.WalkSkipChildren, nil
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	flush()

	return strings.Join(blocks, "\n\n")
}
