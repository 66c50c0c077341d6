package pages

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// PageFrontMatter is the metadata block accepted at the top of an imported
// markdown document. Unset fields fall back to import defaults.
type PageFrontMatter struct {
	Title      string `yaml:"title"`
	Slug       string `yaml:"slug"`
	Status     string `yaml:"status"`
	ShowInMenu bool   `yaml:"show_in_menu"`
	MenuOrder  int    `yaml:"menu_order"`
}

// ParseMarkdown splits a markdown document into frontmatter and body.
func ParseMarkdown(source []byte) (PageFrontMatter, []byte, error) {
	var meta PageFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return PageFrontMatter{}, nil, fmt.Errorf("pages: parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// RenderMarkdown converts a markdown body into HTML. Shop admins author
// their own content, so raw HTML passes through unchanged.
func RenderMarkdown(body []byte) (string, error) {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var buf bytes.Buffer
	if err := engine.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("pages: render markdown: %w", err)
	}
	return buf.String(), nil
}
