package cards

import (
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var yamlFence = frontmatter.NewFormat(fence, fence, yaml.Unmarshal)

// Extract splits a document into its YAML metadata block and free-text body.
// A document without an opening fence yields empty metadata and the whole
// text as body.
func Extract(file, text string) (ParsedItem, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var meta map[string]any
	body, err := frontmatter.Parse(strings.NewReader(text), &meta, yamlFence)
	if err != nil {
		return ParsedItem{}, &ParseError{File: file, Err: err}
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return ParsedItem{Meta: meta, Body: string(body)}, nil
}
