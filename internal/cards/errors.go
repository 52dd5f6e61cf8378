package cards

import (
	"errors"
	"strings"
)

// Diagnostic kinds.
const (
	KindRead   = "read"
	KindParse  = "parse"
	KindSchema = "schema"
	KindRender = "render"
)

// ReadError reports a document that could not be read.
type ReadError struct {
	File string
	Err  error
}

func (e *ReadError) Error() string { return "read failed: " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// ParseError reports a malformed frontmatter block.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string { return "frontmatter parse failed: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports missing or invalid metadata fields.
type SchemaError struct {
	File     string
	Problems []string
}

func (e *SchemaError) Error() string {
	return "frontmatter schema invalid: " + strings.Join(e.Problems, "; ")
}

// RenderError reports a body that could not be rendered to HTML.
type RenderError struct {
	File string
	Err  error
}

func (e *RenderError) Error() string { return "render failed: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// diagnose converts a per-document failure into a Diagnostic.
func diagnose(file string, err error) Diagnostic {
	d := Diagnostic{File: file, Error: err.Error()}

	var (
		readErr   *ReadError
		parseErr  *ParseError
		schemaErr *SchemaError
		renderErr *RenderError
	)
	switch {
	case errors.As(err, &readErr):
		d.Kind = KindRead
	case errors.As(err, &parseErr):
		d.Kind = KindParse
	case errors.As(err, &schemaErr):
		d.Kind = KindSchema
	case errors.As(err, &renderErr):
		d.Kind = KindRender
	default:
		d.Kind = KindRead
	}
	return d
}
