package cards

import (
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// itemSchema describes the frontmatter keys a quiz card may carry.
const itemSchema = `{
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id": {
      "oneOf": [
        {"type": "integer"},
        {"type": "string", "pattern": "^\\s*[-+]?[0-9]+\\s*$"}
      ]
    },
    "title": {"type": "string"},
    "slug": {"type": "string"},
    "source": {"type": "string"},
    "subreddit": {"type": "string"},
    "topCommentSummary": {"type": "string"},
    "topCommentVerdict": {"type": "string"}
  }
}`

var compiledSchema = mustSchema(itemSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compiling item schema: %v", err))
	}
	return s
}

// Validate checks a parsed document's metadata and builds a QuizItem.
// file is the document's base name; its stem is the default slug.
func Validate(file string, p ParsedItem) (QuizItem, error) {
	meta := p.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	result, err := compiledSchema.Validate(gojsonschema.NewGoLoader(meta))
	if err != nil {
		return QuizItem{}, &SchemaError{File: file, Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return QuizItem{}, &SchemaError{File: file, Problems: problems}
	}

	id, err := coerceID(meta["id"])
	if err != nil {
		return QuizItem{}, &SchemaError{File: file, Problems: []string{"id: " + err.Error()}}
	}

	var problems []string
	str := func(key string) string {
		s, _, err := stringField(meta, key)
		if err != nil {
			problems = append(problems, key+": "+err.Error())
		}
		return s
	}
	strPtr := func(key string) *string {
		s, ok, err := stringField(meta, key)
		if err != nil {
			problems = append(problems, key+": "+err.Error())
		}
		if !ok {
			return nil
		}
		return &s
	}

	item := QuizItem{
		ID:             id,
		Title:          str("title"),
		Slug:           strings.TrimSpace(str("slug")),
		Body:           strings.TrimSpace(p.Body),
		SourceURL:      strPtr("source"),
		Subreddit:      strPtr("subreddit"),
		VerdictSummary: strPtr("topCommentSummary"),
		VerdictLabel:   strPtr("topCommentVerdict"),
	}
	if len(problems) > 0 {
		return QuizItem{}, &SchemaError{File: file, Problems: problems}
	}

	if item.Slug == "" {
		item.Slug = strings.TrimSpace(stem(file))
	}
	if item.Slug == "" {
		return QuizItem{}, &SchemaError{File: file, Problems: []string{"slug: must not be empty"}}
	}

	return item, nil
}

func coerceID(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%d out of range", n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// stringField returns meta[key] when it holds a string. A present value of
// any other type is an error; yaml decodes bare dates as time.Time, which the
// schema check sees only in its marshalled string form.
func stringField(meta map[string]any, key string) (string, bool, error) {
	v, present := meta[key]
	if !present {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("expected string, got %T", v)
	}
	return s, true, nil
}

func stem(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}
