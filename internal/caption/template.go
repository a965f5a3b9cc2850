package caption

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Placeholder names a field a caption template may reference as {name}.
type Placeholder string

const (
	Title      Placeholder = "title"
	Author     Placeholder = "author"
	MovieID    Placeholder = "movieid"
	Duration   Placeholder = "duration"
	Additional Placeholder = "additional"
	Timecodes  Placeholder = "timecodes"
	Partition  Placeholder = "partition"
)

// Placeholders is the complete set recognised by Parse.
var Placeholders = []Placeholder{Title, Author, MovieID, Duration, Additional, Timecodes, Partition}

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = `{title} {partition}
{author} [{duration}] [{additional}]

{timecodes}

youtu.be/{movieid}`

var (
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
	ErrUnbalancedBrace    = errors.New("unbalanced brace")
)

type segment struct {
	literal     string
	placeholder Placeholder
}

// Template is a parsed caption template. Literal braces are written as {{ and }}.
type Template struct {
	source   string
	segments []segment
}

// Parse validates text against the placeholder set. An empty text selects
// DefaultTemplate.
func Parse(text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultTemplate
	}
	tmpl := &Template{source: text}
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: '{' at offset %d", ErrUnbalancedBrace, i)
			}
			name := Placeholder(strings.TrimSpace(text[i+1 : i+1+end]))
			if !slices.Contains(Placeholders, name) {
				return nil, fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, name)
			}
			flush()
			tmpl.segments = append(tmpl.segments, segment{placeholder: name})
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: '}' at offset %d", ErrUnbalancedBrace, i)
		default:
			literal.WriteByte(c)
		}
	}
	flush()
	return tmpl, nil
}

// MustParse is Parse for templates known at compile time.
func MustParse(text string) *Template {
	tmpl, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// String returns the template source.
func (t *Template) String() string {
	return t.source
}

// Uses reports whether the template references p.
func (t *Template) Uses(p Placeholder) bool {
	for _, seg := range t.segments {
		if seg.placeholder == p {
			return true
		}
	}
	return false
}
