package guide

import (
	"encoding/xml"
	"io"
)

// Channel is one <channel> record from an XMLTV source. Raw retains the
// parsed element verbatim so the generator can re-emit it unchanged; it is
// shared read-only and never mutated.
type Channel struct {
	ID           string
	DisplayName  string
	DisplayNames []string
	Icon         string
	SourceFile   string
	Raw          RawElement
}

// RawElement preserves a parsed XML element for byte-faithful re-emission.
// Inner holds the raw inner XML exactly as it appeared in the source.
type RawElement struct {
	Name  string
	Attrs []xml.Attr
	Inner string
}

// WriteTo re-serializes the element to w, followed by a newline.
func (e RawElement) WriteTo(w io.Writer) error {
	var b []byte
	b = append(b, '<')
	b = append(b, e.Name...)
	for _, a := range e.Attrs {
		b = append(b, ' ')
		if a.Name.Space != "" {
			b = append(b, a.Name.Space...)
			b = append(b, ':')
		}
		b = append(b, a.Name.Local...)
		b = append(b, '=', '"')
		b = appendEscaped(b, a.Value)
		b = append(b, '"')
	}
	b = append(b, '>')
	b = append(b, e.Inner...)
	b = append(b, '<', '/')
	b = append(b, e.Name...)
	b = append(b, '>', '\n')

	_, err := w.Write(b)
	return err
}

func appendEscaped(b []byte, s string) []byte {
	for _, r := range s {
		switch r {
		case '&':
			b = append(b, "&amp;"...)
		case '<':
			b = append(b, "&lt;"...)
		case '>':
			b = append(b, "&gt;"...)
		case '"':
			b = append(b, "&#34;"...)
		default:
			b = append(b, string(r)...)
		}
	}
	return b
}
