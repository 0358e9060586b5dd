package guide

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Parser handles parsing of XMLTV guide files
type Parser struct{}

// NewParser creates a new guide parser
func NewParser() *Parser {
	return &Parser{}
}

type channelXML struct {
	DisplayNames []string `xml:"display-name"`
	Icon         struct {
		Src string `xml:"src,attr"`
	} `xml:"icon"`
	Inner string `xml:",innerxml"`
}

type programXML struct {
	Inner string `xml:",innerxml"`
}

// ParseFile reads an XMLTV file and returns its channel records in document
// order. Program subtrees are skipped here; they are only streamed during
// generation. Compressed input is handled transparently by extension.
func (p *Parser) ParseFile(path string) ([]*Channel, error) {
	f, r, err := openSource(path)
	if err != nil {
		slog.Error("Failed to open XMLTV file", "file", path, "error", err)
		return nil, err
	}
	defer f.Close()
	if c, ok := r.(io.Closer); ok && c != f {
		defer c.Close()
	}

	channels := make([]*Channel, 0)
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Error("Failed to parse XMLTV file", "file", path, "error", err)
			return nil, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "tv":
			// Descend into the document root
		case "channel":
			start := se.Copy()
			var cx channelXML
			if err := d.DecodeElement(&cx, &start); err != nil {
				slog.Error("Failed to parse XMLTV channel element", "file", path, "error", err)
				return nil, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
			}
			channels = append(channels, newChannel(start, cx, filepath.Base(path)))
		default:
			if err := d.Skip(); err != nil {
				slog.Error("Failed to parse XMLTV file", "file", path, "error", err)
				return nil, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
			}
		}
	}

	slog.Debug("Parsed XMLTV file", "file", path, "channels", len(channels))
	return channels, nil
}

// ScanPrograms streams the <programme> elements of an XMLTV file one at a
// time, calling emit for every element whose channel attribute satisfies
// keep. Elements are released as soon as the emit/skip decision is made, so
// peak memory stays bounded regardless of file size. Returns the number of
// emitted programs; a mid-stream parse failure returns the count emitted so
// far along with the error.
func (p *Parser) ScanPrograms(path string, keep func(channelID string) bool, emit func(RawElement) error) (int, error) {
	f, r, err := openSource(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if c, ok := r.(io.Closer); ok && c != f {
		defer c.Close()
	}

	count := 0
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "tv":
			// Descend into the document root
		case "programme":
			if !keep(attr(se, "channel")) {
				if err := d.Skip(); err != nil {
					return count, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
				}
				continue
			}
			start := se.Copy()
			var px programXML
			if err := d.DecodeElement(&px, &start); err != nil {
				return count, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
			}
			if err := emit(RawElement{Name: "programme", Attrs: start.Attr, Inner: px.Inner}); err != nil {
				return count, err
			}
			count++
		default:
			if err := d.Skip(); err != nil {
				return count, fmt.Errorf("failed to parse XMLTV file %s: %w", path, err)
			}
		}
	}
}

func newChannel(start xml.StartElement, cx channelXML, sourceFile string) *Channel {
	ch := &Channel{
		ID:           attr(start, "id"),
		DisplayNames: cx.DisplayNames,
		Icon:         cx.Icon.Src,
		SourceFile:   sourceFile,
		Raw:          RawElement{Name: "channel", Attrs: start.Attr, Inner: cx.Inner},
	}
	for i, name := range ch.DisplayNames {
		ch.DisplayNames[i] = strings.TrimSpace(name)
	}
	if len(ch.DisplayNames) > 0 {
		ch.DisplayName = ch.DisplayNames[0]
	}
	return ch
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func openSource(path string) (*os.File, io.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XMLTV file %s: %w", path, err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("failed to decompress XMLTV file %s: %w", path, err)
		}
		return f, gz, nil
	}

	return f, f, nil
}
