package awesomesauce

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	"golang.org/x/net/html/charset"
)

// element collects the text of one element below the root
type element struct {
	name     string
	text     strings.Builder
	children []*element
}

// parseResponse flattens a response body into key/value pairs.
//
// Direct children of the root become keys by tag name when they are leaves.
// Otherwise each of their children is keyed "child_grandchild". Nothing deeper
// produces a key, although deeper text still counts towards the grandchild's text.
//
// It never fails: HTML error pages and truncated documents yield whatever was
// collected before parsing stopped, usually nothing.
func parseResponse(body []byte) domain.ResponseFields {
	fields := make(domain.ResponseFields)

	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = decodeCharset

	var (
		depth      int
		child      *element
		grandchild *element
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			// io.EOF or a syntax error, keep what was flattened so far
			return fields
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				child = &element{name: t.Name.Local}
			case 3:
				grandchild = &element{name: t.Name.Local}
				child.children = append(child.children, grandchild)
			}

		case xml.CharData:
			switch {
			case depth == 2:
				child.text.Write(t)
			case depth >= 3:
				grandchild.text.Write(t)
			}

		case xml.EndElement:
			switch depth {
			case 1:
				// only the first root element is read
				return fields
			case 2:
				flatten(fields, child)
				child = nil
			case 3:
				grandchild = nil
			}
			depth--
		}
	}
}

func flatten(fields domain.ResponseFields, child *element) {
	if len(child.children) == 0 {
		fields[child.name] = child.text.String()
		return
	}
	for _, gc := range child.children {
		fields[child.name+"_"+gc.name] = gc.text.String()
	}
}

// decodeCharset converts a body declared in a non-UTF-8 encoding.
// Unknown labels are read as-is.
func decodeCharset(label string, input io.Reader) (io.Reader, error) {
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return input, nil
	}
	return r, nil
}
