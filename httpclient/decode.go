package httpclient

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// Format is the wire format a provider answers in.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
)

// Document is a decoded provider answer as JSON bytes.
type Document []byte

// Get reads path from the document using gjson syntax.
func (d Document) Get(path string) gjson.Result {
	if path == "" {
		return gjson.ParseBytes(d)
	}
	return gjson.GetBytes(d, path)
}

// Decode converts a response body in format into a JSON Document.
// XML becomes a tree keyed by element name, with attributes under "-name"
// and mixed text under "_text". CSV becomes an array of rows.
func Decode(format Format, body []byte) (Document, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewDecodeError(format, errors.New("empty body"))
	}

	switch format {
	case FormatJSON, "":
		if !gjson.ValidBytes(body) {
			return nil, NewDecodeError(FormatJSON, errors.New("invalid JSON"))
		}
		return Document(body), nil
	case FormatXML:
		doc, err := xmlToJSON(body)
		if err != nil {
			return nil, NewDecodeError(format, err)
		}
		return doc, nil
	case FormatCSV:
		doc, err := csvToJSON(body)
		if err != nil {
			return nil, NewDecodeError(format, err)
		}
		return doc, nil
	default:
		return nil, NewDecodeError(format, errors.New("unsupported format"))
	}
}

func csvToJSON(body []byte) (Document, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rows)
}

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

func xmlToJSON(body []byte) (Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Entity = xml.HTMLEntity

	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}

	return json.Marshal(map[string]any{root.name: root.value()})
}

// value renders a node: a bare string for text-only elements, otherwise an
// object. Repeated child names collapse into arrays.
func (n *xmlNode) value() any {
	text := strings.TrimSpace(n.text.String())
	if len(n.attrs) == 0 && len(n.children) == 0 {
		return text
	}

	obj := make(map[string]any, len(n.attrs)+len(n.children)+1)
	for _, a := range n.attrs {
		obj["-"+a.Name.Local] = a.Value
	}
	for _, c := range n.children {
		v := c.value()
		switch existing := obj[c.name].(type) {
		case nil:
			obj[c.name] = v
		case []any:
			obj[c.name] = append(existing, v)
		default:
			obj[c.name] = []any{existing, v}
		}
	}
	if text != "" {
		obj["_text"] = text
	}
	return obj
}
