// Package xmlmap decodes carrier XML payloads into nested maps keyed by
// snake_case element names, the shape the rate extractor walks.
//
// An element with child elements becomes a map[string]any. An element with
// only character data becomes its trimmed text. Sibling elements sharing a
// name are collected into a []any in document order, so a field can be a
// single value or a list depending on cardinality; use List to normalize.
package xmlmap

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ContentKey holds the character data of an element that also has attributes
// or children.
const ContentKey = "content"

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// Key converts an XML element or attribute name to the snake_case key used
// in decoded maps, e.g. "RateReplyDetails" -> "rate_reply_details" and
// "ns:HighestSeverity" -> "highest_severity".
func Key(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	name = acronymBoundary.ReplaceAllString(name, "${1}_${2}")
	name = wordBoundary.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(strings.ReplaceAll(name, "-", "_"))
}

type node struct {
	name     string
	fields   map[string]any
	text     strings.Builder
	hasField bool
}

func (n *node) add(key string, v any) {
	n.hasField = true
	cur, ok := n.fields[key]
	if !ok {
		n.fields[key] = v
		return
	}
	if list, ok := cur.([]any); ok {
		n.fields[key] = append(list, v)
		return
	}
	n.fields[key] = []any{cur, v}
}

func (n *node) value() any {
	text := strings.TrimSpace(n.text.String())
	if !n.hasField {
		return text
	}
	if text != "" {
		n.fields[ContentKey] = text
	}
	return n.fields
}

// Decode reads one XML document from r and returns it as a map holding the
// root element under its key.
func Decode(r io.Reader) (map[string]any, error) {
	dec := xml.NewDecoder(r)
	var stack []*node
	root := &node{fields: map[string]any{}}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "decode xml")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, fields: map[string]any{}}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.add(Key(a.Name.Local), a.Value)
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.Errorf("decode xml: unexpected end element %s", t.Name.Local)
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := root
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			parent.add(Key(n.name), n.value())
		}
	}
	if len(stack) != 0 {
		return nil, errors.New("decode xml: unexpected end of document")
	}
	if !root.hasField {
		return nil, errors.New("decode xml: empty document")
	}
	return root.fields, nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(b []byte) (map[string]any, error) {
	return Decode(bytes.NewReader(b))
}
