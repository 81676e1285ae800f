package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrNoBody = errors.New("soap envelope has no body")

type node struct {
	name     string
	isNil    bool
	text     strings.Builder
	children map[string]any
}

func (n *node) value() any {
	if n.children != nil {
		return n.children
	}
	if n.isNil {
		return nil
	}
	return n.text.String()
}

func (n *node) add(name string, v any) {
	if n.children == nil {
		n.children = map[string]any{}
	}
	existing, ok := n.children[name]
	if !ok {
		n.children[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		n.children[name] = append(list, v)
		return
	}
	n.children[name] = []any{existing, v}
}

// DecodeBody parses a SOAP envelope and returns the children of its Body as a
// generic tree keyed by local element name. Elements with children become
// maps, leaves become strings (nil when marked xsi:nil) and repeated
// siblings are collected into a []any in document order.
func DecodeBody(data []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root := &node{}
	stack := []*node{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse soap envelope: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == NsInstance && a.Name.Local == "nil" && a.Value == "true" {
					n.isNil = true
				}
			}
			stack = append(stack, n)
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].add(n.name, n.value())
		}
	}

	env, ok := root.children["Envelope"].(map[string]any)
	if !ok {
		return nil, ErrNoBody
	}
	switch body := env["Body"].(type) {
	case map[string]any:
		return body, nil
	case string:
		// empty body
		return map[string]any{}, nil
	default:
		return nil, ErrNoBody
	}
}
