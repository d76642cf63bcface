package ipxact

import (
	"bytes"
	"encoding/xml"
)

// node is one element of the document tree the builder assembles before
// marshaling. Element names are stored without the namespace prefix; the
// renderer applies the dialect's prefix uniformly at emission time so the
// same tree shape serves every revision.
type node struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*node
}

func el(name string, children ...*node) *node {
	return &node{name: name, children: children}
}

func txt(name, text string) *node {
	return &node{name: name, text: text}
}

func (n *node) add(children ...*node) *node {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

func (n *node) attr(name, value string) *node {
	n.attrs = append(n.attrs, xmlAttr(name, value))
	return n
}

func xmlAttr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// Document is a fully built component tree, ready to marshal.
type Document struct {
	Revision Revision
	root     *node
}

// render walks the tree through an xml.Encoder, prefixing every element
// name with the dialect's namespace prefix. Output is a pure function of
// the tree, satisfying the determinism property (spec §8): no maps are
// iterated and no timestamps are stamped anywhere in the builder.
func (d *Document) render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := d.encodeNode(enc, d.root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (d *Document) encodeNode(enc *xml.Encoder, n *node) error {
	prefix := dialects[d.Revision].prefix
	start := xml.StartElement{
		Name: xml.Name{Local: prefix + ":" + n.name},
		Attr: n.attrs,
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.text != "" {
		if err := enc.EncodeToken(xml.CharData(n.text)); err != nil {
			return err
		}
	}
	for _, c := range n.children {
		if err := d.encodeNode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
