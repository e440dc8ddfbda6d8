// Package xmldoc provides a mutable XML tree stored as an index-based node
// table. Handles into the tree are plain NodeID values, so typed views built
// on top of a Document can hold node references without pointer cycles.
//
// The serializer reproduces the layout MSBuild tooling writes: two-space
// indentation, self-closing empty elements, inline text content, and
// attributes in their original order with their original prefixes.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// NodeID identifies a node inside a Document.
type NodeID int

// NoNode is returned when a lookup finds nothing.
const NoNode NodeID = -1

// Kind is the type of a node.
type Kind int

// Node kinds.
const (
	ElementNode Kind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// DefaultDeclaration is written for documents that were not parsed from a
// source carrying their own declaration.
const DefaultDeclaration = `version="1.0" encoding="utf-8"`

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Attr is an attribute with its qualified (prefixed) name.
type Attr struct {
	Name  string
	Value string
}

type node struct {
	kind     Kind
	name     string
	attrs    []Attr
	text     string
	parent   NodeID
	children []NodeID
}

// Document is an XML tree. A Document is not safe for concurrent mutation.
type Document struct {
	nodes       []node
	top         []NodeID
	root        NodeID
	declaration string
	lineEnding  string
}

// New creates a document holding only a root element with the given attributes
// and the default XML declaration.
func New(rootName string, attrs ...Attr) *Document {
	d := &Document{root: NoNode, declaration: DefaultDeclaration, lineEnding: "\n"}
	d.root = d.newNode(node{kind: ElementNode, name: rootName, attrs: append([]Attr(nil), attrs...)})
	d.top = append(d.top, d.root)
	return d
}

// Parse reads a document. A leading UTF-8 byte order mark is ignored.
// Whitespace-only text is dropped where it is indentation between child
// nodes, and kept where it is an element's whole content, as in
// <NoWarn> </NoWarn>. Indentation is regenerated on output.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	d := &Document{root: NoNode, lineEnding: detectLineEnding(data)}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var stack []NodeID
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
			}
			id := d.newNode(node{kind: ElementNode, name: qualifiedName(t.Name), attrs: attrs})
			if len(stack) == 0 {
				if d.root != NoNode {
					return nil, fmt.Errorf("failed to parse XML: multiple root elements")
				}
				d.root = id
				d.top = append(d.top, id)
			} else {
				d.appendChild(stack[len(stack)-1], id)
			}
			stack = append(stack, id)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("failed to parse XML: unexpected end element </%s>", qualifiedName(t.Name))
			}
			open := stack[len(stack)-1]
			if name := qualifiedName(t.Name); name != d.nodes[open].name {
				return nil, fmt.Errorf("failed to parse XML: element <%s> closed by </%s>", d.nodes[open].name, name)
			}
			if open == d.root || d.hasNonTextChild(open) {
				d.dropBlankText(open)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			if last := d.lastChild(parent); last != NoNode && d.nodes[last].kind == TextNode {
				d.nodes[last].text += string(t)
				continue
			}
			d.appendChild(parent, d.newNode(node{kind: TextNode, text: string(t)}))

		case xml.Comment:
			d.attachMisc(stack, node{kind: CommentNode, text: string(t)})

		case xml.ProcInst:
			if t.Target == "xml" {
				d.declaration = strings.TrimSpace(string(t.Inst))
				continue
			}
			d.attachMisc(stack, node{kind: ProcInstNode, name: t.Target, text: string(t.Inst)})

		case xml.Directive:
			d.attachMisc(stack, node{kind: DirectiveNode, text: string(t)})
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("failed to parse XML: element <%s> is not closed", d.nodes[stack[len(stack)-1]].name)
	}
	if d.root == NoNode {
		return nil, fmt.Errorf("failed to parse XML: no root element")
	}
	return d, nil
}

func (d *Document) attachMisc(stack []NodeID, n node) {
	id := d.newNode(n)
	if len(stack) == 0 {
		d.top = append(d.top, id)
		return
	}
	d.appendChild(stack[len(stack)-1], id)
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func detectLineEnding(data []byte) string {
	if bytes.Contains(data, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func (d *Document) newNode(n node) NodeID {
	n.parent = NoNode
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

func (d *Document) appendChild(parent, child NodeID) {
	d.nodes[child].parent = parent
	d.nodes[parent].children = append(d.nodes[parent].children, child)
}

func (d *Document) lastChild(id NodeID) NodeID {
	children := d.nodes[id].children
	if len(children) == 0 {
		return NoNode
	}
	return children[len(children)-1]
}

func (d *Document) hasNonTextChild(id NodeID) bool {
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind != TextNode {
			return true
		}
	}
	return false
}

// dropBlankText removes whitespace-only text children of id.
func (d *Document) dropBlankText(id NodeID) {
	children := d.nodes[id].children[:0]
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind == TextNode && strings.TrimSpace(d.nodes[c].text) == "" {
			d.nodes[c].parent = NoNode
			continue
		}
		children = append(children, c)
	}
	d.nodes[id].children = children
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

func (d *Document) isElement(id NodeID) bool {
	return d.valid(id) && d.nodes[id].kind == ElementNode
}

// Root returns the document element.
func (d *Document) Root() NodeID {
	return d.root
}

// Declaration returns the content of the XML declaration, e.g.
// `version="1.0" encoding="utf-8"`. It is empty when the source had none.
func (d *Document) Declaration() string {
	return d.declaration
}

// LineEnding returns the line separator used by Bytes.
func (d *Document) LineEnding() string {
	return d.lineEnding
}

// Kind returns the kind of a node.
func (d *Document) Kind(id NodeID) Kind {
	return d.nodes[id].kind
}

// Name returns the qualified name of an element.
func (d *Document) Name(id NodeID) string {
	if !d.isElement(id) {
		return ""
	}
	return d.nodes[id].name
}

// Parent returns the parent of a node, or NoNode for top-level and detached
// nodes.
func (d *Document) Parent(id NodeID) NodeID {
	if !d.valid(id) {
		return NoNode
	}
	return d.nodes[id].parent
}

// Attached reports whether a node is still reachable from the root.
func (d *Document) Attached(id NodeID) bool {
	for d.valid(id) {
		if id == d.root {
			return true
		}
		id = d.nodes[id].parent
	}
	return false
}

// Attrs returns a copy of the attributes of an element in document order.
func (d *Document) Attrs(id NodeID) []Attr {
	if !d.isElement(id) {
		return nil
	}
	return append([]Attr(nil), d.nodes[id].attrs...)
}

// Attr returns the value of an attribute.
func (d *Document) Attr(id NodeID, name string) (string, bool) {
	if !d.isElement(id) {
		return "", false
	}
	for _, a := range d.nodes[id].attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, appending it when it does not exist yet.
func (d *Document) SetAttr(id NodeID, name, value string) {
	n := &d.nodes[id]
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes an attribute if present.
func (d *Document) RemoveAttr(id NodeID, name string) {
	n := &d.nodes[id]
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Elements returns the child elements of a node in document order.
func (d *Document) Elements(id NodeID) []NodeID {
	if !d.isElement(id) {
		return nil
	}
	var out []NodeID
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ElementsNamed returns the child elements with the given name.
func (d *Document) ElementsNamed(id NodeID, name string) []NodeID {
	var out []NodeID
	for _, c := range d.Elements(id) {
		if d.nodes[c].name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstElement returns the first child element with the given name.
func (d *Document) FirstElement(id NodeID, name string) NodeID {
	for _, c := range d.Elements(id) {
		if d.nodes[c].name == name {
			return c
		}
	}
	return NoNode
}

// Descendants returns every element below id with the given name, depth
// first in document order.
func (d *Document) Descendants(id NodeID, name string) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(n NodeID) {
		for _, c := range d.Elements(n) {
			if d.nodes[c].name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(id)
	return out
}

// Text returns the concatenated text content directly inside an element.
func (d *Document) Text(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	if d.nodes[id].kind != ElementNode {
		return d.nodes[id].text
	}
	var b strings.Builder
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind == TextNode {
			b.WriteString(d.nodes[c].text)
		}
	}
	return b.String()
}

// SetText replaces all children of an element with a single text node.
// An empty string leaves the element empty.
func (d *Document) SetText(id NodeID, text string) {
	for _, c := range d.nodes[id].children {
		d.nodes[c].parent = NoNode
	}
	d.nodes[id].children = nil
	if text != "" {
		d.appendChild(id, d.newNode(node{kind: TextNode, text: text}))
	}
}

// ChildText returns the text of the first child element with the given name.
func (d *Document) ChildText(id NodeID, name string) (string, bool) {
	c := d.FirstElement(id, name)
	if c == NoNode {
		return "", false
	}
	return d.Text(c), true
}

// AppendElement adds a new empty element as the last child of parent.
// Whitespace-only text in parent is dropped, as it becomes indentation.
func (d *Document) AppendElement(parent NodeID, name string, attrs ...Attr) NodeID {
	d.dropBlankText(parent)
	id := d.newNode(node{kind: ElementNode, name: name, attrs: append([]Attr(nil), attrs...)})
	d.appendChild(parent, id)
	return id
}

// Remove detaches a node from its parent. The root cannot be removed.
func (d *Document) Remove(id NodeID) {
	if !d.valid(id) || id == d.root {
		return
	}
	parent := d.nodes[id].parent
	if parent == NoNode {
		return
	}
	children := d.nodes[parent].children
	for i, c := range children {
		if c == id {
			d.nodes[parent].children = append(children[:i:i], children[i+1:]...)
			break
		}
	}
	d.nodes[id].parent = NoNode
}
