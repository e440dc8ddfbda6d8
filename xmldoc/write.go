package xmldoc

import (
	"bytes"
	"strings"
)

const indentUnit = "  "

// Bytes serializes the document. The output carries no trailing newline.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	eol := d.lineEnding
	if eol == "" {
		eol = "\n"
	}

	first := true
	newline := func() {
		if !first {
			buf.WriteString(eol)
		}
		first = false
	}

	if d.declaration != "" {
		newline()
		buf.WriteString("<?xml ")
		buf.WriteString(d.declaration)
		buf.WriteString("?>")
	}
	for _, id := range d.top {
		newline()
		d.writeNode(&buf, id, 0, eol)
	}
	return buf.Bytes()
}

// String is Bytes as a string.
func (d *Document) String() string {
	return string(d.Bytes())
}

func (d *Document) writeNode(buf *bytes.Buffer, id NodeID, depth int, eol string) {
	indent := strings.Repeat(indentUnit, depth)
	n := &d.nodes[id]

	if n.kind != ElementNode {
		buf.WriteString(indent)
		d.writeInline(buf, id)
		return
	}

	buf.WriteString(indent)
	if len(n.children) == 0 {
		if id == d.root {
			writeStartTag(buf, n)
			buf.WriteString(eol)
			buf.WriteString(indent)
			writeEndTag(buf, n)
			return
		}
		writeEmptyTag(buf, n)
		return
	}

	writeStartTag(buf, n)
	if d.hasTextChild(id) {
		for _, c := range n.children {
			d.writeInline(buf, c)
		}
		writeEndTag(buf, n)
		return
	}

	for _, c := range n.children {
		buf.WriteString(eol)
		d.writeNode(buf, c, depth+1, eol)
	}
	buf.WriteString(eol)
	buf.WriteString(indent)
	writeEndTag(buf, n)
}

// writeInline writes a node without any added whitespace. Elements holding
// text are written this way so their content is not altered by indentation.
func (d *Document) writeInline(buf *bytes.Buffer, id NodeID) {
	n := &d.nodes[id]
	switch n.kind {
	case TextNode:
		text := escapeText(n.text)
		if d.lineEnding == "\r\n" {
			text = strings.ReplaceAll(text, "\n", "\r\n")
		}
		buf.WriteString(text)
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.text)
		buf.WriteString("-->")
	case ProcInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.name)
		if n.text != "" {
			buf.WriteString(" ")
			buf.WriteString(strings.TrimLeft(n.text, " \t\r\n"))
		}
		buf.WriteString("?>")
	case DirectiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.text)
		buf.WriteString(">")
	case ElementNode:
		if len(n.children) == 0 {
			writeEmptyTag(buf, n)
			return
		}
		writeStartTag(buf, n)
		for _, c := range n.children {
			d.writeInline(buf, c)
		}
		writeEndTag(buf, n)
	}
}

func (d *Document) hasTextChild(id NodeID) bool {
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind == TextNode {
			return true
		}
	}
	return false
}

func writeStartTag(buf *bytes.Buffer, n *node) {
	buf.WriteString("<")
	buf.WriteString(n.name)
	writeAttrs(buf, n.attrs)
	buf.WriteString(">")
}

func writeEmptyTag(buf *bytes.Buffer, n *node) {
	buf.WriteString("<")
	buf.WriteString(n.name)
	writeAttrs(buf, n.attrs)
	buf.WriteString(" />")
}

func writeEndTag(buf *bytes.Buffer, n *node) {
	buf.WriteString("</")
	buf.WriteString(n.name)
	buf.WriteString(">")
}

func writeAttrs(buf *bytes.Buffer, attrs []Attr) {
	for _, a := range attrs {
		buf.WriteString(" ")
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(a.Value))
		buf.WriteString(`"`)
	}
}

// Apostrophes are left alone: MSBuild conditions are full of them and the
// files conventionally keep them literal.
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\r", "&#xD;", "\n", "&#xA;", "\t", "&#x9;")
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
