package xacro

import "strings"

const xmlDeclaration = `<?xml version="1.0"?>`

// FormatDocument renders a tree as indented XML text with two-space
// indentation, preceded by an XML declaration line.
func FormatDocument(root *Node) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteString("\n")
	writeNode(&b, root, 0)
	return b.String()
}

func writeNode(b *strings.Builder, node *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(node.Tag)
	for _, name := range node.AttrOrder {
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(node.Attrs[name]))
		b.WriteString(`"`)
	}

	text := strings.TrimSpace(node.Text)
	if len(node.Children) == 0 && text == "" {
		b.WriteString("/>\n")
		return
	}

	if len(node.Children) == 0 {
		b.WriteString(">")
		b.WriteString(escapeText(text))
		b.WriteString("</")
		b.WriteString(node.Tag)
		b.WriteString(">\n")
		return
	}

	b.WriteString(">\n")
	if text != "" {
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString(escapeText(text))
		b.WriteString("\n")
	}
	for _, child := range node.Children {
		writeNode(b, child, depth+1)
		if tail := strings.TrimSpace(child.Tail); tail != "" {
			b.WriteString(strings.Repeat("  ", depth+1))
			b.WriteString(escapeText(tail))
			b.WriteString("\n")
		}
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(node.Tag)
	b.WriteString(">\n")
}

func escapeText(text string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(text)
}

func escapeAttr(text string) string {
	replacer := strings.NewReplacer(`"`, "&quot;")
	return replacer.Replace(escapeText(text))
}
