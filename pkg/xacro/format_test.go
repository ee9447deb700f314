package xacro

import (
	"strings"
	"testing"
)

func TestFormatDocument(t *testing.T) {
	root := NewNode("robot")
	root.SetAttr("name", "bot")
	link := NewNode("link")
	link.SetAttr("name", "base_link")
	visual := NewNode("visual")
	link.Append(visual)
	root.Append(link)

	got := FormatDocument(root)
	want := `<?xml version="1.0"?>
<robot name="bot">
  <link name="base_link">
    <visual/>
  </link>
</robot>
`
	if got != want {
		t.Errorf("FormatDocument:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatDocumentTextContent(t *testing.T) {
	root := NewNode("robot")
	root.SetAttr("name", "bot")
	note := NewNode("note")
	note.Text = "hello"
	root.Append(note)

	got := FormatDocument(root)
	if !strings.Contains(got, "<note>hello</note>") {
		t.Errorf("text content lost:\n%s", got)
	}
}

func TestFormatDocumentEscaping(t *testing.T) {
	root := NewNode("robot")
	root.SetAttr("name", `a"b<c`)
	note := NewNode("note")
	note.Text = "1 < 2 & 3 > 2"
	root.Append(note)

	got := FormatDocument(root)
	if !strings.Contains(got, `name="a&quot;b&lt;c"`) {
		t.Errorf("attribute not escaped:\n%s", got)
	}
	if !strings.Contains(got, "1 &lt; 2 &amp; 3 &gt; 2") {
		t.Errorf("text not escaped:\n%s", got)
	}
}

func TestFormatDocumentNoBlankLines(t *testing.T) {
	root, err := ParseDocumentString(`<robot name="r">

  <link name="a"/>


  <link name="b"/>
</robot>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for i, line := range strings.Split(strings.TrimRight(FormatDocument(root), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			t.Errorf("blank line at %d", i)
		}
	}
}

func TestFormatDocumentDeclarationLine(t *testing.T) {
	got := FormatDocument(NewNode("robot"))
	if !strings.HasPrefix(got, `<?xml version="1.0"?>`+"\n") {
		t.Errorf("missing declaration line:\n%s", got)
	}
}

func TestFormatDocumentAttrOrder(t *testing.T) {
	node := NewNode("joint")
	node.SetAttr("name", "j")
	node.SetAttr("type", "revolute")

	got := FormatDocument(node)
	if !strings.Contains(got, `<joint name="j" type="revolute"/>`) {
		t.Errorf("attributes not in insertion order:\n%s", got)
	}
}
