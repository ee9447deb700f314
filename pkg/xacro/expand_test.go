package xacro

import (
	"strings"
	"testing"
)

func expandString(t *testing.T, content string) *Node {
	t.Helper()
	root, err := ParseDocumentString(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	c := NewCollector()
	c.Collect(root)

	expander := &Expander{
		Properties: c.Properties,
		Macros:     c.Macros,
		MaxDepth:   100,
	}
	expanded, err := expander.Expand(root)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	return expanded
}

func TestExpandWheelLinkMacro(t *testing.T) {
	expanded := expandString(t, `<robot name="r">
  <xacro:macro name="wheel_link" params="prefix name radius">
    <link name="${prefix}${name}"><radius value="${radius}"/></link>
  </xacro:macro>
  <xacro:wheel_link prefix="left_" name="wheel" radius="0.1"/>
</robot>`)

	if len(expanded.Children) != 1 {
		t.Fatalf("expanded root has %d children, want 1", len(expanded.Children))
	}
	link := expanded.Children[0]
	if link.Tag != "link" {
		t.Fatalf("child tag = %q, want link", link.Tag)
	}
	if link.Attr("name") != "left_wheel" {
		t.Errorf("link name = %q, want left_wheel", link.Attr("name"))
	}
	if len(link.Children) != 1 || link.Children[0].Tag != "radius" {
		t.Fatalf("link children = %v, want one radius node", link.Children)
	}
	if link.Children[0].Attr("value") != "0.1" {
		t.Errorf("radius value = %q, want 0.1", link.Children[0].Attr("value"))
	}
}

func TestExpandVariablePrecedence(t *testing.T) {
	// A macro-call-local argument shadows a global property of the same
	// name for the duration of that expansion.
	expanded := expandString(t, `<robot name="r">
  <xacro:property name="x" value="1"/>
  <xacro:macro name="m" params="x">
    <link name="link_${x}"/>
  </xacro:macro>
  <xacro:m x="2"/>
  <link name="outer_${x}"/>
</robot>`)

	if got := expanded.Children[0].Attr("name"); got != "link_2" {
		t.Errorf("macro body resolved to %q, want link_2", got)
	}
	if got := expanded.Children[1].Attr("name"); got != "outer_1" {
		t.Errorf("outer reference resolved to %q, want outer_1", got)
	}
}

func TestExpandUnsuppliedParamFallsThrough(t *testing.T) {
	// A parameter the invocation does not supply stays unbound, so a
	// reference to it falls through to the global property.
	expanded := expandString(t, `<robot name="r">
  <xacro:property name="radius" value="0.25"/>
  <xacro:macro name="m" params="radius">
    <sphere r="${radius}"/>
  </xacro:macro>
  <xacro:m/>
</robot>`)

	if got := expanded.Children[0].Attr("r"); got != "0.25" {
		t.Errorf("r = %q, want global fallback 0.25", got)
	}
}

func TestExpandUnknownMacroDrop(t *testing.T) {
	// An invocation of a never-defined macro expands to zero nodes;
	// siblings before and after keep their order.
	expanded := expandString(t, `<robot name="r">
  <link name="before"/>
  <xacro:not_defined a="1"/>
  <link name="after"/>
</robot>`)

	if len(expanded.Children) != 2 {
		t.Fatalf("expanded root has %d children, want 2", len(expanded.Children))
	}
	if expanded.Children[0].Attr("name") != "before" || expanded.Children[1].Attr("name") != "after" {
		t.Errorf("sibling order disturbed: %v, %v",
			expanded.Children[0].Attr("name"), expanded.Children[1].Attr("name"))
	}
}

func TestExpandIdempotentOnFlatDocument(t *testing.T) {
	content := `<robot name="r">
  <link name="base_link">
    <visual>
      <geometry><box size="1 1 1"/></geometry>
    </visual>
  </link>
  <joint name="j" type="fixed">
    <parent link="base_link"/>
    <child link="arm"/>
  </joint>
</robot>`

	original, err := ParseDocumentString(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	expanded := expandString(t, content)

	if got, want := FormatDocument(expanded), FormatDocument(original); got != want {
		t.Errorf("expansion changed a flat document:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestExpandMultiNodeMacroBody(t *testing.T) {
	// One invocation splices in the whole body sequence as siblings.
	expanded := expandString(t, `<robot name="r">
  <xacro:macro name="pair" params="n">
    <link name="${n}_link"/>
    <joint name="${n}_joint" type="fixed"/>
  </xacro:macro>
  <xacro:pair n="a"/>
</robot>`)

	if len(expanded.Children) != 2 {
		t.Fatalf("expanded root has %d children, want 2", len(expanded.Children))
	}
	if expanded.Children[0].Attr("name") != "a_link" || expanded.Children[1].Attr("name") != "a_joint" {
		t.Errorf("spliced body = %v %v", expanded.Children[0].Attrs, expanded.Children[1].Attrs)
	}
}

func TestExpandNestedInvocations(t *testing.T) {
	// A macro body may invoke another macro; each invocation gets its own
	// scope and arguments resolve in the caller's scope.
	expanded := expandString(t, `<robot name="r">
  <xacro:macro name="inner" params="name">
    <link name="${name}"/>
  </xacro:macro>
  <xacro:macro name="outer" params="prefix">
    <xacro:inner name="${prefix}_wheel"/>
  </xacro:macro>
  <xacro:outer prefix="left"/>
</robot>`)

	if len(expanded.Children) != 1 {
		t.Fatalf("expanded root has %d children, want 1", len(expanded.Children))
	}
	if got := expanded.Children[0].Attr("name"); got != "left_wheel" {
		t.Errorf("nested expansion = %q, want left_wheel", got)
	}
}

func TestExpandOrdinaryChildInheritsScope(t *testing.T) {
	// Nested ordinary elements inside a macro body still see that macro's
	// parameter bindings.
	expanded := expandString(t, `<robot name="r">
  <xacro:macro name="m" params="color">
    <link name="l">
      <visual>
        <material name="${color}"/>
      </visual>
    </link>
  </xacro:macro>
  <xacro:m color="red"/>
</robot>`)

	material := expanded.Children[0].Children[0].Children[0]
	if material.Attr("name") != "red" {
		t.Errorf("material name = %q, want red", material.Attr("name"))
	}
}

func TestExpandDropsXacroNamespaceDecl(t *testing.T) {
	expanded := expandString(t, `<robot name="r" xmlns:xacro="http://www.ros.org/wiki/xacro">
  <link name="base_link"/>
</robot>`)

	if expanded.HasAttr("xmlns:xacro") {
		t.Error("xacro namespace declaration survived expansion")
	}
	if expanded.Attr("name") != "r" {
		t.Errorf("name attribute = %q, want r", expanded.Attr("name"))
	}
}

func TestExpandUnresolvedReferencePassthrough(t *testing.T) {
	expanded := expandString(t, `<robot name="r">
  <link name="${undefined_name}"/>
</robot>`)

	if got := expanded.Children[0].Attr("name"); got != "${undefined_name}" {
		t.Errorf("name = %q, want verbatim ${undefined_name}", got)
	}
}

func TestExpandTextContent(t *testing.T) {
	expanded := expandString(t, `<robot name="r">
  <xacro:property name="msg" value="hello"/>
  <note>${msg} world</note>
</robot>`)

	note := expanded.Children[0]
	if strings.TrimSpace(note.Text) != "hello world" {
		t.Errorf("note text = %q, want hello world", note.Text)
	}
}

func TestExpandRecursionLimit(t *testing.T) {
	root, err := ParseDocumentString(`<robot name="r">
  <xacro:macro name="loop">
    <xacro:loop/>
  </xacro:macro>
  <xacro:loop/>
</robot>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	c := NewCollector()
	c.Collect(root)

	expander := &Expander{
		Properties: c.Properties,
		Macros:     c.Macros,
		MaxDepth:   10,
	}
	_, err = expander.Expand(root)
	if err == nil {
		t.Fatal("self-referential macro did not fail")
	}
	if !IsExpansionError(err) {
		t.Fatalf("expected ExpansionError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "recursion limit") {
		t.Errorf("error = %v, want recursion limit message", err)
	}
}

func TestExpandStrictModeUnknownMacro(t *testing.T) {
	root, err := ParseDocumentString(`<robot name="r"><xacro:ghost/></robot>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	c := NewCollector()
	c.Collect(root)

	expander := &Expander{
		Properties: c.Properties,
		Macros:     c.Macros,
		MaxDepth:   100,
		Strict:     true,
	}
	if _, err := expander.Expand(root); err == nil {
		t.Fatal("strict mode accepted an unknown macro invocation")
	}
}

func TestExpandDoesNotMutateInput(t *testing.T) {
	root, err := ParseDocumentString(`<robot name="r">
  <xacro:property name="x" value="1"/>
  <link name="${x}"/>
</robot>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	c := NewCollector()
	c.Collect(root)

	expander := &Expander{Properties: c.Properties, Macros: c.Macros, MaxDepth: 100}
	if _, err := expander.Expand(root); err != nil {
		t.Fatalf("expand failed: %v", err)
	}

	// The collected input tree still carries the unresolved reference.
	if got := root.Children[0].Attr("name"); got != "${x}" {
		t.Errorf("input tree mutated: name = %q", got)
	}
}
