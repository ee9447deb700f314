package xacro

import (
	"strconv"
	"strings"
)

// GroupKeyFunc derives the similarity key used to group links into one
// parameterized macro. The default keys on the mesh filename pattern; the
// key is a heuristic convenience, not a contract, so callers may plug in
// their own.
type GroupKeyFunc func(LinkInfo) string

// DefaultGroupKey groups links that share a mesh filename pattern. Links
// without a visual mesh are never grouped.
func DefaultGroupKey(link LinkInfo) string {
	if link.VisualMesh == "" {
		return ""
	}
	return MeshPattern(link.VisualMesh)
}

// linkGroup is one set of structurally similar links emitted as a macro.
type linkGroup struct {
	name  string
	links []LinkInfo
}

// identifyPatterns groups links by the converter's key function and keeps
// only groups with more than one member; a macro for a single link would
// add indirection without removing repetition.
func (c *URDFToXacro) identifyPatterns() []linkGroup {
	keyed := make(map[string][]LinkInfo)
	var order []string

	for _, link := range c.links {
		key := c.groupKey(link)
		if key == "" {
			continue
		}
		if _, ok := keyed[key]; !ok {
			order = append(order, key)
		}
		keyed[key] = append(keyed[key], link)
	}

	var groups []linkGroup
	for _, key := range order {
		if len(keyed[key]) > 1 {
			groups = append(groups, linkGroup{name: "mesh_" + key, links: keyed[key]})
		}
	}
	return groups
}

// synthesizeProperties derives the xacro:property declarations emitted at
// the top of the generated document.
func (c *URDFToXacro) synthesizeProperties() {
	var masses []float64
	for _, link := range c.links {
		if link.Mass != nil {
			masses = append(masses, *link.Mass)
		}
	}
	if len(masses) > 0 {
		sum := 0.0
		for _, m := range masses {
			sum += m
		}
		c.properties.Define("default_mass", formatFloat(sum/float64(len(masses))))
	}

	c.properties.Define("default_color", "0.8 0.8 0.8 1.0")
	c.properties.Define("package_name", "robot_description")
	c.properties.Define("prefix", "")
	c.properties.Define("base_link_name", "base_link")
}

// generateDocument builds the full xacro tree: property declarations,
// carried-over materials, one top-level robot macro parameterized by
// prefix and base_link_name, and a single invocation of it.
func (c *URDFToXacro) generateDocument(robotName string) *Node {
	root := NewNode("robot")
	root.SetAttr("name", robotName)
	root.SetAttr("xmlns:xacro", XacroNamespace)

	c.synthesizeProperties()
	for _, name := range c.properties.Names() {
		value, _ := c.properties.Get(name)
		prop := NewNode("xacro:property")
		prop.SetAttr("name", name)
		prop.SetAttr("value", value)
		root.Append(prop)
	}

	for _, material := range c.materials {
		root.Append(material.Clone())
	}

	root.Append(c.mainRobotMacro(robotName))

	call := NewNode("xacro:" + robotName)
	call.SetAttr("prefix", "${prefix}")
	call.SetAttr("base_link_name", "${base_link_name}")
	root.Append(call)

	return root
}

// mainRobotMacro wraps the whole robot in one macro so that the model can
// be instantiated several times with different prefixes.
func (c *URDFToXacro) mainRobotMacro(robotName string) *Node {
	macro := NewNode("xacro:macro")
	macro.SetAttr("name", robotName)
	macro.SetAttr("params", "prefix base_link_name")

	groups := c.identifyPatterns()

	for _, group := range groups {
		macro.Append(c.linkMacro(group.name, group.links[0]))
	}

	emitted := make(map[string]bool)
	for _, group := range groups {
		for _, link := range group.links {
			if emitted[link.Name] {
				continue
			}
			macro.Append(c.linkMacroCall(group.name, link))
			emitted[link.Name] = true
		}
	}

	for _, link := range c.links {
		if !emitted[link.Name] {
			macro.Append(c.prefixedLink(link))
		}
	}

	for _, joint := range c.joints {
		macro.Append(c.prefixedJoint(joint))
	}

	return macro
}

// linkMacro authors one macro from the first member of a group, with the
// value-bearing attributes replaced by parameter placeholders.
func (c *URDFToXacro) linkMacro(groupName string, template LinkInfo) *Node {
	macro := NewNode("xacro:macro")
	macro.SetAttr("name", groupName+"_link")

	params := "prefix link_name mesh_file"
	if template.Mass != nil {
		params += " mass"
	}
	macro.SetAttr("params", params)

	link := NewNode("link")
	link.SetAttr("name", "${prefix}${link_name}")
	for _, child := range template.Element.Children {
		link.Append(parameterizeElement(child))
	}
	macro.Append(link)

	return macro
}

// parameterizeElement copies a subtree, substituting parameter
// placeholders for mesh filenames and mass values.
func parameterizeElement(source *Node) *Node {
	out := NewNode(source.Tag)
	for _, name := range source.AttrOrder {
		value := source.Attrs[name]
		switch {
		case name == "filename" && containsPackageURI(value):
			out.SetAttr(name, "${mesh_file}")
		case name == "value" && LocalName(source.Tag) == "mass":
			out.SetAttr(name, "${mass}")
		default:
			out.SetAttr(name, value)
		}
	}
	for _, child := range source.Children {
		out.Append(parameterizeElement(child))
	}
	if len(source.Children) == 0 {
		out.Text = source.Text
	}
	return out
}

// linkMacroCall emits one invocation carrying a group member's captured
// values as arguments.
func (c *URDFToXacro) linkMacroCall(groupName string, link LinkInfo) *Node {
	call := NewNode("xacro:" + groupName + "_link")
	call.SetAttr("prefix", "${prefix}")
	if link.Name == "base_link" {
		call.SetAttr("link_name", "${base_link_name}")
	} else {
		call.SetAttr("link_name", link.Name)
	}
	if link.VisualMesh != "" {
		call.SetAttr("mesh_file", link.VisualMesh)
	}
	if link.Mass != nil {
		call.SetAttr("mass", formatFloat(*link.Mass))
	}
	return call
}

// prefixedLink copies a link that matched no pattern, rewriting its name
// to carry the prefix parameter.
func (c *URDFToXacro) prefixedLink(link LinkInfo) *Node {
	out := NewNode("link")
	if link.Name == "base_link" {
		out.SetAttr("name", "${prefix}${base_link_name}")
	} else {
		out.SetAttr("name", "${prefix}"+link.Name)
	}
	for _, child := range link.Element.Children {
		out.Append(child.Clone())
	}
	return out
}

// prefixedJoint copies a joint, rewriting its own name and its parent and
// child link references to carry the prefix parameter.
func (c *URDFToXacro) prefixedJoint(joint JointInfo) *Node {
	out := NewNode("joint")
	for _, name := range joint.Elem.AttrOrder {
		if name == "name" {
			out.SetAttr(name, "${prefix}"+joint.Elem.Attrs[name])
		} else {
			out.SetAttr(name, joint.Elem.Attrs[name])
		}
	}

	for _, child := range joint.Elem.Children {
		copied := NewNode(child.Tag)
		for _, name := range child.AttrOrder {
			value := child.Attrs[name]
			if name == "link" {
				if value == "base_link" {
					copied.SetAttr(name, "${prefix}${base_link_name}")
				} else {
					copied.SetAttr(name, "${prefix}"+value)
				}
			} else {
				copied.SetAttr(name, value)
			}
		}
		for _, grandchild := range child.Children {
			copied.Append(grandchild.Clone())
		}
		if len(child.Children) == 0 {
			copied.Text = child.Text
		}
		out.Append(copied)
	}

	return out
}

func containsPackageURI(value string) bool {
	return strings.Contains(value, "package://")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
