package xacro

import "strings"

// MacroDef is a named, parameterized template of tree content. Body nodes
// are kept unexpanded; the expander instantiates them per invocation.
type MacroDef struct {
	Name   string
	Params []string
	Body   []*Node
}

// HasParam reports whether the macro declares the given parameter.
func (m *MacroDef) HasParam(name string) bool {
	for _, p := range m.Params {
		if p == name {
			return true
		}
	}
	return false
}

// MacroTable maps macro names to their definitions.
type MacroTable struct {
	defs  map[string]*MacroDef
	order []string
}

// NewMacroTable creates an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{
		defs: make(map[string]*MacroDef),
	}
}

// Register adds a macro definition, overwriting any prior definition with
// the same name.
func (mt *MacroTable) Register(def *MacroDef) {
	if _, ok := mt.defs[def.Name]; !ok {
		mt.order = append(mt.order, def.Name)
	}
	mt.defs[def.Name] = def
}

// RegisterNode registers a macro from its declaration node: the name comes
// from the "name" attribute, parameters from the whitespace-separated
// "params" attribute, and the body is the node's children.
func (mt *MacroTable) RegisterNode(node *Node) {
	name := node.Attr("name")
	if name == "" {
		return
	}
	mt.Register(&MacroDef{
		Name:   name,
		Params: strings.Fields(node.Attr("params")),
		Body:   node.Children,
	})
}

// Lookup finds a macro by invocation tag, matching the local name first
// and then the qualified tag.
func (mt *MacroTable) Lookup(tag string) (*MacroDef, bool) {
	if def, ok := mt.defs[LocalName(tag)]; ok {
		return def, true
	}
	if def, ok := mt.defs[tag]; ok {
		return def, true
	}
	return nil, false
}

// Len returns the number of registered macros.
func (mt *MacroTable) Len() int {
	return len(mt.defs)
}

// Names returns the macro names in registration order.
func (mt *MacroTable) Names() []string {
	return append([]string(nil), mt.order...)
}
