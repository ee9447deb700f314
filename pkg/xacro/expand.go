package xacro

import "strings"

// Expander performs the expansion pass: a recursive rewrite that resolves
// ${} references everywhere and replaces every macro invocation with the
// parameterized expansion of the macro body. Expansion never mutates its
// input; it always builds a new tree.
type Expander struct {
	Properties *PropertyTable
	Macros     *MacroTable
	// MaxDepth bounds nested macro invocations. A macro that invokes
	// itself, directly or through other macros, fails with an
	// ExpansionError instead of recursing until the stack is exhausted.
	MaxDepth int
	// Strict turns an invocation of an unknown xacro-namespaced macro
	// into an error instead of dropping it.
	Strict bool

	chain []string
}

// NewExpander creates an expander over the collected tables, configured
// from the global configuration.
func NewExpander(properties *PropertyTable, macros *MacroTable) *Expander {
	config := GetGlobalConfig()
	return &Expander{
		Properties: properties,
		Macros:     macros,
		MaxDepth:   config.MaxExpandDepth,
		Strict:     config.StrictMode,
	}
}

// Expand rewrites the tree rooted at node with no parameter scope active.
func (e *Expander) Expand(node *Node) (*Node, error) {
	return e.expandNode(node, nil, 0)
}

// expandNode builds the expanded counterpart of one node. Ordinary
// children inherit the enclosing scope so that nested elements inside a
// macro body still see that macro's parameter bindings.
func (e *Expander) expandNode(node *Node, scope Scope, depth int) (*Node, error) {
	out := NewNode(node.Tag)

	for _, name := range node.AttrOrder {
		value := node.Attrs[name]
		if isXacroNamespaceDecl(name, value) {
			continue
		}
		out.SetAttr(name, e.Properties.ResolveWith(value, scope))
	}

	for _, child := range node.Children {
		if def, ok := e.Macros.Lookup(child.Tag); ok && isInvocation(child.Tag) {
			expanded, err := e.expandInvocation(child, def, scope, depth)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, expanded...)
			continue
		}
		if IsXacroTag(child.Tag) {
			// Leftover xacro syntax: either an invocation of a macro that
			// was never defined (it may live behind an unresolved include)
			// or a declaration the collector did not see. Produces no
			// output.
			if e.Strict && ClassifyTag(child.Tag) == TagOrdinary {
				return nil, NewExpansionError("unknown macro '"+LocalName(child.Tag)+"'", e.chain)
			}
			continue
		}
		expanded, err := e.expandNode(child, scope, depth)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, expanded)
	}

	out.Text = e.Properties.ResolveWith(node.Text, scope)
	out.Tail = e.Properties.ResolveWith(node.Tail, scope)
	return out, nil
}

// expandInvocation instantiates a macro body for one invocation. Argument
// values are resolved in the caller's scope before being bound; parameters
// the invocation does not supply stay unbound, so references to them fall
// through to global properties. A single invocation may produce zero or
// many nodes: the body sequence, not one wrapping node.
func (e *Expander) expandInvocation(call *Node, def *MacroDef, callerScope Scope, depth int) ([]*Node, error) {
	if depth >= e.MaxDepth {
		return nil, NewExpansionError("macro recursion limit exceeded", append(e.chain, def.Name))
	}

	scope := make(Scope, len(def.Params))
	for _, param := range def.Params {
		if value, ok := call.Attrs[param]; ok {
			scope[param] = e.Properties.ResolveWith(value, callerScope)
		}
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithFields(Fields{
			"macro": def.Name,
			"depth": depth,
		}).Debug("expanding invocation")
	}

	e.chain = append(e.chain, def.Name)
	defer func() { e.chain = e.chain[:len(e.chain)-1] }()

	var out []*Node
	for _, bodyNode := range def.Body {
		if inner, ok := e.Macros.Lookup(bodyNode.Tag); ok && isInvocation(bodyNode.Tag) {
			expanded, err := e.expandInvocation(bodyNode, inner, scope, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}
		if IsXacroTag(bodyNode.Tag) {
			continue
		}
		expanded, err := e.expandNode(bodyNode, scope, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// isInvocation distinguishes macro invocations from the three declaration
// keywords, which share the xacro vocabulary but are handled by the
// collector.
func isInvocation(tag string) bool {
	switch LocalName(tag) {
	case "property", "macro", "include":
		return false
	}
	return true
}

// isXacroNamespaceDecl reports whether an attribute declares the xacro
// namespace. Such declarations are dropped from expanded output, since no
// xacro construct survives expansion.
func isXacroNamespaceDecl(name, value string) bool {
	if !strings.HasPrefix(name, "xmlns") {
		return false
	}
	return strings.Contains(value, XacroNamespaceMarker)
}
