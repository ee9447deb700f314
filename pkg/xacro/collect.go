package xacro

// Collector performs the collection pass: a single depth-first walk that
// extracts property declarations, macro definitions and include directives
// from the tree, registering them in the tables owned by one conversion
// run. Declarations are removed in place; the surviving children keep
// their relative order.
type Collector struct {
	Properties *PropertyTable
	Macros     *MacroTable
	Includes   []string
}

// NewCollector creates a collector with fresh tables.
func NewCollector() *Collector {
	return &Collector{
		Properties: NewPropertyTable(),
		Macros:     NewMacroTable(),
	}
}

// Collect walks the tree rooted at node, pre-order. Declarations missing
// their name attribute are dropped without being registered; the source
// document may be hand-edited, so a malformed declaration is a no-op
// rather than a fatal error.
func (c *Collector) Collect(node *Node) {
	logger := GetLogger()
	kept := node.Children[:0]

	for _, child := range node.Children {
		switch ClassifyTag(child.Tag) {
		case TagProperty:
			name := child.Attr("name")
			if name != "" {
				c.Properties.Define(name, child.Attr("value"))
				if logger.IsDebugMode() {
					logger.WithField("property", name).Debug("collected property")
				}
			}
		case TagMacro:
			if child.Attr("name") != "" {
				c.Macros.RegisterNode(child)
				if logger.IsDebugMode() {
					logger.WithField("macro", child.Attr("name")).Debug("collected macro")
				}
			}
		case TagInclude:
			if filename := child.Attr("filename"); filename != "" {
				c.Includes = append(c.Includes, filename)
			}
		default:
			// Ordinary node: its descendants may still carry declarations.
			c.Collect(child)
			kept = append(kept, child)
			continue
		}
	}

	node.Children = kept
}
