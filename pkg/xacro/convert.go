package xacro

import (
	"os"
	"path/filepath"
	"strings"
)

// XacroToURDF expands a xacro document into a flat URDF document. Each
// instance owns one conversion run's property table, macro table and
// include list, so independent conversions can run in parallel.
type XacroToURDF struct {
	collector *Collector
	config    *Config
}

// NewXacroToURDF creates a converter using the global configuration.
func NewXacroToURDF() *XacroToURDF {
	return NewXacroToURDFWithConfig(GetGlobalConfig())
}

// NewXacroToURDFWithConfig creates a converter with an explicit
// configuration. Preset properties from the configuration are defined
// before collection, so declarations in the document override them.
func NewXacroToURDFWithConfig(config *Config) *XacroToURDF {
	c := &XacroToURDF{
		collector: NewCollector(),
		config:    config,
	}
	for name, value := range config.Properties {
		c.collector.Properties.Define(name, value)
	}
	return c
}

// Properties returns the property table populated by the last conversion.
func (c *XacroToURDF) Properties() *PropertyTable {
	return c.collector.Properties
}

// Macros returns the macro table populated by the last conversion.
func (c *XacroToURDF) Macros() *MacroTable {
	return c.collector.Macros
}

// Includes returns the include directives recorded by the last conversion.
// Includes are recorded, not inlined.
func (c *XacroToURDF) Includes() []string {
	return c.collector.Includes
}

// ExpandTree runs the collection pass and then the expansion pass over an
// already-parsed tree. Collection completes before any expansion begins,
// so a property redefined late in the document wins everywhere. The input
// tree is mutated by collection; the returned tree is new.
func (c *XacroToURDF) ExpandTree(root *Node) (*Node, error) {
	c.collector.Collect(root)

	expander := &Expander{
		Properties: c.collector.Properties,
		Macros:     c.collector.Macros,
		MaxDepth:   c.config.MaxExpandDepth,
		Strict:     c.config.StrictMode,
	}
	return expander.Expand(root)
}

// Expand parses a xacro document and expands it.
func (c *XacroToURDF) Expand(content string) (*Node, error) {
	root, err := ParseDocumentString(content)
	if err != nil {
		return nil, err
	}
	return c.ExpandTree(root)
}

// assemble strips any xacro artifacts that survived expansion and renders
// the final URDF document.
func (c *XacroToURDF) assemble(expanded *Node, robotName string) string {
	if robotName == "" {
		robotName = c.config.RobotName
	}
	if robotName == "" {
		robotName = expanded.Attr("name")
	}
	if robotName == "" {
		robotName = "robot"
	}

	urdf := NewNode("robot")
	urdf.SetAttr("name", robotName)
	for _, child := range expanded.Children {
		if IsXacroTag(child.Tag) {
			continue
		}
		urdf.Append(child)
	}

	return FormatDocument(urdf)
}

// ConvertString converts xacro content to URDF text. When robotName is
// empty, the name is taken from the configuration or the root element,
// with "robot" as the final fallback.
func (c *XacroToURDF) ConvertString(content, robotName string) (string, error) {
	expanded, err := c.Expand(content)
	if err != nil {
		return "", err
	}
	return c.assemble(expanded, robotName), nil
}

// ConvertFile converts a xacro file to a URDF file.
func (c *XacroToURDF) ConvertFile(inputPath, outputPath, robotName string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return NewDocumentError("read", inputPath, err)
	}

	output, err := c.ConvertString(string(content), robotName)
	if err != nil {
		return err
	}
	return writeOutput(outputPath, output)
}

// URDFToXacro authors a parameterized xacro document from a flat URDF
// document: repeated link patterns become macros, and the whole robot is
// wrapped in one prefix-parameterized macro.
type URDFToXacro struct {
	links      []LinkInfo
	joints     []JointInfo
	materials  []*Node
	properties *PropertyTable
	groupKey   GroupKeyFunc
	config     *Config
}

// NewURDFToXacro creates a converter using the global configuration and
// the default mesh-pattern grouping key.
func NewURDFToXacro() *URDFToXacro {
	return NewURDFToXacroWithConfig(GetGlobalConfig())
}

// NewURDFToXacroWithConfig creates a converter with an explicit
// configuration.
func NewURDFToXacroWithConfig(config *Config) *URDFToXacro {
	return &URDFToXacro{
		properties: NewPropertyTable(),
		groupKey:   DefaultGroupKey,
		config:     config,
	}
}

// SetGroupKey replaces the pattern-grouping heuristic.
func (c *URDFToXacro) SetGroupKey(fn GroupKeyFunc) {
	if fn != nil {
		c.groupKey = fn
	}
}

// Links returns the links found by the last conversion.
func (c *URDFToXacro) Links() []LinkInfo {
	return c.links
}

// Joints returns the joints found by the last conversion.
func (c *URDFToXacro) Joints() []JointInfo {
	return c.joints
}

// parseURDF parses a flat URDF document and extracts its links, joints
// and materials.
func (c *URDFToXacro) parseURDF(content string) (*Node, error) {
	root, err := ParseDocumentString(content)
	if err != nil {
		return nil, err
	}

	c.links = c.links[:0]
	c.joints = c.joints[:0]
	c.materials = c.materials[:0]

	for _, link := range root.FindChildren("link") {
		c.links = append(c.links, AnalyzeLink(link))
	}
	for _, joint := range root.FindChildren("joint") {
		c.joints = append(c.joints, AnalyzeJoint(joint))
	}
	for _, material := range root.FindChildren("material") {
		if material.Attr("name") != "" {
			c.materials = append(c.materials, material)
		}
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithFields(Fields{
			"links":  len(c.links),
			"joints": len(c.joints),
		}).Debug("analyzed URDF document")
	}

	return root, nil
}

// ConvertString converts URDF content to xacro text.
func (c *URDFToXacro) ConvertString(content, robotName string) (string, error) {
	root, err := c.parseURDF(content)
	if err != nil {
		return "", err
	}

	if robotName == "" {
		robotName = c.config.RobotName
	}
	if robotName == "" {
		robotName = root.Attr("name")
	}
	if robotName == "" {
		robotName = "robot"
	}

	return FormatDocument(c.generateDocument(robotName)), nil
}

// ConvertFile converts a URDF file to a xacro file.
func (c *URDFToXacro) ConvertFile(inputPath, outputPath, robotName string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return NewDocumentError("read", inputPath, err)
	}

	output, err := c.ConvertString(string(content), robotName)
	if err != nil {
		return err
	}
	return writeOutput(outputPath, output)
}

// writeOutput writes converted text to a path, surfacing write failures
// with the offending path.
func writeOutput(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return NewDocumentError("write", path, err)
	}
	return nil
}

// DetectMode guesses the conversion direction from a file extension.
// Returns "" for extensions it cannot map.
func DetectMode(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".urdf":
		return "urdf2xacro"
	case ".xacro":
		return "xacro2urdf"
	default:
		return ""
	}
}
