// Package xacro converts robot descriptions between URDF and xacro.
//
// Basic usage:
//
//	engine := xacro.New()
//	if err := engine.Convert("robot.xacro", "robot.urdf", ""); err != nil {
//	    log.Fatal(err)
//	}
//
// Or, working on in-memory content:
//
//	converter := xacro.NewXacroToURDF()
//	urdf, err := converter.ConvertString(xacroContent, "my_robot")
package xacro

// Engine is the main entry point for conversions. It holds the
// configuration shared by conversion runs and a cache of parsed input
// documents for batch workloads. Each conversion gets its own converter
// instance, so conversions through one engine may run in parallel.
type Engine struct {
	config *Config
	cache  *DocumentCache
}

// New creates an engine with the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates an engine with an explicit configuration.
func NewWithConfig(config *Config) *Engine {
	return &Engine{
		config: config,
		cache:  NewDocumentCache(config.CacheMaxSize),
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// ClearCache drops all cached parsed documents.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Convert converts between formats, picking the direction from the input
// file's extension (.urdf or .xacro). An unrecognized extension is an
// error; there is no heuristic sniffing of file contents.
func (e *Engine) Convert(inputPath, outputPath, robotName string) error {
	mode := DetectMode(inputPath)
	if mode == "" {
		return NewDocumentError("detect mode for", inputPath, nil)
	}
	return e.ConvertWithMode(mode, inputPath, outputPath, robotName)
}

// ConvertWithMode converts with an explicit direction, "urdf2xacro" or
// "xacro2urdf".
func (e *Engine) ConvertWithMode(mode, inputPath, outputPath, robotName string) error {
	switch mode {
	case "xacro2urdf":
		return e.expandFile(inputPath, outputPath, robotName)
	case "urdf2xacro":
		return NewURDFToXacroWithConfig(e.config).ConvertFile(inputPath, outputPath, robotName)
	default:
		return NewDocumentError("convert with unknown mode '"+mode+"'", inputPath, nil)
	}
}

// expandFile runs the xacro to URDF direction through the document cache.
func (e *Engine) expandFile(inputPath, outputPath, robotName string) error {
	root, err := e.cache.Load(inputPath)
	if err != nil {
		return err
	}

	converter := NewXacroToURDFWithConfig(e.config)
	expanded, err := converter.ExpandTree(root)
	if err != nil {
		return err
	}

	return writeOutput(outputPath, converter.assemble(expanded, robotName))
}

// DefaultEngine is the global engine instance using the global
// configuration.
var DefaultEngine = New()

// Convert converts a file using the default engine, auto-detecting the
// direction from the input extension.
func Convert(inputPath, outputPath, robotName string) error {
	return DefaultEngine.Convert(inputPath, outputPath, robotName)
}
