// xacro converts robot descriptions between URDF and xacro format.
//
// The direction is auto-detected from the input file extension (.urdf or
// .xacro) and can be forced with --mode. The xacro to URDF direction
// expands macros and resolves properties; the reverse direction authors a
// parameterized xacro document from a flat URDF model.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/roboscribe/go-xacro/pkg/xacro"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		mode        string
		output      string
		robotName   string
		configPath  string
		verbose     bool
		lint        bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("xacro", pflag.ContinueOnError)
	flagSet.StringVar(&mode, "mode", "auto", "conversion mode: auto, urdf2xacro or xacro2urdf")
	flagSet.StringVarP(&output, "output", "o", "", "output file path (derived from the input path if omitted)")
	flagSet.StringVar(&robotName, "name", "", "robot name (default: taken from the input file)")
	flagSet.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flagSet.BoolVar(&lint, "lint", false, "check the input document and report issues instead of converting")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.Usage = func() { printUsage(flagSet) }

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("xacro version %s\n", version)
		return nil
	}

	args := flagSet.Args()
	if len(args) != 1 {
		printUsage(flagSet)
		return fmt.Errorf("expected exactly one input file, got %d arguments", len(args))
	}
	inputFile := args[0]

	config := xacro.GetGlobalConfig()
	if configPath != "" {
		loaded, err := xacro.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	if verbose {
		config.LogLevel = "debug"
	}
	if robotName != "" {
		config.RobotName = robotName
	}
	xacro.SetGlobalConfig(config)

	if lint {
		return runLint(inputFile)
	}

	if mode == "auto" {
		mode = xacro.DetectMode(inputFile)
		if mode == "" {
			return fmt.Errorf("cannot auto-detect conversion mode for '%s'; pass --mode explicitly or use a .urdf/.xacro extension", inputFile)
		}
	}

	outputFile := output
	if outputFile == "" {
		outputFile = derivedOutputPath(inputFile, mode)
	}

	return convert(mode, inputFile, outputFile, robotName, verbose, config)
}

func convert(mode, inputFile, outputFile, robotName string, verbose bool, config *xacro.Config) error {
	switch mode {
	case "urdf2xacro":
		converter := xacro.NewURDFToXacroWithConfig(config)
		if err := converter.ConvertFile(inputFile, outputFile, robotName); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Converted URDF to xacro: %s -> %s\n", inputFile, outputFile)
			fmt.Printf("Found %d links and %d joints\n", len(converter.Links()), len(converter.Joints()))
		}
	case "xacro2urdf":
		converter := xacro.NewXacroToURDFWithConfig(config)
		if err := converter.ConvertFile(inputFile, outputFile, robotName); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Converted xacro to URDF: %s -> %s\n", inputFile, outputFile)
			fmt.Printf("Processed %d properties and %d macros\n", converter.Properties().Len(), converter.Macros().Len())
			for _, include := range converter.Includes() {
				fmt.Printf("Recorded include (not inlined): %s\n", include)
			}
		}
	default:
		return fmt.Errorf("unknown mode '%s': expected urdf2xacro or xacro2urdf", mode)
	}
	return nil
}

func runLint(inputFile string) error {
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}

	issues, err := xacro.Lint(string(content))
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Printf("%s: no issues found\n", inputFile)
		return nil
	}

	errors := 0
	for _, issue := range issues {
		fmt.Printf("%s: %s\n", inputFile, issue)
		if issue.Severity == xacro.IssueSeverityError {
			errors++
		}
	}
	if errors > 0 {
		return fmt.Errorf("%d error-level issues found", errors)
	}
	return nil
}

// derivedOutputPath swaps the input extension for the target format's.
func derivedOutputPath(inputFile, mode string) string {
	base := strings.TrimSuffix(inputFile, filepath.Ext(inputFile))
	if mode == "urdf2xacro" {
		return base + ".xacro"
	}
	return base + ".urdf"
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `xacro - convert between URDF and xacro robot descriptions

Usage:
  xacro [flags] <input-file>

Flags:
%s`, flagSet.FlagUsages())
}
