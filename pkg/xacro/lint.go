package xacro

import (
	"fmt"
	"strings"
)

// IssueSeverity indicates lint issue severity.
type IssueSeverity string

const (
	IssueSeverityError   IssueSeverity = "error"
	IssueSeverityWarning IssueSeverity = "warning"
)

// IssueCode identifies a class of lint finding.
type IssueCode string

const (
	IssueCodeMissingName    IssueCode = "MISSING_NAME"
	IssueCodeDuplicateMacro IssueCode = "DUPLICATE_MACRO"
	IssueCodeUnknownMacro   IssueCode = "UNKNOWN_MACRO"
	IssueCodeUnresolvedRef  IssueCode = "UNRESOLVED_REFERENCE"
	IssueCodeDuplicateParam IssueCode = "DUPLICATE_PARAM"
	IssueCodeForwardRef     IssueCode = "FORWARD_REFERENCE"
)

// Issue is one lint finding. Lint reports conditions the converter itself
// recovers from silently, so that hand-edited documents can be checked
// before the leniency hides a typo.
type Issue struct {
	Severity IssueSeverity
	Code     IssueCode
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s", i.Severity, i.Code, i.Message)
}

// Lint parses and statically checks a xacro document. It never fails on
// recoverable conditions; only a malformed document returns an error.
func Lint(content string) ([]Issue, error) {
	root, err := ParseDocumentString(content)
	if err != nil {
		return nil, err
	}

	l := &linter{
		properties: NewPropertyTable(),
		macros:     NewMacroTable(),
	}
	l.collectDeclarations(root)
	l.checkUsage(root, nil)
	return l.issues, nil
}

type linter struct {
	properties *PropertyTable
	macros     *MacroTable
	issues     []Issue
}

func (l *linter) report(severity IssueSeverity, code IssueCode, format string, args ...interface{}) {
	l.issues = append(l.issues, Issue{
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// collectDeclarations mirrors the collection pass without mutating the
// tree, reporting malformed and duplicated declarations along the way.
func (l *linter) collectDeclarations(node *Node) {
	for _, child := range node.Children {
		switch ClassifyTag(child.Tag) {
		case TagProperty:
			name := child.Attr("name")
			if name == "" {
				l.report(IssueSeverityWarning, IssueCodeMissingName,
					"property declaration without a name attribute is dropped")
				continue
			}
			raw := child.Attr("value")
			for _, ref := range referenceNames(raw) {
				if _, ok := l.properties.Get(ref); !ok {
					l.report(IssueSeverityWarning, IssueCodeForwardRef,
						"property '%s' references '${%s}' before it is defined", name, ref)
				}
			}
			l.properties.Define(name, raw)
		case TagMacro:
			name := child.Attr("name")
			if name == "" {
				l.report(IssueSeverityWarning, IssueCodeMissingName,
					"macro declaration without a name attribute is dropped")
				continue
			}
			if _, ok := l.macros.Lookup(name); ok {
				l.report(IssueSeverityWarning, IssueCodeDuplicateMacro,
					"macro '%s' is defined more than once; the last definition wins", name)
			}
			seen := make(map[string]bool)
			for _, param := range paramsOf(child) {
				if seen[param] {
					l.report(IssueSeverityWarning, IssueCodeDuplicateParam,
						"macro '%s' declares parameter '%s' more than once", name, param)
				}
				seen[param] = true
			}
			l.macros.RegisterNode(child)
		case TagInclude:
			// Includes are recorded, never inlined; nothing to check.
		default:
			l.collectDeclarations(child)
		}
	}
}

// checkUsage walks the document the way the expander would, flagging
// unknown macro invocations and references that resolve neither to a
// parameter in scope nor to a property.
func (l *linter) checkUsage(node *Node, params map[string]bool) {
	for _, name := range node.AttrOrder {
		l.checkReferences(node.Attrs[name], params)
	}
	l.checkReferences(node.Text, params)
	l.checkReferences(node.Tail, params)

	for _, child := range node.Children {
		switch ClassifyTag(child.Tag) {
		case TagProperty, TagInclude:
			continue
		case TagMacro:
			macroParams := make(map[string]bool)
			for _, param := range paramsOf(child) {
				macroParams[param] = true
			}
			for k := range params {
				macroParams[k] = true
			}
			for _, bodyNode := range child.Children {
				l.checkUsage(bodyNode, macroParams)
			}
		default:
			if IsXacroTag(child.Tag) {
				if _, ok := l.macros.Lookup(child.Tag); !ok {
					l.report(IssueSeverityError, IssueCodeUnknownMacro,
						"invocation of unknown macro '%s' expands to nothing", LocalName(child.Tag))
				}
			}
			l.checkUsage(child, params)
		}
	}
}

func (l *linter) checkReferences(text string, params map[string]bool) {
	for _, ref := range referenceNames(text) {
		if params[ref] {
			continue
		}
		if _, ok := l.properties.Get(ref); ok {
			continue
		}
		l.report(IssueSeverityWarning, IssueCodeUnresolvedRef,
			"reference '${%s}' resolves to nothing and passes through verbatim", ref)
	}
}

// referenceNames extracts the identifiers of all ${...} references in text.
func referenceNames(text string) []string {
	var names []string
	for _, match := range referenceRegex.FindAllStringSubmatch(text, -1) {
		names = append(names, match[1])
	}
	return names
}

func paramsOf(macroNode *Node) []string {
	return strings.Fields(macroNode.Attr("params"))
}
