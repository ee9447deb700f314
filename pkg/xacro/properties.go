package xacro

import "regexp"

// referenceRegex matches ${identifier} variable references. The identifier
// is everything up to the next closing brace; nested braces are not
// supported.
var referenceRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Scope holds the parameter bindings active while one macro invocation's
// body is being expanded. It shadows global properties and is discarded
// when the expansion of that invocation completes.
type Scope map[string]string

// PropertyTable stores globally-scoped string properties and resolves
// ${name} references against them.
type PropertyTable struct {
	values map[string]string
	order  []string
}

// NewPropertyTable creates an empty property table.
func NewPropertyTable() *PropertyTable {
	return &PropertyTable{
		values: make(map[string]string),
	}
}

// Define stores a property value, overwriting any prior value for the same
// name. References already present in the raw value are resolved against
// the properties known so far: a property may refer to earlier
// definitions, never to later ones.
func (pt *PropertyTable) Define(name, rawValue string) {
	if _, ok := pt.values[name]; !ok {
		pt.order = append(pt.order, name)
	}
	pt.values[name] = pt.Resolve(rawValue)
}

// Get returns a property value and whether it is defined.
func (pt *PropertyTable) Get(name string) (string, bool) {
	value, ok := pt.values[name]
	return value, ok
}

// Len returns the number of defined properties.
func (pt *PropertyTable) Len() int {
	return len(pt.values)
}

// Names returns the property names in definition order.
func (pt *PropertyTable) Names() []string {
	return append([]string(nil), pt.order...)
}

// Resolve substitutes ${name} references in text using global properties
// only. Unresolved references are left verbatim so that partially
// specified templates stay inspectable.
func (pt *PropertyTable) Resolve(text string) string {
	return pt.ResolveWith(text, nil)
}

// ResolveWith substitutes ${name} references in text. A binding in the
// scope takes precedence over a global property; a name found in neither
// passes through unchanged. Substitution is a single pass: a resolved
// value that itself contains a ${} sequence is left as literal text, not
// re-expanded. Values are pre-resolved at definition time, so this only
// surfaces when a value sneaks a reference past Define.
func (pt *PropertyTable) ResolveWith(text string, scope Scope) string {
	if text == "" {
		return text
	}
	return referenceRegex.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]
		if scope != nil {
			if value, ok := scope[name]; ok {
				return value
			}
		}
		if value, ok := pt.values[name]; ok {
			return value
		}
		return match
	})
}
