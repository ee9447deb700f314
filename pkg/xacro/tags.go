package xacro

import "strings"

const (
	// XacroNamespace is the formal namespace URI for xacro documents.
	XacroNamespace = "http://www.ros.org/wiki/xacro"
	// XacroNamespaceMarker identifies the xacro namespace in URI form;
	// documents in the wild use several historical URIs that all contain it.
	XacroNamespaceMarker = "xacro"
	// XacroPrefix is the conventional bare prefix for xacro tags.
	XacroPrefix = "xacro"
)

// TagKind classifies a tag once so that the collector and the expander
// never re-derive it ad hoc.
type TagKind int

const (
	TagOrdinary TagKind = iota
	TagProperty
	TagMacro
	TagInclude
)

func (k TagKind) String() string {
	switch k {
	case TagProperty:
		return "property"
	case TagMacro:
		return "macro"
	case TagInclude:
		return "include"
	default:
		return "ordinary"
	}
}

// LocalName strips a namespace prefix ("prefix:local") or a bracketed
// namespace URI ("{uri}local") down to the bare tag name.
func LocalName(tag string) string {
	if i := strings.LastIndex(tag, "}"); i >= 0 {
		return tag[i+1:]
	}
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// IsXacroTag reports whether a tag belongs to the xacro vocabulary, either
// through a namespace (URI or prefix) or because its local name is one of
// the three declaration keywords. The dual check exists because hand-written
// documents often use the bare prefix without declaring the namespace.
func IsXacroTag(tag string) bool {
	if i := strings.LastIndex(tag, "}"); i >= 0 {
		return strings.Contains(tag[:i], XacroNamespaceMarker)
	}
	if i := strings.Index(tag, ":"); i >= 0 {
		prefix, local := tag[:i], tag[i+1:]
		if prefix == XacroPrefix {
			return true
		}
		switch local {
		case "property", "macro", "include":
			return true
		}
		return false
	}
	return false
}

// ClassifyTag maps a tag to its declaration kind. Tags outside the xacro
// vocabulary, and xacro tags that are not declarations (macro invocations
// among them), classify as ordinary.
func ClassifyTag(tag string) TagKind {
	if !IsXacroTag(tag) {
		return TagOrdinary
	}
	switch LocalName(tag) {
	case "property":
		return TagProperty
	case "macro":
		return TagMacro
	case "include":
		return TagInclude
	default:
		return TagOrdinary
	}
}
