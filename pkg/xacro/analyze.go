package xacro

import (
	"strconv"
	"strings"
)

// LinkInfo captures the parts of a URDF link that drive macro synthesis:
// its mass, inertia tensor and mesh filenames. Optional fields that fail
// to parse are treated as absent, never as errors.
type LinkInfo struct {
	Name          string
	Element       *Node
	Mass          *float64
	Inertia       map[string]float64
	VisualMesh    string
	CollisionMesh string
}

// JointInfo captures a URDF joint and its connectivity.
type JointInfo struct {
	Name   string
	Elem   *Node
	Type   string
	Parent string
	Child  string
	Axis   *[3]float64
	Limits map[string]float64
}

// AnalyzeLink extracts link information from a <link> element.
func AnalyzeLink(link *Node) LinkInfo {
	info := LinkInfo{
		Name:    link.Attr("name"),
		Element: link,
	}

	if inertial := link.FindChild("inertial"); inertial != nil {
		if massElem := inertial.FindChild("mass"); massElem != nil {
			if mass, err := strconv.ParseFloat(massElem.Attr("value"), 64); err == nil {
				info.Mass = &mass
			}
		}
		if inertiaElem := inertial.FindChild("inertia"); inertiaElem != nil {
			inertia := make(map[string]float64, 6)
			for _, component := range []string{"ixx", "ixy", "ixz", "iyy", "iyz", "izz"} {
				value, err := strconv.ParseFloat(inertiaElem.Attr(component), 64)
				if err != nil {
					value = 0
				}
				inertia[component] = value
			}
			info.Inertia = inertia
		}
	}

	info.VisualMesh = meshFilename(link.FindChild("visual"))
	info.CollisionMesh = meshFilename(link.FindChild("collision"))
	return info
}

// meshFilename digs out geometry/mesh/@filename under a visual or
// collision element, or returns "".
func meshFilename(parent *Node) string {
	if parent == nil {
		return ""
	}
	geometry := parent.FindChild("geometry")
	if geometry == nil {
		return ""
	}
	mesh := geometry.FindChild("mesh")
	if mesh == nil {
		return ""
	}
	return mesh.Attr("filename")
}

// AnalyzeJoint extracts joint information from a <joint> element.
func AnalyzeJoint(joint *Node) JointInfo {
	info := JointInfo{
		Name: joint.Attr("name"),
		Elem: joint,
		Type: joint.Attr("type"),
	}

	if parent := joint.FindChild("parent"); parent != nil {
		info.Parent = parent.Attr("link")
	}
	if child := joint.FindChild("child"); child != nil {
		info.Child = child.Attr("link")
	}

	if axisElem := joint.FindChild("axis"); axisElem != nil {
		parts := strings.Fields(axisElem.Attr("xyz"))
		if len(parts) == 3 {
			var axis [3]float64
			valid := true
			for i, part := range parts {
				value, err := strconv.ParseFloat(part, 64)
				if err != nil {
					valid = false
					break
				}
				axis[i] = value
			}
			if valid {
				info.Axis = &axis
			}
		}
	}

	if limitElem := joint.FindChild("limit"); limitElem != nil {
		limits := make(map[string]float64)
		for _, attr := range []string{"lower", "upper", "effort", "velocity"} {
			if !limitElem.HasAttr(attr) {
				continue
			}
			if value, err := strconv.ParseFloat(limitElem.Attr(attr), 64); err == nil {
				limits[attr] = value
			}
		}
		if len(limits) > 0 {
			info.Limits = limits
		}
	}

	return info
}

// MeshPattern derives a grouping key from a package:// mesh filename:
// package name plus mesh basename without extension. Links sharing a key
// are candidates for one parameterized macro.
func MeshPattern(meshFilename string) string {
	if meshFilename == "" {
		return "unknown"
	}
	if strings.Contains(meshFilename, "package://") {
		parts := strings.Split(meshFilename, "/")
		if len(parts) >= 3 {
			pkg := parts[2]
			filename := parts[len(parts)-1]
			base := filename
			if i := strings.LastIndex(filename, "."); i >= 0 {
				base = filename[:i]
			}
			return pkg + "_" + base
		}
	}
	return "default"
}
