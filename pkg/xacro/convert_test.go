package xacro

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const wheelXacro = `<robot name="my_robot" xmlns:xacro="http://www.ros.org/wiki/xacro">
  <xacro:property name="wheel_radius" value="0.1"/>
  <xacro:property name="wheel_mass" value="0.5"/>
  <xacro:macro name="wheel_link" params="prefix link_name">
    <link name="${prefix}${link_name}">
      <inertial>
        <mass value="${wheel_mass}"/>
      </inertial>
      <visual>
        <geometry>
          <cylinder radius="${wheel_radius}" length="0.05"/>
        </geometry>
      </visual>
    </link>
  </xacro:macro>
  <link name="base_link"/>
  <xacro:wheel_link prefix="" link_name="left_wheel"/>
  <xacro:wheel_link prefix="" link_name="right_wheel"/>
</robot>`

func TestXacroToURDFConvertString(t *testing.T) {
	converter := NewXacroToURDFWithConfig(DefaultConfig())
	output, err := converter.ConvertString(wheelXacro, "")
	if err != nil {
		t.Fatalf("ConvertString failed: %v", err)
	}

	root, err := ParseDocumentString(output)
	if err != nil {
		t.Fatalf("output does not parse: %v\n%s", err, output)
	}
	if root.Attr("name") != "my_robot" {
		t.Errorf("robot name = %q", root.Attr("name"))
	}

	links := root.FindChildren("link")
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	if links[1].Attr("name") != "left_wheel" || links[2].Attr("name") != "right_wheel" {
		t.Errorf("expanded link names = %q, %q", links[1].Attr("name"), links[2].Attr("name"))
	}

	mass := links[1].FindChild("inertial").FindChild("mass")
	if mass.Attr("value") != "0.5" {
		t.Errorf("mass value = %q, want 0.5", mass.Attr("value"))
	}
	if strings.Contains(output, "xacro") {
		t.Errorf("xacro artifacts survived expansion:\n%s", output)
	}
}

func TestXacroToURDFRobotNameFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		argName    string
		configName string
		want       string
	}{
		{name: "explicit argument wins", argName: "arg_name", configName: "cfg_name", want: "arg_name"},
		{name: "config name next", argName: "", configName: "cfg_name", want: "cfg_name"},
		{name: "document name last", argName: "", configName: "", want: "my_robot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.RobotName = tt.configName
			converter := NewXacroToURDFWithConfig(config)
			output, err := converter.ConvertString(wheelXacro, tt.argName)
			if err != nil {
				t.Fatalf("ConvertString failed: %v", err)
			}
			root, err := ParseDocumentString(output)
			if err != nil {
				t.Fatalf("output does not parse: %v", err)
			}
			if root.Attr("name") != tt.want {
				t.Errorf("robot name = %q, want %q", root.Attr("name"), tt.want)
			}
		})
	}
}

func TestXacroToURDFPresetProperties(t *testing.T) {
	config := DefaultConfig()
	config.Properties = map[string]string{"wheel_mass": "9.9", "extra": "1"}
	converter := NewXacroToURDFWithConfig(config)

	// Document declaration overrides the preset; the unreferenced preset
	// is harmless.
	output, err := converter.ConvertString(wheelXacro, "")
	if err != nil {
		t.Fatalf("ConvertString failed: %v", err)
	}
	if !strings.Contains(output, `value="0.5"`) {
		t.Errorf("document declaration did not override preset:\n%s", output)
	}
}

func TestXacroToURDFIncludesRecorded(t *testing.T) {
	content := `<robot name="r" xmlns:xacro="http://www.ros.org/wiki/xacro">
  <xacro:include filename="common.xacro"/>
  <xacro:include filename="materials.xacro"/>
  <link name="base_link"/>
</robot>`
	converter := NewXacroToURDFWithConfig(DefaultConfig())
	output, err := converter.ConvertString(content, "")
	if err != nil {
		t.Fatalf("ConvertString failed: %v", err)
	}

	includes := converter.Includes()
	if len(includes) != 2 || includes[0] != "common.xacro" || includes[1] != "materials.xacro" {
		t.Errorf("Includes = %v", includes)
	}
	if strings.Contains(output, "common.xacro") {
		t.Errorf("include content leaked into output:\n%s", output)
	}
}

func TestConvertFileBothDirections(t *testing.T) {
	dir := t.TempDir()

	xacroPath := filepath.Join(dir, "robot.xacro")
	urdfPath := filepath.Join(dir, "robot.urdf")
	if err := os.WriteFile(xacroPath, []byte(wheelXacro), 0o644); err != nil {
		t.Fatal(err)
	}

	forward := NewXacroToURDFWithConfig(DefaultConfig())
	if err := forward.ConvertFile(xacroPath, urdfPath, ""); err != nil {
		t.Fatalf("xacro to urdf conversion failed: %v", err)
	}

	urdfContent, err := os.ReadFile(urdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(urdfContent), `name="left_wheel"`) {
		t.Errorf("converted URDF missing expanded link:\n%s", urdfContent)
	}

	backPath := filepath.Join(dir, "back.xacro")
	backward := NewURDFToXacroWithConfig(DefaultConfig())
	if err := backward.ConvertFile(urdfPath, backPath, ""); err != nil {
		t.Fatalf("urdf to xacro conversion failed: %v", err)
	}

	backContent, err := os.ReadFile(backPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(backContent), "xacro:macro") {
		t.Errorf("regenerated xacro has no macro declarations:\n%s", backContent)
	}
}

func TestConvertFileReadError(t *testing.T) {
	converter := NewXacroToURDFWithConfig(DefaultConfig())
	err := converter.ConvertFile(filepath.Join(t.TempDir(), "missing.xacro"), "out.urdf", "")
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
	if !IsDocumentError(err) {
		t.Errorf("error type = %T, want DocumentError", err)
	}
}

func TestRoundTripExpansionStable(t *testing.T) {
	// A URDF without repeated mesh patterns regenerates as plain links and
	// joints inside the robot macro, so expanding the regenerated xacro
	// recovers the full model.
	urdf := `<robot name="arm">
  <link name="base_link"/>
  <link name="upper_arm">
    <inertial><mass value="1.2"/></inertial>
  </link>
  <joint name="shoulder" type="revolute">
    <parent link="base_link"/>
    <child link="upper_arm"/>
  </joint>
</robot>`

	backward := NewURDFToXacroWithConfig(DefaultConfig())
	regenerated, err := backward.ConvertString(urdf, "")
	if err != nil {
		t.Fatalf("urdf to xacro conversion failed: %v", err)
	}

	forward := NewXacroToURDFWithConfig(DefaultConfig())
	output, err := forward.ConvertString(regenerated, "")
	if err != nil {
		t.Fatalf("expanding regenerated xacro failed: %v", err)
	}

	root, err := ParseDocumentString(output)
	if err != nil {
		t.Fatalf("round-tripped output does not parse: %v", err)
	}
	links := root.FindChildren("link")
	if len(links) != 2 {
		t.Fatalf("got %d links after round trip, want 2", len(links))
	}
	if links[0].Attr("name") != "base_link" || links[1].Attr("name") != "upper_arm" {
		t.Errorf("link names after round trip = %q, %q", links[0].Attr("name"), links[1].Attr("name"))
	}

	joints := root.FindChildren("joint")
	if len(joints) != 1 {
		t.Fatalf("got %d joints after round trip, want 1", len(joints))
	}
	if parent := joints[0].FindChild("parent"); parent.Attr("link") != "base_link" {
		t.Errorf("parent link after round trip = %q", parent.Attr("link"))
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "robot.urdf", want: "urdf2xacro"},
		{path: "robot.xacro", want: "xacro2urdf"},
		{path: "ROBOT.URDF", want: "urdf2xacro"},
		{path: "/abs/path/model.xacro", want: "xacro2urdf"},
		{path: "robot.xml", want: ""},
		{path: "robot", want: ""},
	}

	for _, tt := range tests {
		if got := DetectMode(tt.path); got != tt.want {
			t.Errorf("DetectMode(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
