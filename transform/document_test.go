package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDocument = `
ref_map:
  name: reference
  size: [100, 100]
  correspondence_points:
    - [30, 20]
    - [40, 50]
    - [70, 70]
robot_map:
  name: robot
  size: [80, 110]
  transform:
    scale: [1, 1]
    rotation: 0
    translation: [30, 20]
  correspondence_points:
    - [0, 0]
    - [10, 20]
    - [40, 55]
`

func TestLoadDocumentParsesSections(t *testing.T) {
	cand, err := LoadDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	assert.Equal(t, "reference", cand.Ref.Name)
	assert.Equal(t, "robot", cand.Robot.Name)
	assert.Equal(t, Size{W: 100, H: 100}, cand.Ref.Size)
	assert.Equal(t, Size{W: 80, H: 110}, cand.Robot.Size)
	assert.Len(t, cand.RefPoints, 3)
	assert.Len(t, cand.RobotPoints, 3)
	assert.InDelta(t, 30, cand.Global.TransX, 1e-9)
	assert.InDelta(t, 20, cand.Global.TransY, 1e-9)
}

func TestLoadDocumentBaseMapAlias(t *testing.T) {
	doc := `
base_map:
  name: reference
  size: [10, 10]
  correspondence_points:
    - [0, 0]
robot_map:
  name: robot
  size: [10, 10]
  correspondence_points:
    - [0, 0]
`
	cand, err := LoadDocument([]byte(doc))
	if err != nil {
		t.Fatalf("LoadDocument with base_map: %v", err)
	}
	if cand.Ref.Name != "reference" {
		t.Errorf("base_map was not treated as ref_map: got name %q", cand.Ref.Name)
	}
}

func TestLoadDocumentMissingRobotMap(t *testing.T) {
	doc := `
ref_map:
  name: reference
  size: [10, 10]
  correspondence_points:
    - [0, 0]
`
	_, err := LoadDocument([]byte(doc))
	if err == nil {
		t.Fatal("LoadDocument without robot_map should fail")
	}
	if _, ok := err.(*InputError); !ok {
		t.Fatalf("got %T, want *InputError", err)
	}
}

func TestLoadDocumentMalformedYAML(t *testing.T) {
	_, err := LoadDocument([]byte("not: [valid: yaml"))
	if err == nil {
		t.Fatal("LoadDocument on malformed YAML should fail")
	}
	if _, ok := err.(*InputError); !ok {
		t.Fatalf("got %T, want *InputError", err)
	}
}

func TestLoadDocumentBadCorrespondencePointArity(t *testing.T) {
	doc := `
ref_map:
  name: reference
  size: [10, 10]
  correspondence_points:
    - [0, 0, 0]
robot_map:
  name: robot
  size: [10, 10]
  correspondence_points:
    - [0, 0]
`
	_, err := LoadDocument([]byte(doc))
	if err == nil {
		t.Fatal("a 3-element correspondence point should fail")
	}
}

func TestLoadDocumentFileMissing(t *testing.T) {
	_, err := LoadDocumentFile("/nonexistent/path/map.yaml")
	if err == nil {
		t.Fatal("LoadDocumentFile on a missing file should fail")
	}
	if _, ok := err.(*InputError); !ok {
		t.Fatalf("got %T, want *InputError", err)
	}
}
