package transform

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlMapSection mirrors one of the two top-level map mappings in the
// input document (spec 6).
type yamlMapSection struct {
	Name                 string         `yaml:"name"`
	ImageFile            string         `yaml:"image_file"`
	Size                 []float64      `yaml:"size"`
	CorrespondencePoints [][]float64    `yaml:"correspondence_points"`
	Transform            *yamlTransform `yaml:"transform"`
}

// yamlTransform mirrors robot_map's optional transform mapping.
type yamlTransform struct {
	Scale       []float64 `yaml:"scale"`
	Rotation    float64   `yaml:"rotation"`
	Translation []float64 `yaml:"translation"`
}

// yamlDocument mirrors the whole input document. BaseMap is the older,
// deprecated spelling of RefMap (spec 6); LoadDocument accepts either,
// preferring RefMap when both are present.
type yamlDocument struct {
	RefMap   *yamlMapSection `yaml:"ref_map"`
	BaseMap  *yamlMapSection `yaml:"base_map"`
	RobotMap *yamlMapSection `yaml:"robot_map"`
}

// LoadDocumentFile reads and parses the YAML document at path into a
// Candidate suitable for Config.Load. Any failure, including a missing
// file, is returned as an *InputError.
func LoadDocumentFile(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, wrapInputError("reading document file", err)
	}
	return LoadDocument(data)
}

// LoadDocument parses a YAML document (spec 6) into a Candidate. It does
// not validate the candidate beyond basic shape checks (a size of the
// wrong arity, a correspondence point that isn't an [x, y] pair) —
// geometric validation (non-empty lists, equal lengths, overlap, scale,
// image dimensions) is Config.Load's job via the validator, so the same
// checks are not duplicated here.
func LoadDocument(data []byte) (Candidate, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Candidate{}, wrapInputError("parsing document", err)
	}

	refSection := doc.RefMap
	if refSection == nil {
		if doc.BaseMap != nil {
			log.Println("map transform: document uses deprecated 'base_map' key; treating it as 'ref_map'")
			refSection = doc.BaseMap
		} else {
			return Candidate{}, newInputError("document is missing the required 'ref_map' section")
		}
	}
	if doc.RobotMap == nil {
		return Candidate{}, newInputError("document is missing the required 'robot_map' section")
	}

	refDesc, refPoints, err := convertSection("ref_map", refSection)
	if err != nil {
		return Candidate{}, err
	}
	robotDesc, robotPoints, err := convertSection("robot_map", doc.RobotMap)
	if err != nil {
		return Candidate{}, err
	}

	global := IdentityGlobalAffine()
	if tr := doc.RobotMap.Transform; tr != nil {
		if len(tr.Scale) == 2 {
			global.ScaleX, global.ScaleY = tr.Scale[0], tr.Scale[1]
		} else if len(tr.Scale) != 0 {
			return Candidate{}, newInputError(fmt.Sprintf(
				"robot_map.transform.scale must have exactly 2 elements, got %d", len(tr.Scale)))
		}
		global.Rotation = tr.Rotation
		if len(tr.Translation) == 2 {
			global.TransX, global.TransY = tr.Translation[0], tr.Translation[1]
		} else if len(tr.Translation) != 0 {
			return Candidate{}, newInputError(fmt.Sprintf(
				"robot_map.transform.translation must have exactly 2 elements, got %d", len(tr.Translation)))
		}
	}

	return Candidate{
		Ref:         refDesc,
		Robot:       robotDesc,
		Global:      global,
		RefPoints:   refPoints,
		RobotPoints: robotPoints,
	}, nil
}

// convertSection converts one parsed YAML map section into a
// MapDescriptor and its correspondence-point array, failing with an
// *InputError if size or any correspondence point has the wrong arity.
func convertSection(label string, s *yamlMapSection) (MapDescriptor, []Point, error) {
	if s.Name == "" {
		return MapDescriptor{}, nil, newInputError(fmt.Sprintf("%s.name is required", label))
	}
	if len(s.Size) != 2 {
		return MapDescriptor{}, nil, newInputError(fmt.Sprintf(
			"%s.size must be a [w, h] pair, got %d element(s)", label, len(s.Size)))
	}

	desc := MapDescriptor{
		Name:      s.Name,
		ImageFile: s.ImageFile,
		Size:      Size{W: s.Size[0], H: s.Size[1]},
	}

	points := make([]Point, 0, len(s.CorrespondencePoints))
	for _, raw := range s.CorrespondencePoints {
		if len(raw) != 2 {
			return MapDescriptor{}, nil, newInputError(fmt.Sprintf(
				"%s.correspondence_points entry %v is not an [x, y] pair", label, raw))
		}
		points = append(points, Point{X: raw[0], Y: raw[1]})
	}

	return desc, points, nil
}
