package transform

// Candidate is the raw, not-yet-validated input to Load: a complete
// snapshot of both maps' metadata, the global robot-to-reference affine,
// and the two parallel correspondence-point arrays. It is produced by
// whatever document loader the host uses (see LoadDocument) and is
// consumed (validated, then discarded) by Load.
type Candidate struct {
	Ref   MapDescriptor
	Robot MapDescriptor

	Global GlobalAffine

	// RefPoints and RobotPoints are parallel arrays: RefPoints[i] and
	// RobotPoints[i] denote the same physical feature in each map.
	RefPoints   []Point
	RobotPoints []Point
}

// Config is the immutable, validated snapshot of two correspondence-linked
// maps, plus the Delaunay mesh and precomputed per-triangle affines built
// from them. It is a passive state machine with exactly two states, empty
// and loaded (spec 3 "Lifecycle"): Load transitions empty -> loaded (or
// leaves it empty on a validation failure); Reset always returns to empty.
// Calling Load on a loaded instance, or any query/getter on an empty one,
// is a logic fault (StateError), never silently tolerated.
//
// A *Config is safe for concurrent readers once Load has returned
// successfully; it provides no synchronization of its own against a
// concurrent Load or Reset (spec 5).
type Config struct {
	loaded bool

	ref   MapDescriptor
	robot MapDescriptor
	globl GlobalAffine

	refPoints   []Point
	robotPoints []Point
	midpoints   []Point

	triangles []Triangle
	affines   []triangleAffines
}

// New returns a freshly constructed, empty Config: no names, zero sizes,
// identity global affine, no correspondence points, no triangles.
func New() *Config {
	return &Config{globl: IdentityGlobalAffine()}
}

// Load validates c and, if it passes every check, atomically transitions
// the instance from empty to loaded: the midpoint set, Delaunay
// triangulation, and both directions of per-triangle affine are all
// computed before Load returns. If validation fails the instance is left
// untouched (still empty) and the returned error is an *InputError. If the
// instance is already loaded, Load does nothing and returns a *StateError.
func (c *Config) Load(cand Candidate) error {
	if c.loaded {
		return newStateError("Load", "instance is already loaded; call Reset first")
	}

	if err := validateCandidate(cand); err != nil {
		return err
	}

	mid := make([]Point, len(cand.RefPoints))
	for i := range mid {
		mid[i] = Midpoint(cand.RefPoints[i], cand.RobotPoints[i])
	}

	rect := seedRect(cand.Ref.Size, cand.Robot.Size, cand.Global.TransX, cand.Global.TransY)
	raw := triangulateMidpoints(mid, rect)
	triangles, affines := precomputeTriangleAffines(raw, cand.RefPoints, cand.RobotPoints)

	c.ref = cand.Ref
	c.robot = cand.Robot
	c.globl = cand.Global
	c.refPoints = cand.RefPoints
	c.robotPoints = cand.RobotPoints
	c.midpoints = mid
	c.triangles = triangles
	c.affines = affines
	c.loaded = true

	return nil
}

// Reset returns the instance to the empty state. It is always legal,
// whether or not the instance is currently loaded.
func (c *Config) Reset() {
	*c = Config{globl: IdentityGlobalAffine()}
}

// Loaded reports whether the instance currently holds a validated
// configuration.
func (c *Config) Loaded() bool {
	return c.loaded
}

func (c *Config) requireLoaded(op string) error {
	if !c.loaded {
		return newStateError(op, "instance is empty; call Load first")
	}
	return nil
}

// RefName returns the reference map's name.
func (c *Config) RefName() (string, error) {
	if err := c.requireLoaded("RefName"); err != nil {
		return "", err
	}
	return c.ref.Name, nil
}

// RefImageFile returns the reference map's declared image file path, which
// may be empty.
func (c *Config) RefImageFile() (string, error) {
	if err := c.requireLoaded("RefImageFile"); err != nil {
		return "", err
	}
	return c.ref.ImageFile, nil
}

// RefSize returns the reference map's declared pixel size.
func (c *Config) RefSize() (Size, error) {
	if err := c.requireLoaded("RefSize"); err != nil {
		return Size{}, err
	}
	return c.ref.Size, nil
}

// RobotName returns the robot map's name.
func (c *Config) RobotName() (string, error) {
	if err := c.requireLoaded("RobotName"); err != nil {
		return "", err
	}
	return c.robot.Name, nil
}

// RobotImageFile returns the robot map's declared image file path, which
// may be empty.
func (c *Config) RobotImageFile() (string, error) {
	if err := c.requireLoaded("RobotImageFile"); err != nil {
		return "", err
	}
	return c.robot.ImageFile, nil
}

// RobotSize returns the robot map's declared pixel size.
func (c *Config) RobotSize() (Size, error) {
	if err := c.requireLoaded("RobotSize"); err != nil {
		return Size{}, err
	}
	return c.robot.Size, nil
}

// Scale returns the global affine's (sx, sy) scale factors.
func (c *Config) Scale() (float64, float64, error) {
	if err := c.requireLoaded("Scale"); err != nil {
		return 0, 0, err
	}
	return c.globl.ScaleX, c.globl.ScaleY, nil
}

// Rotation returns the global affine's rotation in radians.
func (c *Config) Rotation() (float64, error) {
	if err := c.requireLoaded("Rotation"); err != nil {
		return 0, err
	}
	return c.globl.Rotation, nil
}

// Translation returns the global affine's (tx, ty) translation.
func (c *Config) Translation() (float64, float64, error) {
	if err := c.requireLoaded("Translation"); err != nil {
		return 0, 0, err
	}
	return c.globl.TransX, c.globl.TransY, nil
}

// RefCorrespondencePoints returns the reference-frame correspondence
// array R. The caller must not mutate the returned slice.
func (c *Config) RefCorrespondencePoints() ([]Point, error) {
	if err := c.requireLoaded("RefCorrespondencePoints"); err != nil {
		return nil, err
	}
	return c.refPoints, nil
}

// RobotCorrespondencePoints returns the robot-frame correspondence array
// Q. The caller must not mutate the returned slice.
func (c *Config) RobotCorrespondencePoints() ([]Point, error) {
	if err := c.requireLoaded("RobotCorrespondencePoints"); err != nil {
		return nil, err
	}
	return c.robotPoints, nil
}

// Midpoints returns the derived midpoint array M used to build the mesh.
// The caller must not mutate the returned slice.
func (c *Config) Midpoints() ([]Point, error) {
	if err := c.requireLoaded("Midpoints"); err != nil {
		return nil, err
	}
	return c.midpoints, nil
}

// Triangles returns the Delaunay mesh as index triples into the
// correspondence arrays, in emission order. The caller must not mutate the
// returned slice.
func (c *Config) Triangles() ([]Triangle, error) {
	if err := c.requireLoaded("Triangles"); err != nil {
		return nil, err
	}
	return c.triangles, nil
}

// BoundingBox returns the pixel rectangle that must hold both maps when
// rendered in the reference frame (spec 4.5).
func (c *Config) BoundingBox() (Rect, error) {
	if err := c.requireLoaded("BoundingBox"); err != nil {
		return Rect{}, err
	}
	return boundingBox(c.ref.Size, c.robot.Size, c.globl.TransX, c.globl.TransY), nil
}
