package transform

import "fmt"

// validateCandidate enforces every structural invariant spec 4.3 requires
// of a candidate before Load may accept it, in the documented order, and
// stops at the first failure (single-pass, exactly one error). All
// failures are *InputError; validateCandidate never returns a *StateError.
func validateCandidate(c Candidate) error {
	// 1. Both correspondence lists present and non-empty.
	if len(c.RefPoints) == 0 {
		return newInputError("reference map has no correspondence points")
	}
	if len(c.RobotPoints) == 0 {
		return newInputError("robot map has no correspondence points")
	}

	// 2. |R| = |Q|.
	if len(c.RefPoints) != len(c.RobotPoints) {
		return newInputError(fmt.Sprintf(
			"correspondence lists differ in length: %d reference points vs %d robot points",
			len(c.RefPoints), len(c.RobotPoints)))
	}

	// 3. Both map sizes present and positive.
	if !c.Ref.Size.Positive() {
		return newInputError(fmt.Sprintf("reference map %q has non-positive size %gx%g",
			c.Ref.Name, c.Ref.Size.W, c.Ref.Size.H))
	}
	if !c.Robot.Size.Positive() {
		return newInputError(fmt.Sprintf("robot map %q has non-positive size %gx%g",
			c.Robot.Name, c.Robot.Size.W, c.Robot.Size.H))
	}

	// 4. Scales non-zero.
	if c.Global.ScaleX == 0 {
		return newInputError("global scale factor sx must be non-zero")
	}
	if c.Global.ScaleY == 0 {
		return newInputError("global scale factor sy must be non-zero")
	}

	// 5. Rectangles overlap, translation only (see design notes on why
	// scale and rotation are deliberately excluded from this test).
	if !rectanglesOverlap(c.Ref.Size, c.Robot.Size, c.Global.TransX, c.Global.TransY) {
		return newInputError("reference and robot map rectangles do not overlap after translation")
	}

	// 6. For each image path supplied: exists, decodes, dimensions match.
	if c.Ref.ImageFile != "" {
		if err := checkImageDimensions(c.Ref.ImageFile, c.Ref.Size); err != nil {
			return wrapInputError(fmt.Sprintf("reference map image %q", c.Ref.ImageFile), err)
		}
	}
	if c.Robot.ImageFile != "" {
		if err := checkImageDimensions(c.Robot.ImageFile, c.Robot.Size); err != nil {
			return wrapInputError(fmt.Sprintf("robot map image %q", c.Robot.ImageFile), err)
		}
	}

	return nil
}

// rectanglesOverlap implements the translation-only overlap test spec 3
// and design note 9 describe: the robot map's axis-aligned rectangle,
// translated by (tx, ty), must have a non-empty intersection with the
// reference map's rectangle at the origin. Scale and rotation are
// deliberately not applied here, preserving a documented quirk of the
// reference implementation rather than silently tightening it. Rectangles
// that merely touch along a boundary count as overlapping, matching the
// reference implementation's accept-on-touch behaviour.
func rectanglesOverlap(ref, robot Size, tx, ty float64) bool {
	refMinX, refMaxX := 0.0, ref.W
	refMinY, refMaxY := 0.0, ref.H
	robMinX, robMaxX := tx, tx+robot.W
	robMinY, robMaxY := ty, ty+robot.H

	return refMinX <= robMaxX && robMinX <= refMaxX &&
		refMinY <= robMaxY && robMinY <= refMaxY
}
