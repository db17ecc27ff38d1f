package transform

// ToRef transforms a point p expressed in the robot map's coordinate space
// into the reference map's coordinate space (spec 4.5). It tries, in
// order:
//
//  1. Correspondence shortcut: if p exactly equals some Q[i], return R[i]
//     directly (bit-exact, no floating-point drift).
//  2. Triangle search: scan the mesh in emission order for the first
//     triangle whose robot-frame shape contains p (on-edge counts as
//     inside); apply that triangle's precomputed robot->ref affine.
//  3. Convex-hull fallback: apply the global affine alone.
//
// ToRef is a logic fault on an empty instance.
func (c *Config) ToRef(p Point) (Point, error) {
	if err := c.requireLoaded("ToRef"); err != nil {
		return Point{}, err
	}

	for i, q := range c.robotPoints {
		if p.Equal(q) {
			return c.refPoints[i], nil
		}
	}

	for _, ta := range c.affines {
		t := ta.tri
		if insideTriangle(p, c.robotPoints[t.A], c.robotPoints[t.B], c.robotPoints[t.C]) {
			return Apply(ta.toRef, p), nil
		}
	}

	return applyGlobalForward(c.globl, p), nil
}

// ToRobot transforms a point p expressed in the reference map's coordinate
// space into the robot map's coordinate space. Symmetric to ToRef, reading
// R where ToRef reads Q and vice versa.
//
// The convex-hull fallback here uses the true algebraic inverse of the
// global affine, diag(1/sx,1/sy) . R(-theta) . (p - t), rather than the
// reference implementation's order-swapped approximation (subtracting the
// translation after rotation/scale), which is only exact when rotation is
// zero. This is an intentional correction, not a faithfulness gap — see
// the design notes for the discrepancy it resolves.
//
// ToRobot is a logic fault on an empty instance.
func (c *Config) ToRobot(p Point) (Point, error) {
	if err := c.requireLoaded("ToRobot"); err != nil {
		return Point{}, err
	}

	for i, r := range c.refPoints {
		if p.Equal(r) {
			return c.robotPoints[i], nil
		}
	}

	for _, ta := range c.affines {
		t := ta.tri
		if insideTriangle(p, c.refPoints[t.A], c.refPoints[t.B], c.refPoints[t.C]) {
			return Apply(ta.toBot, p), nil
		}
	}

	return applyGlobalInverse(c.globl, p), nil
}
