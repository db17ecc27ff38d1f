package transform

import "testing"

func TestConfigStateMachine(t *testing.T) {
	c := New()
	if c.Loaded() {
		t.Fatal("freshly constructed Config reports Loaded()")
	}

	if _, err := c.RefName(); err == nil {
		t.Error("RefName on empty instance should fail")
	} else if _, ok := err.(*StateError); !ok {
		t.Errorf("RefName on empty instance: got %T, want *StateError", err)
	}

	if _, err := c.ToRef(Point{0, 0}); err == nil {
		t.Error("ToRef on empty instance should fail")
	} else if _, ok := err.(*StateError); !ok {
		t.Errorf("ToRef on empty instance: got %T, want *StateError", err)
	}

	if err := c.Load(alignedCandidate()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Loaded() {
		t.Fatal("Loaded() is false after a successful Load")
	}

	if err := c.Load(alignedCandidate()); err == nil {
		t.Error("Load on a loaded instance should fail")
	} else if _, ok := err.(*StateError); !ok {
		t.Errorf("Load on a loaded instance: got %T, want *StateError", err)
	}

	name, err := c.RefName()
	if err != nil || name != "reference" {
		t.Errorf("RefName after Load = (%q, %v), want (\"reference\", nil)", name, err)
	}

	c.Reset()
	if c.Loaded() {
		t.Fatal("Loaded() is true after Reset")
	}
	if _, err := c.RefName(); err == nil {
		t.Error("RefName after Reset should fail again")
	}
}

func TestLoadOnLoadedDoesNotMutate(t *testing.T) {
	c := New()
	if err := c.Load(alignedCandidate()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	before, err := c.RefCorrespondencePoints()
	if err != nil {
		t.Fatal(err)
	}
	beforeCopy := append([]Point(nil), before...)

	if err := c.Load(offsetCandidate()); err == nil {
		t.Fatal("second Load on a loaded instance should have failed")
	}

	after, err := c.RefCorrespondencePoints()
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(beforeCopy) {
		t.Fatalf("RefCorrespondencePoints length changed after rejected Load: got %d, want %d",
			len(after), len(beforeCopy))
	}
	for i := range after {
		if after[i] != beforeCopy[i] {
			t.Fatalf("RefCorrespondencePoints[%d] changed after rejected Load: got %v, want %v",
				i, after[i], beforeCopy[i])
		}
	}
}

func TestResetMatchesFreshInstance(t *testing.T) {
	loaded := New()
	if err := loaded.Load(alignedCandidate()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.Reset()

	fresh := New()

	if loaded.Loaded() != fresh.Loaded() {
		t.Fatalf("Loaded() differs: reset=%v fresh=%v", loaded.Loaded(), fresh.Loaded())
	}

	sx1, sy1, err1 := loaded.Scale()
	sx2, sy2, err2 := fresh.Scale()
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("Scale() error state differs after Reset")
	}
	_ = sx1
	_ = sy1
	_ = sx2
	_ = sy2
}
