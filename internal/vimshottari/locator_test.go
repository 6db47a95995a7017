package vimshottari

import (
	"errors"
	"testing"
	"time"

	"github.com/jyotish-labs/dashactl/internal/testutil/testlog"
)

func TestActivePathDescendsToBuiltDepth(t *testing.T) {
	testlog.Start(t)

	tree := New(Venus, birth, 3)
	at := birth.Add(25 * Year)
	path, err := tree.ActivePath(at)
	if err != nil {
		t.Fatalf("active path: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("path depth %d, want 3", len(path))
	}
	for i, n := range path {
		if n.Depth != uint8(i+1) {
			t.Fatalf("path[%d] depth %d", i, n.Depth)
		}
		if !n.Contains(at) {
			t.Fatalf("path[%d] (%s) does not contain query instant", i, n.Lord)
		}
		if i > 0 && (path[i].Start.Before(path[i-1].Start) || path[i].End.After(path[i-1].End)) {
			t.Fatalf("path[%d] not nested in path[%d]", i, i-1)
		}
	}
	// 25 years in: Venus (20y) done, Sun mahadasha running.
	if path[0].Lord != Sun {
		t.Fatalf("mahadasha at +25y is %s, want Sun", path[0].Lord)
	}
}

func TestActivePathBoundaryBelongsToNextSibling(t *testing.T) {
	testlog.Start(t)

	tree := New(Ketu, birth, 2)
	mahas := tree.Mahadashas()
	boundary := mahas[0].End

	path, err := tree.ActivePath(boundary)
	if err != nil {
		t.Fatalf("active path at boundary: %v", err)
	}
	if path[0].Lord != mahas[1].Lord {
		t.Fatalf("instant at first mahadasha end resolves to %s, want next sibling %s", path[0].Lord, mahas[1].Lord)
	}
	if !path[0].Start.Equal(boundary) {
		t.Fatalf("next sibling starts %v, want the boundary instant", path[0].Start)
	}

	// Same rule one level down.
	antars := tree.children(tree.nodes[0].childBase)
	antarBoundary := antars[0].End
	path, err = tree.ActivePath(antarBoundary)
	if err != nil {
		t.Fatalf("active path at antardasha boundary: %v", err)
	}
	if path[1].Lord != antars[1].Lord || !path[1].Start.Equal(antarBoundary) {
		t.Fatalf("antardasha boundary resolves to %s starting %v", path[1].Lord, path[1].Start)
	}
}

func TestActivePathOutsideSpan(t *testing.T) {
	testlog.Start(t)

	tree := New(Mars, birth, 2)
	for _, at := range []time.Time{
		birth.Add(-time.Nanosecond),
		tree.End(),
		tree.End().Add(40 * Year),
	} {
		if _, err := tree.ActivePath(at); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("instant %v: err %v, want ErrOutOfRange", at, err)
		}
	}

	// The final representable instant of the cycle still resolves.
	if _, err := tree.ActivePath(tree.End().Add(-time.Nanosecond)); err != nil {
		t.Fatalf("last instant of cycle: %v", err)
	}
}

func TestAtDepthValidation(t *testing.T) {
	testlog.Start(t)

	tree := New(Jupiter, birth, 2)
	if _, err := tree.At(birth, 0); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("depth 0: %v, want ErrInvalidDepth", err)
	}
	if _, err := tree.At(birth, 3); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("depth 3 on depth-2 tree: %v, want ErrDepthExceeded", err)
	}
	node, err := tree.At(birth.Add(time.Hour), 2)
	if err != nil {
		t.Fatalf("depth 2: %v", err)
	}
	if node.Depth != 2 || node.Lord != Jupiter {
		t.Fatalf("opening antardasha %s at depth %d, want Jupiter at 2", node.Lord, node.Depth)
	}
}
