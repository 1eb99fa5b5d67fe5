package fbx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/common"
	"github.com/oxy-forge/oxyfbx/scene"
)

func TestSecondsToKTime(t *testing.T) {
	got := secondsToKTime(1.0)
	if got != ktimeUnit {
		t.Errorf("secondsToKTime(1.0) = %d, want %d", got, ktimeUnit)
	}
	if secondsToKTime(0) != 0 {
		t.Errorf("secondsToKTime(0) = %d, want 0", secondsToKTime(0))
	}
}

func TestBuildCurveArrayLengths(t *testing.T) {
	e := newEncoder(defaultOptions(), &collection{})
	times := []int64{0, secondsToKTime(0.5), secondsToKTime(1)}
	values := []float64{0, 1.5, 3}

	e.buildCurve(times, values)

	if len(e.objectsChildren) != 1 {
		t.Fatalf("expected 1 emitted AnimationCurve node, got %d", len(e.objectsChildren))
	}
	curve := e.objectsChildren[0]

	byName := func(name string) *Node {
		for _, c := range curve.Children {
			if c.Name == name {
				return c
			}
		}
		t.Fatalf("curve missing child %q", name)
		return nil
	}

	n := len(times)
	if got := len(byName("KeyTime").Properties[0].i64arr); got != n {
		t.Errorf("KeyTime length = %d, want %d", got, n)
	}
	if got := len(byName("KeyValueFloat").Properties[0].f32arr); got != n {
		t.Errorf("KeyValueFloat length = %d, want %d", got, n)
	}
	if got := len(byName("KeyAttrFlags").Properties[0].i32arr); got != n {
		t.Errorf("KeyAttrFlags length = %d, want %d", got, n)
	}
	if got := len(byName("KeyAttrRefCount").Properties[0].i32arr); got != n {
		t.Errorf("KeyAttrRefCount length = %d, want %d", got, n)
	}
	if got := len(byName("KeyAttrDataFloat").Properties[0].f32arr); got != 4*n {
		t.Errorf("KeyAttrDataFloat length = %d, want %d", got, 4*n)
	}
}

func TestResolveTrackSplitsNameAndMatchesMixamoBone(t *testing.T) {
	boneNode := &scene.Node{Name: "mixamorig:Hips"}
	e := newEncoder(defaultOptions(), &collection{
		objects: []collectedObject{{node: boneNode, kind: objLimbNode}},
	})

	resolved, kind, ok := e.resolveTrack("mixamorigHips.quaternion")
	if !ok {
		t.Fatal("expected track to resolve")
	}
	if resolved.Name != "mixamorig:Hips" {
		t.Errorf("resolved bone name = %q, want mixamorig:Hips", resolved.Name)
	}
	if kind != trackQuaternion {
		t.Errorf("kind = %v, want trackQuaternion", kind)
	}
}

func TestUnwindEulerAcrossDiscontinuity(t *testing.T) {
	prev := mgl32.Vec3{0, 0, math.Pi - 0.1}
	cur := mgl32.Vec3{0, 0, -math.Pi + 0.1}

	got := common.UnwindEuler(prev, cur)
	if diff := math.Abs(float64(got.Z() - prev.Z())); diff > math.Pi {
		t.Errorf("unwound delta %v exceeds pi", diff)
	}
}
