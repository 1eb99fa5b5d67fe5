package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatToEulerXYZIdentity(t *testing.T) {
	e := QuatToEulerXYZ(mgl32.QuatIdent())
	if e.X() != 0 || e.Y() != 0 || e.Z() != 0 {
		t.Errorf("identity quaternion -> %v, want zero vector", e)
	}
}

func TestQuatToEulerXYZRoundTripsThroughMatrix(t *testing.T) {
	// A known rotation: 90 degrees about Y.
	q := mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 1, 0})
	e := QuatToEulerXYZ(q)

	if diff := math.Abs(float64(e.Y() - math.Pi/2)); diff > 1e-3 {
		t.Errorf("Y euler = %v, want ~pi/2 (diff %v)", e.Y(), diff)
	}
	if math.Abs(float64(e.X())) > 1e-3 || math.Abs(float64(e.Z())) > 1e-3 {
		t.Errorf("expected X,Z ~= 0 for a pure Y rotation, got %v", e)
	}
}

func TestDecomposeTRSExtractsTranslationAndScale(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))

	translation, _, scale := DecomposeTRS(m)
	if translation != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("translation = %v, want (1,2,3)", translation)
	}
	for i, s := range scale {
		if diff := math.Abs(float64(s - 2)); diff > 1e-4 {
			t.Errorf("scale[%d] = %v, want 2", i, s)
		}
	}
}

func TestUnwindEulerKeepsDeltaUnderPi(t *testing.T) {
	prev := mgl32.Vec3{0, 0, float32(math.Pi - 0.1)}
	cur := mgl32.Vec3{0, 0, float32(-math.Pi + 0.1)}

	got := UnwindEuler(prev, cur)
	if diff := math.Abs(float64(got.Z() - prev.Z())); diff > math.Pi {
		t.Errorf("unwound delta %v exceeds pi", diff)
	}
}

func TestScaleTranslationOnlyTouchesTranslationColumn(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	got := ScaleTranslation(m, 10)

	if got[12] != 10 || got[13] != 20 || got[14] != 30 {
		t.Errorf("translation column = (%v,%v,%v), want (10,20,30)", got[12], got[13], got[14])
	}
	if got[0] != 1 || got[5] != 1 || got[10] != 1 {
		t.Errorf("basis vectors were modified: %v", got)
	}
}
