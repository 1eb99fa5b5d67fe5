package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ScaleTranslation returns m with its translation column (elements 12..14,
// i.e. m[12], m[13], m[14] in mgl32's column-major layout) multiplied by
// scale. Used to bring bind-time and pose matrices into the encoder's
// output scale without touching rotation or basis vectors.
//
// Parameters:
//   - m: source matrix, column-major
//   - scale: multiplier applied to the translation column
//
// Returns:
//   - mgl32.Mat4: m with its translation scaled
func ScaleTranslation(m mgl32.Mat4, scale float32) mgl32.Mat4 {
	m[12] *= scale
	m[13] *= scale
	m[14] *= scale
	return m
}

// Mat4ToFloat64 flattens a column-major mgl32.Mat4 into a 16-element
// float64 array, the precision FBX matrix properties always use.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - [16]float64: column-major elements widened to float64
func Mat4ToFloat64(m mgl32.Mat4) [16]float64 {
	var out [16]float64
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}

// QuatToEulerXYZ decomposes a unit quaternion into Euler angles (radians)
// applied in X, then Y, then Z order. Mirrors the column-major matrix-element
// extraction used by common WebGL-era Euler implementations: build the
// rotation matrix, read off the three angles from the matrix elements
// directly rather than round-tripping through atan2 on the quaternion
// components, which avoids a second source of branch-cut error on top of
// the unwinding pass the caller performs across keys.
//
// Parameters:
//   - q: unit quaternion to decompose
//
// Returns:
//   - mgl32.Vec3: (x, y, z) Euler angles in radians, principal branch
func QuatToEulerXYZ(q mgl32.Quat) mgl32.Vec3 {
	m := q.Mat4()

	m11, m12, m13 := m[0], m[4], m[8]
	m22, m23 := m[5], m[9]
	m32, m33 := m[6], m[10]

	clamped := m13
	if clamped > 1 {
		clamped = 1
	} else if clamped < -1 {
		clamped = -1
	}

	var x, y, z float32
	y = float32(math.Asin(float64(clamped)))
	if float32(math.Abs(float64(m13))) < 0.9999999 {
		x = float32(math.Atan2(float64(-m23), float64(m33)))
		z = float32(math.Atan2(float64(-m12), float64(m11)))
	} else {
		x = float32(math.Atan2(float64(m32), float64(m22)))
		z = 0
	}

	return mgl32.Vec3{x, y, z}
}

// DecomposeTRS decomposes a column-major 4x4 matrix into translation,
// rotation (quaternion), and scale. This is an approximation that assumes
// no shear, matching how engines typically reconstruct a node's local TRS
// from a baked world matrix.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - translation mgl32.Vec3
//   - rotation mgl32.Quat
//   - scale mgl32.Vec3
func DecomposeTRS(m mgl32.Mat4) (translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	translation = mgl32.Vec3{m[12], m[13], m[14]}

	sx := vecLen(m[0], m[1], m[2])
	sy := vecLen(m[4], m[5], m[6])
	sz := vecLen(m[8], m[9], m[10])
	scale = mgl32.Vec3{sx, sy, sz}

	if sx < 0.0001 {
		sx = 1
	}
	if sy < 0.0001 {
		sy = 1
	}
	if sz < 0.0001 {
		sz = 1
	}

	r00, r01, r02 := m[0]/sx, m[1]/sx, m[2]/sx
	r10, r11, r12 := m[4]/sy, m[5]/sy, m[6]/sy
	r20, r21, r22 := m[8]/sz, m[9]/sz, m[10]/sz

	// r0x, r1x, r2x hold the normalized columns; matrixToQuat takes rows.
	rotation = matrixToQuat(r00, r10, r20, r01, r11, r21, r02, r12, r22)
	return translation, rotation, scale
}

func vecLen(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}

// matrixToQuat converts a row-major 3x3 rotation matrix (rows passed as
// r0x, r1x, r2x triples) to a quaternion.
func matrixToQuat(r00, r01, r02, r10, r11, r12, r20, r21, r22 float32) mgl32.Quat {
	trace := r00 + r11 + r22

	var x, y, z, w float32
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1.0))) * 2
		w = 0.25 * s
		x = (r21 - r12) / s
		y = (r02 - r20) / s
		z = (r10 - r01) / s
	case r00 > r11 && r00 > r22:
		s := float32(math.Sqrt(float64(1.0+r00-r11-r22))) * 2
		w = (r21 - r12) / s
		x = 0.25 * s
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	case r11 > r22:
		s := float32(math.Sqrt(float64(1.0+r11-r00-r22))) * 2
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = 0.25 * s
		z = (r12 + r21) / s
	default:
		s := float32(math.Sqrt(float64(1.0+r22-r00-r11))) * 2
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = 0.25 * s
	}

	length := vecLen(x, y, z)
	length = float32(math.Sqrt(float64(length*length + w*w)))
	if length > 0.0001 {
		x /= length
		y /= length
		z /= length
		w /= length
	} else {
		x, y, z, w = 0, 0, 0, 1
	}

	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

// UnwindEuler shifts each axis of cur (radians) by 2*pi toward prev when the
// two differ by more than pi. One shift is applied per axis, so the result
// lies within pi of prev whenever the original gap was under 3*pi; a larger
// gap is narrowed by 2*pi only. This is the continuity correction keyframed
// Euler curves need once each key has independently been resolved to its
// principal branch.
//
// Parameters:
//   - prev: the previous key's Euler angles, already unwound
//   - cur: the current key's Euler angles, principal branch
//
// Returns:
//   - mgl32.Vec3: cur adjusted for continuity with prev
func UnwindEuler(prev, cur mgl32.Vec3) mgl32.Vec3 {
	const pi = math.Pi
	const twoPi = 2 * pi
	out := cur
	for i := 0; i < 3; i++ {
		d := out[i] - prev[i]
		if d > pi {
			out[i] -= twoPi
		} else if d < -pi {
			out[i] += twoPi
		}
	}
	return out
}
