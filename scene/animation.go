package scene

// AnimationClip is a single named animation, sampled at authoring time into
// a flat list of per-bone tracks.
type AnimationClip struct {
	// Name is the clip identifier.
	Name string

	// Duration is the clip length in seconds.
	Duration float32

	// Tracks carries one entry per animated bone property.
	Tracks []Track
}

// Track is a single keyframed channel, named "<bone>.<property>" where
// property is one of "position", "scale", or "quaternion".
type Track struct {
	// Name identifies the target bone and property, e.g. "mixamorigHips.quaternion".
	Name string

	// Times holds each keyframe's timestamp in seconds, parallel to Values.
	Times []float32

	// Values holds each keyframe's value. Position and scale tracks use the
	// first three components; quaternion tracks use all four (x, y, z, w).
	Values [][4]float32
}
