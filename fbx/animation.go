package fbx

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/common"
	"github.com/oxy-forge/oxyfbx/scene"
)

// ktimeUnit is the number of KTime ticks per second, FBX's fixed time base.
const ktimeUnit = 46186158000

func secondsToKTime(seconds float64) int64 {
	return int64(math.Round(seconds * ktimeUnit))
}

// buildAnimationClip emits one AnimationStack and its sole AnimationLayer,
// then one AnimationCurveNode (plus three AnimationCurves, X/Y/Z) per track
// whose target bone was collected. Tracks naming an unresolved bone are
// skipped; this is the one place animation data silently drops a track
// rather than erroring, matching the degrade-don't-fail policy for input
// anomalies the rest of the encoder follows.
func (e *encoder) buildAnimationClip(clip *scene.AnimationClip) {
	stackID := e.reg.ids.alloc()
	e.reg.animStackID[clip] = stackID
	layerID := e.reg.ids.alloc()
	e.reg.animLayerID[clip] = layerID

	stack := NewNode("AnimationStack", String(nameWithClass(clip.Name, "AnimStack")), String("")).Add(
		NewNode("Properties70").Add(
			propertyP("LocalStop", "KTime", "Time", "", Int64(secondsToKTime(float64(clip.Duration)))),
			propertyP("ReferenceStop", "KTime", "Time", "", Int64(secondsToKTime(float64(clip.Duration)))),
		),
	)
	e.addObject("AnimationStack", stackID, stack)

	layer := NewNode("AnimationLayer", String(nameWithClass("BaseLayer", "AnimLayer")), String(""))
	e.addObject("AnimationLayer", layerID, layer)
	e.connectOO(layerID, stackID)

	for i := range clip.Tracks {
		e.buildTrack(&clip.Tracks[i], layerID)
	}
}

type trackKind int

const (
	trackPosition trackKind = iota
	trackScale
	trackQuaternion
)

// resolveTrack splits a "<bone>.<property>" track name into the bone node
// (normalizing Mixamo-style prefixes before matching) and the property kind.
func (e *encoder) resolveTrack(name string) (*scene.Node, trackKind, bool) {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return nil, 0, false
	}
	boneName, prop := name[:dot], name[dot+1:]

	var kind trackKind
	switch prop {
	case "position":
		kind = trackPosition
	case "scale":
		kind = trackScale
	case "quaternion":
		kind = trackQuaternion
	default:
		return nil, 0, false
	}

	normalized := normalizeMixamoName(boneName)
	for _, obj := range e.col.objects {
		if obj.kind != objLimbNode {
			continue
		}
		if obj.node.Name == boneName || normalizeMixamoName(obj.node.Name) == normalized {
			return obj.node, kind, true
		}
	}
	return nil, 0, false
}

func (e *encoder) buildTrack(track *scene.Track, layerID uint64) {
	boneNode, kind, ok := e.resolveTrack(track.Name)
	if !ok {
		return
	}
	boneModelID, ok := e.reg.modelID[boneNode]
	if !ok {
		return
	}
	if len(track.Times) == 0 {
		return
	}

	var propName string
	xs, ys, zs := make([]float64, len(track.Times)), make([]float64, len(track.Times)), make([]float64, len(track.Times))

	switch kind {
	case trackPosition:
		propName = "Lcl Translation"
		for i, v := range track.Values {
			xs[i] = float64(v[0] * e.opts.Scale)
			ys[i] = float64(v[1] * e.opts.Scale)
			zs[i] = float64(v[2] * e.opts.Scale)
		}
	case trackScale:
		propName = "Lcl Scaling"
		for i, v := range track.Values {
			xs[i] = float64(v[0])
			ys[i] = float64(v[1])
			zs[i] = float64(v[2])
		}
	case trackQuaternion:
		propName = "Lcl Rotation"
		var prevEuler mgl32.Vec3
		for i, v := range track.Values {
			q := mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
			euler := common.QuatToEulerXYZ(q)
			if i > 0 {
				euler = common.UnwindEuler(prevEuler, euler)
			}
			prevEuler = euler
			xs[i] = float64(euler.X() * radToDeg)
			ys[i] = float64(euler.Y() * radToDeg)
			zs[i] = float64(euler.Z() * radToDeg)
		}
	}

	times := make([]int64, len(track.Times))
	for i, t := range track.Times {
		times[i] = secondsToKTime(float64(t))
	}

	curveNodeID := e.reg.ids.alloc()
	e.reg.curveNodeID[track] = curveNodeID
	curveNode := NewNode("AnimationCurveNode", String(nameWithClass("d|"+propName, "AnimCurveNode")), String("")).Add(
		NewNode("Properties70").Add(
			propertyP("d|X", "Number", "", "A", Float64(xs[0])),
			propertyP("d|Y", "Number", "", "A", Float64(ys[0])),
			propertyP("d|Z", "Number", "", "A", Float64(zs[0])),
		),
	)
	e.addObject("AnimationCurveNode", curveNodeID, curveNode)
	e.connectOO(curveNodeID, layerID)
	e.connectOP(curveNodeID, boneModelID, propName)

	xID := e.buildCurve(times, xs)
	yID := e.buildCurve(times, ys)
	zID := e.buildCurve(times, zs)
	e.reg.curveIDByAxis[track] = [3]uint64{xID, yID, zID}

	e.connectOP(xID, curveNodeID, "d|X")
	e.connectOP(yID, curveNodeID, "d|Y")
	e.connectOP(zID, curveNodeID, "d|Z")
}

// buildCurve emits one AnimationCurve with the given keyframe times (KTime
// ticks) and values, plus the per-key attribute arrays FBX 7500 requires
// (one attribute/flags/refcount triple per key, constant across keys since
// the encoder only ever emits linear-interpolated tangents).
func (e *encoder) buildCurve(times []int64, values []float64) uint64 {
	id := e.reg.ids.alloc()
	n := len(times)

	attrFlags := make([]int32, n)
	attrData := make([]float64, n*4)
	attrRefCount := make([]int32, n)
	for i := range attrFlags {
		attrFlags[i] = 256
		attrRefCount[i] = 1
	}

	curve := NewNode("AnimationCurve", String(nameWithClass("", "AnimCurve")), String("")).Add(
		NewNode("Default", Float64(0)),
		NewNode("KeyVer", Int32(4009)),
		NewNode("KeyTime", Int64Array(times)),
		NewNode("KeyValueFloat", Float32Array(toFloat32Slice(values))),
		NewNode("KeyAttrFlags", Int32Array(attrFlags)),
		NewNode("KeyAttrDataFloat", Float32Array(toFloat32Slice(attrData))),
		NewNode("KeyAttrRefCount", Int32Array(attrRefCount)),
	)
	e.addObject("AnimationCurve", id, curve)
	return id
}

func toFloat32Slice(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
