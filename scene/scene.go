// Package scene defines the in-memory scene-graph contract the encoder
// consumes. Building or loading this graph is the caller's concern; this
// package only describes its shape.
package scene

import "github.com/go-gl/mathgl/mgl32"

// RotationOrder selects the Euler axis order a Node's Rotation is expressed in.
type RotationOrder int

const (
	XYZ RotationOrder = iota
	XZY
	YXZ
	YZX
	ZXY
	ZYX
)

// Node is a single entry in the scene hierarchy: a transform plus optional
// mesh data. Bones are ordinary Nodes referenced by a Skeleton's Bone list.
type Node struct {
	// Name is the node identifier, used for model naming and bone resolution.
	Name string

	// Translation, Rotation (radians, RotationOrder axis order), and Scale
	// are the node's local TRS components.
	Translation   mgl32.Vec3
	Rotation      mgl32.Vec3
	RotationOrder RotationOrder
	Scale         mgl32.Vec3

	// WorldMatrix is the node's current world transform, used for bind-time
	// snapshots during skinning.
	WorldMatrix mgl32.Mat4

	// Visible controls whether the Collector emits this node when onlyVisible
	// is set. Children are still traversed regardless.
	Visible bool

	// UserData carries caller-defined flags; the Collector only looks at the
	// "export" key (bool, false skips the node) and the "boneVisualization"
	// key (bool, true skips the node).
	UserData map[string]any

	// Mesh is non-nil for nodes that carry renderable geometry.
	Mesh *Mesh

	// Children are this node's child nodes in the hierarchy.
	Children []*Node
}

// Mesh is the geometry and material binding carried by a mesh Node.
type Mesh struct {
	// Positions are per-vertex positions in the mesh's local space.
	Positions []mgl32.Vec3

	// Indices is the triangle index list (length a multiple of 3). If nil,
	// Positions is itself assumed to already be triangle-ordered.
	Indices []uint32

	// Normals and UVs are optional, per-vertex, parallel to Positions.
	Normals []mgl32.Vec3
	UVs     []mgl32.Vec2

	// SkinIndices and SkinWeights are optional, per-vertex, four-wide skin
	// bindings parallel to Positions.
	SkinIndices [][4]uint32
	SkinWeights [][4]float32

	// Skin is non-nil when this mesh is bound to a skeleton.
	Skin *Skin

	// Materials are the mesh's material slots. The encoder exports only the
	// first slot (see spec's LayerElementMaterial note); an empty slice
	// synthesizes a single gray Lambert material.
	Materials []Material
}

// Skin binds a mesh to a skeleton for skeletal animation.
type Skin struct {
	// BindMatrix is the mesh's world matrix at bind time.
	BindMatrix mgl32.Mat4

	// Skeleton is the ordered bone list this mesh is bound to.
	Skeleton *Skeleton
}

// Skeleton is an ordered list of bones and their bind-time inverses.
type Skeleton struct {
	// Bones are the skeleton's bones, in stable index order.
	Bones []Bone
}

// Bone pairs a scene Node (the joint) with its bind-pose inverse matrix.
type Bone struct {
	// Node is the scene-graph node acting as this bone. It must also appear
	// somewhere in the scene hierarchy (typically under an armature root).
	Node *Node

	// InverseBindMatrix transforms from model space to this bone's space at
	// bind time. HasInverseBindMatrix false means "not provided"; the
	// encoder falls back to the bone's current world matrix.
	InverseBindMatrix    mgl32.Mat4
	HasInverseBindMatrix bool
}

// Material is a single visual appearance slot.
type Material struct {
	// Name is the material identifier.
	Name string

	// Color is the diffuse RGB color. The zero value defaults to mid-gray.
	Color mgl32.Vec3

	// Opacity is in [0, 1]; the encoder emits TransparencyFactor = 1 - Opacity.
	// The zero value is treated as fully opaque (1), so an Opacity of exactly
	// 0 is emitted as TransparencyFactor 0.
	Opacity float32

	// Texture is the optional diffuse texture bound to this material.
	Texture *Texture
}

// Texture is an already-encoded image ready for embedding.
type Texture struct {
	// Name is the texture identifier; sanitized at export time for use as a
	// filename.
	Name string

	// PNG holds already-encoded PNG bytes. Rasterization is the caller's
	// concern; the encoder only embeds, optionally downscales, and re-encodes.
	PNG []byte
}
