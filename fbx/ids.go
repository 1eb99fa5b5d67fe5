package fbx

import "github.com/oxy-forge/oxyfbx/scene"

// idAllocator hands out 64-bit stable identifiers for one export. It is
// per-instance state (never a package-level counter) so concurrent,
// independent exports never interfere with each other.
type idAllocator struct {
	next uint64
}

// newIDAllocator returns an allocator whose first id is 1; id 0 is reserved
// for the implicit scene root.
func newIDAllocator() *idAllocator {
	return &idAllocator{next: 1}
}

func (a *idAllocator) alloc() uint64 {
	id := a.next
	a.next++
	return id
}

// registry holds every scene-entity → id mapping the node builder,
// skinning subsystem, and animation subsystem need, plus the reverse
// relationships the connection stage consumes (cluster→skin, cluster→bone,
// bone→node-attribute, texture→video). It is an acyclic map by id: the
// scene graph's own parent back-references are only ever read, never
// stored here.
type registry struct {
	ids *idAllocator

	modelID         map[*scene.Node]uint64
	nodeAttributeID map[*scene.Node]uint64
	geometryID      map[*scene.Node]uint64
	materialID      map[*scene.Material]uint64
	textureID       map[*scene.Texture]uint64
	videoID         map[*scene.Texture]uint64

	skinID         map[*scene.Node]uint64 // keyed by the mesh node owning the skin
	clusterID      map[*scene.Node]map[int]uint64
	bindPoseID     map[*scene.Node]uint64 // keyed by the mesh node
	boneToClusters map[*scene.Node][]uint64

	animStackID   map[*scene.AnimationClip]uint64
	animLayerID   map[*scene.AnimationClip]uint64
	curveNodeID   map[*scene.Track]uint64
	curveIDByAxis map[*scene.Track][3]uint64
}

func newRegistry() *registry {
	return &registry{
		ids:             newIDAllocator(),
		modelID:         make(map[*scene.Node]uint64),
		nodeAttributeID: make(map[*scene.Node]uint64),
		geometryID:      make(map[*scene.Node]uint64),
		materialID:      make(map[*scene.Material]uint64),
		textureID:       make(map[*scene.Texture]uint64),
		videoID:         make(map[*scene.Texture]uint64),
		skinID:          make(map[*scene.Node]uint64),
		clusterID:       make(map[*scene.Node]map[int]uint64),
		bindPoseID:      make(map[*scene.Node]uint64),
		boneToClusters:  make(map[*scene.Node][]uint64),
		animStackID:     make(map[*scene.AnimationClip]uint64),
		animLayerID:     make(map[*scene.AnimationClip]uint64),
		curveNodeID:     make(map[*scene.Track]uint64),
		curveIDByAxis:   make(map[*scene.Track][3]uint64),
	}
}

func (r *registry) allocModel(n *scene.Node) uint64 {
	id := r.ids.alloc()
	r.modelID[n] = id
	return id
}

func (r *registry) allocCluster(mesh *scene.Node, boneIdx int) uint64 {
	id := r.ids.alloc()
	if r.clusterID[mesh] == nil {
		r.clusterID[mesh] = make(map[int]uint64)
	}
	r.clusterID[mesh][boneIdx] = id
	return id
}
