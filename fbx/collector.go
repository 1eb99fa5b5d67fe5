package fbx

import "github.com/oxy-forge/oxyfbx/scene"

// objectKind classifies a collected scene node for the node builder.
type objectKind int

const (
	objNull objectKind = iota
	objMesh
	objLimbNode
)

// collectedObject is one entry in the collector's flat output list.
type collectedObject struct {
	node *scene.Node
	kind objectKind
}

// collection is the collector's output: a flat, ordered list of exported
// objects plus the parent relationships and skinned-mesh set the later
// stages need. The scene graph's parent pointers are only ever read here;
// everything downstream addresses nodes by identity through these maps.
type collection struct {
	objects       []collectedObject
	parentOf      map[*scene.Node]*scene.Node
	skinnedMeshes []*scene.Node
	boneSet       map[*scene.Node]bool
}

// collect walks root depth-first and partitions its nodes per the rules in
// the component design: visibility and export-flag filtering, skeleton-bone
// exclusion from the main walk (bones are appended afterward, deduplicated,
// as LimbNode entries), and the discard-name regex for editor helper meshes.
//
// Parameters:
//   - root: the scene hierarchy root, subject to the same per-node rules as
//     its descendants (emitted as a Null model unless filtered out)
//   - opts: the active export Options
//
// Returns:
//   - *collection: the flat object list and supporting relationship maps
func collect(root *scene.Node, opts *Options) *collection {
	c := &collection{
		parentOf: make(map[*scene.Node]*scene.Node),
		boneSet:  make(map[*scene.Node]bool),
	}

	// Pass 1: discover parent relationships and every bone used by a skinned
	// mesh, so the main walk can recognize and exclude bone nodes up front.
	walkParents(root, nil, c.parentOf)
	walkBones(root, opts, c.boneSet, &c.skinnedMeshes)

	// Pass 2: the main emission walk.
	walkEmit(root, opts, c)

	// Append the union of bones used by skinned meshes, in first-seen order
	// across meshes' skeleton bone lists, deduplicated.
	seenBones := make(map[*scene.Node]bool, len(c.boneSet))
	var boneOrder []*scene.Node
	for _, meshNode := range c.skinnedMeshes {
		for _, b := range meshNode.Mesh.Skin.Skeleton.Bones {
			if b.Node == nil || seenBones[b.Node] {
				continue
			}
			seenBones[b.Node] = true
			boneOrder = append(boneOrder, b.Node)
		}
	}
	for _, boneNode := range boneOrder {
		c.objects = append(c.objects, collectedObject{node: boneNode, kind: objLimbNode})
	}

	return c
}

func walkParents(n *scene.Node, parent *scene.Node, parentOf map[*scene.Node]*scene.Node) {
	if parent != nil {
		parentOf[n] = parent
	}
	for _, child := range n.Children {
		walkParents(child, n, parentOf)
	}
}

// walkBones finds every skinned mesh (regardless of visibility/export
// flags, since a bone referenced by a not-yet-visited mesh must still be
// recognized) and records the bones it uses.
func walkBones(n *scene.Node, opts *Options, boneSet map[*scene.Node]bool, skinnedMeshes *[]*scene.Node) {
	if n.Mesh != nil && opts.ExportSkin && isSkinnable(n.Mesh) {
		*skinnedMeshes = append(*skinnedMeshes, n)
		for _, b := range n.Mesh.Skin.Skeleton.Bones {
			if b.Node != nil {
				boneSet[b.Node] = true
			}
		}
	}
	for _, child := range n.Children {
		walkBones(child, opts, boneSet, skinnedMeshes)
	}
}

func isSkinnable(m *scene.Mesh) bool {
	return m.Skin != nil && m.Skin.Skeleton != nil && len(m.Positions) > 0
}

// walkEmit performs the main traversal, applying the per-node skip/emit
// decisions. Bone nodes are recognized via c.boneSet (populated by
// walkBones) and excluded here; they are appended separately by collect.
func walkEmit(n *scene.Node, opts *Options, c *collection) {
	emit(n, opts, c)
	for _, child := range n.Children {
		walkEmit(child, opts, c)
	}
}

func emit(n *scene.Node, opts *Options, c *collection) {
	if c.boneSet[n] {
		return
	}
	if !n.Visible && opts.OnlyVisible {
		return
	}
	if exportFlag, ok := n.UserData["export"].(bool); ok && !exportFlag {
		return
	}
	if boneVis, ok := n.UserData["boneVisualization"].(bool); ok && boneVis {
		return
	}

	if n.Mesh != nil && opts.ExportSkin && isSkinnable(n.Mesh) {
		c.objects = append(c.objects, collectedObject{node: n, kind: objMesh})
		return
	}

	if n.Mesh != nil {
		if discardNamePattern.MatchString(n.Name) {
			return
		}
		c.objects = append(c.objects, collectedObject{node: n, kind: objMesh})
		return
	}

	c.objects = append(c.objects, collectedObject{node: n, kind: objNull})
}
