package fbx

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/common"
	"github.com/oxy-forge/oxyfbx/scene"
)

// buildArmatures synthesizes one standalone "Armature" Model per distinct
// skeleton referenced by a skinned mesh: a Null model holding the skeleton's
// non-bone ancestor's decomposed world transform, connected directly to the
// scene root rather than to that ancestor's own parent chain. Root bones
// connect to this synthesized node (or to the scene root, if no such
// ancestor exists) instead of whatever their original scene parent was,
// since a skeleton's actual parent in the authoring scene is rarely itself
// collected as an object.
func (e *encoder) buildArmatures() {
	seen := make(map[*scene.Skeleton]bool)
	for _, meshNode := range e.col.skinnedMeshes {
		skel := meshNode.Mesh.Skin.Skeleton
		if seen[skel] {
			continue
		}
		seen[skel] = true
		e.buildArmature(skel)
	}
}

func (e *encoder) buildArmature(skel *scene.Skeleton) {
	rootAncestor := e.findArmatureAncestor(skel)
	if rootAncestor == nil {
		e.armatureModelID[skel] = 0
		return
	}

	translation, rotation, scale := common.DecomposeTRS(rootAncestor.WorldMatrix)
	euler := common.QuatToEulerXYZ(rotation)
	translation = mgl32.Vec3{
		translation.X() * e.opts.Scale,
		translation.Y() * e.opts.Scale,
		translation.Z() * e.opts.Scale,
	}
	degrees := mgl32.Vec3{euler.X() * radToDeg, euler.Y() * radToDeg, euler.Z() * radToDeg}

	id := e.reg.ids.alloc()
	name := rootAncestor.Name
	if name == "" {
		name = "Armature"
	}

	props := NewNode("Properties70").Add(
		propertyP("RotationOrder", "enum", "", "", Int32(0)),
		propertyP("InheritType", "enum", "", "", Int32(1)),
		propertyP("Lcl Translation", "Lcl Translation", "", "A", Float64(float64(translation.X())), Float64(float64(translation.Y())), Float64(float64(translation.Z()))),
		propertyP("Lcl Rotation", "Lcl Rotation", "", "A", Float64(float64(degrees.X())), Float64(float64(degrees.Y())), Float64(float64(degrees.Z()))),
		propertyP("Lcl Scaling", "Lcl Scaling", "", "A", Float64(float64(scale.X())), Float64(float64(scale.Y())), Float64(float64(scale.Z()))),
	)

	node := NewNode("Model", String(nameWithClass(name, "Model")), String("Null")).Add(
		NewNode("Version", Int32(232)),
		props,
		NewNode("Shading", Bool(true)),
		NewNode("Culling", String("CullingOff")),
	)
	e.addObject("Model", id, node)
	e.connectOO(id, 0)

	e.armatureModelID[skel] = id
	e.armatureWorldMatrix[skel] = rootAncestor.WorldMatrix
}

// findArmatureAncestor returns the first root bone's parent node, if that
// parent is not itself a bone of any skeleton. Root bones are bones whose
// scene parent is not in the collector's bone set.
func (e *encoder) findArmatureAncestor(skel *scene.Skeleton) *scene.Node {
	for _, b := range skel.Bones {
		if b.Node == nil {
			continue
		}
		parent := e.col.parentOf[b.Node]
		if parent == nil {
			continue
		}
		if e.col.boneSet[parent] {
			continue
		}
		return parent
	}
	return nil
}

// buildSkinning emits, for every skinned mesh, a Deformer (Skin) node, one
// Deformer (Cluster) per bone that carries at least one non-zero vertex
// weight (with that bone's per-vertex indices/weights and its
// TransformLink), and the BindPose covering the armature, the mesh, and
// every bone with a cluster.
func (e *encoder) buildSkinning() {
	for _, meshNode := range e.col.skinnedMeshes {
		e.buildSkin(meshNode)
	}
}

func (e *encoder) buildSkin(meshNode *scene.Node) {
	mesh := meshNode.Mesh
	skel := mesh.Skin.Skeleton
	meshBind := mesh.Skin.BindMatrix
	meshModelID, ok := e.reg.modelID[meshNode]
	if !ok {
		return
	}

	skinID := e.reg.ids.alloc()
	e.reg.skinID[meshNode] = skinID
	skinNode := NewNode("Deformer", String(nameWithClass(meshNode.Name+"_Skin", "Deformer")), String("Skin")).Add(
		NewNode("Version", Int32(101)),
		NewNode("Link_DeformAcuracy", Float64(50)),
	)
	e.addObject("Deformer", skinID, skinNode)
	e.connectOO(skinID, meshModelID)

	clusters := e.gatherClusterData(mesh)
	poseNodes := []*Node{}

	for boneIdx, bone := range skel.Bones {
		if bone.Node == nil {
			continue
		}
		boneModelID, ok := e.reg.modelID[bone.Node]
		if !ok {
			continue
		}

		indices, weights := clusters[boneIdx].indices, clusters[boneIdx].weights
		if len(indices) == 0 {
			continue
		}

		clusterID := e.reg.allocCluster(meshNode, boneIdx)
		e.reg.boneToClusters[bone.Node] = append(e.reg.boneToClusters[bone.Node], clusterID)

		transformLink := common.ScaleTranslation(e.boneTransformLink(bone, meshBind), e.opts.Scale)
		transform := common.ScaleTranslation(meshBind, e.opts.Scale)

		clusterName := normalizeMixamoName(bone.Node.Name) + "_Cluster"
		clusterNode := NewNode("Deformer", String(nameWithClass(clusterName, "SubDeformer")), String("Cluster")).Add(
			NewNode("Version", Int32(100)),
			NewNode("UserData", String(""), String("")),
			NewNode("Indexes", Int32Array(indices)),
			NewNode("Weights", Float64Array(weights)),
			NewNode("Transform", Float64Array(flattenMat4(transform))),
			NewNode("TransformLink", Float64Array(flattenMat4(transformLink))),
		)
		e.addObject("Deformer", clusterID, clusterNode)
		e.connectOO(clusterID, skinID)
		e.connectOO(boneModelID, clusterID)

		poseNodes = append(poseNodes, buildPoseNode(boneModelID, transformLink))
	}

	e.buildBindPose(meshNode, meshModelID, skel, poseNodes)
}

type clusterData struct {
	indices []int32
	weights []float64
}

// gatherClusterData scans the mesh's per-vertex skin indices/weights (up to
// four influences per vertex) and groups them by bone index. A vertex with
// a zero weight for a given bone slot contributes nothing to that bone's
// cluster. A vertex whose four slots reference the same bone more than once
// has its weights for that bone summed rather than listed twice, so a
// cluster never carries the same vertex index more than once.
func (e *encoder) gatherClusterData(mesh *scene.Mesh) map[int]*clusterData {
	out := make(map[int]*clusterData)
	for vertIdx := range mesh.Positions {
		if vertIdx >= len(mesh.SkinIndices) || vertIdx >= len(mesh.SkinWeights) {
			continue
		}
		boneIdxs := mesh.SkinIndices[vertIdx]
		boneWeights := mesh.SkinWeights[vertIdx]

		weightByBone := make(map[int]float64)
		var boneOrder []int
		for slot := 0; slot < 4; slot++ {
			w := boneWeights[slot]
			if w <= 0 {
				continue
			}
			boneIdx := int(boneIdxs[slot])
			if _, seen := weightByBone[boneIdx]; !seen {
				boneOrder = append(boneOrder, boneIdx)
			}
			weightByBone[boneIdx] += float64(w)
		}

		for _, boneIdx := range boneOrder {
			cd, ok := out[boneIdx]
			if !ok {
				cd = &clusterData{}
				out[boneIdx] = cd
			}
			cd.indices = append(cd.indices, int32(vertIdx))
			cd.weights = append(cd.weights, weightByBone[boneIdx])
		}
	}
	return out
}

// boneTransformLink returns the matrix a Cluster's TransformLink should
// carry: the mesh's bind matrix composed with the bone's bind-time inverse,
// inverted back to its bind pose, if present; otherwise the bone node's
// current world matrix.
func (e *encoder) boneTransformLink(bone scene.Bone, meshBind mgl32.Mat4) mgl32.Mat4 {
	if bone.HasInverseBindMatrix {
		return meshBind.Mul4(bone.InverseBindMatrix.Inv())
	}
	return bone.Node.WorldMatrix
}

func flattenMat4(m mgl32.Mat4) []float64 {
	f := common.Mat4ToFloat64(m)
	return f[:]
}

func buildPoseNode(modelID uint64, matrix mgl32.Mat4) *Node {
	return NewNode("PoseNode").Add(
		NewNode("Node", Int64(int64(modelID))),
		NewNode("Matrix", Float64Array(flattenMat4(matrix))),
	)
}

// buildBindPose emits the single BindPose object covering a skinned mesh's
// armature root (if any), the mesh itself, and every bone with a cluster.
func (e *encoder) buildBindPose(meshNode *scene.Node, meshModelID uint64, skel *scene.Skeleton, bonePoses []*Node) {
	id := e.reg.ids.alloc()
	e.reg.bindPoseID[meshNode] = id

	poseNodes := []*Node{
		buildPoseNode(meshModelID, common.ScaleTranslation(meshNode.Mesh.Skin.BindMatrix, e.opts.Scale)),
	}
	if armatureID, ok := e.armatureModelID[skel]; ok && armatureID != 0 {
		poseNodes = append(poseNodes, buildPoseNode(armatureID, common.ScaleTranslation(e.armatureWorldMatrix[skel], e.opts.Scale)))
	}
	poseNodes = append(poseNodes, bonePoses...)

	pose := NewNode("Pose", String(nameWithClass(meshNode.Name+"_BindPose", "Pose")), String("BindPose")).Add(
		NewNode("Type", String("BindPose")),
		NewNode("Version", Int32(100)),
		NewNode("NbPoseNodes", Int32(int32(len(poseNodes)))),
	)
	pose.Add(poseNodes...)
	e.addObject("Pose", id, pose)
	e.connectOO(id, meshModelID)
}
