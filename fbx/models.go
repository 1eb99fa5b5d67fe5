package fbx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/common"
	"github.com/oxy-forge/oxyfbx/scene"
)

const radToDeg = 180.0 / math.Pi

// buildObjects emits a Model (plus, for meshes, Geometry/Material/Texture/
// Video) for every collected object, and wires each to its parent.
func (e *encoder) buildObjects() {
	for _, obj := range e.col.objects {
		switch obj.kind {
		case objLimbNode:
			e.buildBoneModel(obj.node)
		case objMesh:
			e.buildMeshModel(obj.node)
		default:
			e.buildNullModel(obj.node)
		}
	}
}

func (e *encoder) buildNullModel(n *scene.Node) {
	id := e.reg.allocModel(n)
	e.addObject("Model", id, e.modelNode(id, n.Name, "Null", n, false))
	e.connectOO(id, e.resolveParentModelID(n))
}

func (e *encoder) buildBoneModel(n *scene.Node) {
	id := e.reg.allocModel(n)
	name := normalizeMixamoName(n.Name)
	e.addObject("Model", id, e.modelNode(id, name, "LimbNode", n, true))

	naID := e.reg.ids.alloc()
	e.reg.nodeAttributeID[n] = naID
	e.addObject("NodeAttribute", naID, buildNodeAttribute(naID, name, "Skeleton"))
	e.connectOO(naID, id)

	parentID := e.resolveBoneParentModelID(n)
	e.connectOO(id, parentID)
}

// resolveBoneParentModelID returns the model id a bone's OO connection
// should target: its parent bone if that parent is a bone already allocated
// a model id, else the bone's skeleton's armature root, else the scene root.
func (e *encoder) resolveBoneParentModelID(boneNode *scene.Node) uint64 {
	if parent := e.col.parentOf[boneNode]; parent != nil && e.col.boneSet[parent] {
		if id, ok := e.reg.modelID[parent]; ok {
			return id
		}
	}
	for _, meshNode := range e.col.skinnedMeshes {
		skel := meshNode.Mesh.Skin.Skeleton
		for _, b := range skel.Bones {
			if b.Node == boneNode {
				if id, ok := e.armatureModelID[skel]; ok {
					return id
				}
			}
		}
	}
	return 0
}

func (e *encoder) buildMeshModel(n *scene.Node) {
	id := e.reg.allocModel(n)
	e.addObject("Model", id, e.modelNode(id, n.Name, "Mesh", n, false))
	e.connectOO(id, e.resolveParentModelID(n))

	geomID := e.reg.ids.alloc()
	e.reg.geometryID[n] = geomID
	e.addObject("Geometry", geomID, e.buildGeometry(geomID, n))
	e.connectOO(geomID, id)

	if !e.opts.ExportMaterials {
		return
	}

	mats := n.Mesh.Materials
	if len(mats) == 0 {
		mats = []scene.Material{{Name: n.Name + "_Material", Color: mgl32.Vec3{0.5, 0.5, 0.5}, Opacity: 1}}
	}

	// LayerElementMaterial always indexes slot 0; only the first slot is
	// ever referenced, so only it is emitted.
	mat := mats[0]
	matID := e.buildOrReuseMaterial(&mats[0], mat)
	e.connectOO(matID, id)

	if e.opts.EmbedImages && mat.Texture != nil {
		e.buildTextureBinding(mat.Texture, matID)
	}
}

func (e *encoder) buildOrReuseMaterial(key *scene.Material, mat scene.Material) uint64 {
	if id, ok := e.reg.materialID[key]; ok {
		return id
	}
	id := e.reg.ids.alloc()
	e.reg.materialID[key] = id

	color := common.Coalesce(mat.Color, mgl32.Vec3{0.5, 0.5, 0.5})
	opacity := common.Coalesce(mat.Opacity, 1)

	node := NewNode("Material", String(nameWithClass(mat.Name, "Material")), String("")).Add(
		NewNode("Version", Int32(102)),
		NewNode("ShadingModel", String("Lambert")),
		NewNode("MultiLayer", Int32(0)),
		NewNode("Properties70").Add(
			propertyP("ShadingModel", "KString", "", "", String("Lambert")),
			propertyP("EmissiveColor", "Color", "", "A", Float64(0), Float64(0), Float64(0)),
			propertyP("DiffuseColor", "Color", "", "A", Float64(float64(color.X())), Float64(float64(color.Y())), Float64(float64(color.Z()))),
			propertyP("TransparencyFactor", "Number", "", "A", Float64(float64(1-opacity))),
			propertyP("Opacity", "Number", "", "A", Float64(float64(opacity))),
		),
	)
	e.addObject("Material", id, node)
	return id
}

func (e *encoder) modelNode(id uint64, name, fbxKind string, n *scene.Node, isBone bool) *Node {
	t := n.Translation
	t = mgl32.Vec3{t.X() * e.opts.Scale, t.Y() * e.opts.Scale, t.Z() * e.opts.Scale}
	r := mgl32.Vec3{n.Rotation.X() * radToDeg, n.Rotation.Y() * radToDeg, n.Rotation.Z() * radToDeg}
	s := n.Scale

	props := NewNode("Properties70").Add(
		propertyP("RotationOrder", "enum", "", "", Int32(int32(n.RotationOrder))),
		propertyP("InheritType", "enum", "", "", Int32(1)),
		propertyP("Lcl Translation", "Lcl Translation", "", "A", Float64(float64(t.X())), Float64(float64(t.Y())), Float64(float64(t.Z()))),
		propertyP("Lcl Rotation", "Lcl Rotation", "", "A", Float64(float64(r.X())), Float64(float64(r.Y())), Float64(float64(r.Z()))),
		propertyP("Lcl Scaling", "Lcl Scaling", "", "A", Float64(float64(s.X())), Float64(float64(s.Y())), Float64(float64(s.Z()))),
	)
	if isBone {
		props.Add(
			propertyP("RotationActive", "bool", "", "", Bool(true)),
			propertyP("SegmentScaleCompensate", "bool", "", "", Bool(true)),
		)
	}

	return NewNode("Model", String(nameWithClass(name, "Model")), String(fbxKind)).Add(
		NewNode("Version", Int32(232)),
		props,
		NewNode("Shading", Bool(true)),
		NewNode("Culling", String("CullingOff")),
	)
}

func buildNodeAttribute(id uint64, name, typeFlags string) *Node {
	return NewNode("NodeAttribute", String(nameWithClass(name, "NodeAttribute")), String(typeFlags)).Add(
		NewNode("TypeFlags", String(typeFlags)),
	)
}

// buildGeometry emits positions (scaled), the polygon-vertex-index array
// with the last index of each triangle negated-minus-one, a per-polygon-
// vertex LayerElementNormal and LayerElementUV (each only when the mesh
// carries normals / UVs), a LayerElementMaterial (all zeros — single
// material slot per mesh), the Layer typed-index node, and, when skinning
// is active, the VertexGroups bone-name list.
func (e *encoder) buildGeometry(id uint64, n *scene.Node) *Node {
	mesh := n.Mesh
	scale := e.opts.Scale

	positions := make([]float64, 0, len(mesh.Positions)*3)
	for _, p := range mesh.Positions {
		positions = append(positions, float64(p.X()*scale), float64(p.Y()*scale), float64(p.Z()*scale))
	}

	indices := mesh.Indices
	if indices == nil {
		indices = make([]uint32, len(mesh.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	pvi := make([]int32, len(indices))
	for i, idx := range indices {
		if i%3 == 2 {
			pvi[i] = -int32(idx) - 1
		} else {
			pvi[i] = int32(idx)
		}
	}

	geom := NewNode("Geometry", String(nameWithClass(n.Name, "Geometry")), String("Mesh")).Add(
		NewNode("Properties70"),
		NewNode("GeometryVersion", Int32(124)),
		NewNode("Vertices", Float64Array(positions)),
		NewNode("PolygonVertexIndex", Int32Array(pvi)),
	)

	if len(mesh.Normals) > 0 {
		normals := make([]float64, 0, len(indices)*3)
		for _, idx := range indices {
			nv := mesh.Normals[idx]
			normals = append(normals, float64(nv.X()), float64(nv.Y()), float64(nv.Z()))
		}
		geom.Add(NewNode("LayerElementNormal", Int32(0)).Add(
			NewNode("Version", Int32(101)),
			NewNode("Name", String("")),
			NewNode("MappingInformationType", String("ByPolygonVertex")),
			NewNode("ReferenceInformationType", String("Direct")),
			NewNode("Normals", Float64Array(normals)),
		))
	}

	if len(mesh.UVs) > 0 {
		uvs := make([]float64, 0, len(indices)*2)
		for _, idx := range indices {
			uv := mesh.UVs[idx]
			uvs = append(uvs, float64(uv.X()), float64(uv.Y()))
		}
		geom.Add(NewNode("LayerElementUV", Int32(0)).Add(
			NewNode("Version", Int32(101)),
			NewNode("Name", String("")),
			NewNode("MappingInformationType", String("ByPolygonVertex")),
			NewNode("ReferenceInformationType", String("Direct")),
			NewNode("UV", Float64Array(uvs)),
		))
	}

	numPolygons := len(indices) / 3
	matIndices := make([]int32, numPolygons)
	geom.Add(NewNode("LayerElementMaterial", Int32(0)).Add(
		NewNode("Version", Int32(101)),
		NewNode("Name", String("")),
		NewNode("MappingInformationType", String("ByPolygon")),
		NewNode("ReferenceInformationType", String("IndexToDirect")),
		NewNode("Materials", Int32Array(matIndices)),
	))

	layer := NewNode("Layer", Int32(0)).Add(NewNode("Version", Int32(100)))
	if len(mesh.Normals) > 0 {
		layer.Add(NewNode("LayerElement").Add(NewNode("Type", String("LayerElementNormal")), NewNode("TypedIndex", Int32(0))))
	}
	if len(mesh.UVs) > 0 {
		layer.Add(NewNode("LayerElement").Add(NewNode("Type", String("LayerElementUV")), NewNode("TypedIndex", Int32(0))))
	}
	layer.Add(NewNode("LayerElement").Add(NewNode("Type", String("LayerElementMaterial")), NewNode("TypedIndex", Int32(0))))
	geom.Add(layer)

	if e.opts.ExportSkin && mesh.Skin != nil {
		names := make([]string, len(mesh.Skin.Skeleton.Bones))
		for i, b := range mesh.Skin.Skeleton.Bones {
			names[i] = normalizeMixamoName(b.Node.Name)
		}
		vg := NewNode("VertexGroups")
		for _, name := range names {
			vg.Add(NewNode("BoneName", String(name)))
		}
		geom.Add(vg)
	}

	return geom
}

// buildTextureBinding embeds tex (subject to the maxTextureSize downscale
// pipeline) as a Video node and a linking Texture node, connecting the Video
// to the Texture and the Texture to matID. A texture that failed to decode
// (logged by fitTextures) is omitted entirely, per the tolerant
// error-handling policy.
func (e *encoder) buildTextureBinding(tex *scene.Texture, matID uint64) {
	if id, ok := e.reg.textureID[tex]; ok {
		e.connectOP(id, matID, "DiffuseColor")
		return
	}

	png, ok := e.fittedTextures[tex]
	if !ok {
		return
	}

	sanitized := sanitizeTextureName(tex.Name)
	filename := sanitized + ".png"

	videoID := e.reg.ids.alloc()
	e.reg.videoID[tex] = videoID
	video := NewNode("Video", String(nameWithClass(sanitized, "Video")), String("Clip")).Add(
		NewNode("Properties70"),
		NewNode("Type", String("Clip")),
		NewNode("UseMipMap", Int32(0)),
		NewNode("Filename", String(filename)),
		NewNode("RelativeFilename", String(filename)),
		NewNode("Content", Raw(png)),
	)
	e.addObject("Video", videoID, video)

	texID := e.reg.ids.alloc()
	e.reg.textureID[tex] = texID
	textureNode := NewNode("Texture", String(nameWithClass(sanitized, "Texture")), String("")).Add(
		NewNode("Version", Int32(202)),
		NewNode("TextureName", String(nameWithClass(sanitized, "Texture"))),
		NewNode("Properties70"),
		NewNode("Media", String(nameWithClass(sanitized, "Video"))),
		NewNode("FileName", String(filename)),
		NewNode("RelativeFilename", String(filename)),
	)
	e.addObject("Texture", texID, textureNode)

	e.connectOO(videoID, texID)
	e.connectOP(texID, matID, "DiffuseColor")
}
