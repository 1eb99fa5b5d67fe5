package fbx

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/scene"
)

// connKind distinguishes the two FBX connection edge kinds.
type connKind int

const (
	connOO connKind = iota // object-to-object
	connOP                 // object-to-property
)

type connection struct {
	kind     connKind
	src, dst uint64
	prop     string
}

// encoder carries all state shared across the node-builder, skinning, and
// animation stages for a single Export call. It is created fresh per call;
// nothing here is package-level, so independent concurrent exports never
// share state.
type encoder struct {
	opts *Options
	reg  *registry
	col  *collection

	objectsChildren  []*Node
	connections      []connection
	objectTypeCounts map[string]int

	// armatureModelID maps a skeleton to its synthesized Armature model id.
	// A recorded id of 0 means "no armature root; root bones connect to the
	// scene root directly".
	armatureModelID     map[*scene.Skeleton]uint64
	armatureWorldMatrix map[*scene.Skeleton]mgl32.Mat4

	// fittedTextures holds the worker-pool downscale pass's output, keyed by
	// texture identity. Populated by fitTextures before buildObjects runs;
	// a texture absent here failed to decode and is simply not embedded.
	fittedTextures map[*scene.Texture][]byte
}

func newEncoder(opts *Options, col *collection) *encoder {
	return &encoder{
		opts:                opts,
		reg:                 newRegistry(),
		col:                 col,
		objectTypeCounts:    make(map[string]int),
		armatureModelID:     make(map[*scene.Skeleton]uint64),
		armatureWorldMatrix: make(map[*scene.Skeleton]mgl32.Mat4),
	}
}

// addObject prepends id as n's leading Int64 property (every FBX object
// record's first property is its id, with Name and SubType following),
// appends n to the Objects node's children, and tallies its class for the
// Definitions section.
func (e *encoder) addObject(class string, id uint64, n *Node) {
	n.Properties = append([]Property{Int64(int64(id))}, n.Properties...)
	e.objectsChildren = append(e.objectsChildren, n)
	e.objectTypeCounts[class]++
}

func (e *encoder) connectOO(src, dst uint64) {
	e.connections = append(e.connections, connection{kind: connOO, src: src, dst: dst})
}

func (e *encoder) connectOP(src, dst uint64, prop string) {
	e.connections = append(e.connections, connection{kind: connOP, src: src, dst: dst, prop: prop})
}

// resolveParentModelID walks n's ancestor chain (via col.parentOf) until it
// finds an ancestor that was allocated a model id, returning that id, or 0
// (the scene root) if none of n's ancestors were collected as objects.
func (e *encoder) resolveParentModelID(n *scene.Node) uint64 {
	cur := e.col.parentOf[n]
	for cur != nil {
		if id, ok := e.reg.modelID[cur]; ok {
			return id
		}
		cur = e.col.parentOf[cur]
	}
	return 0
}

// build runs the node-builder, skinning, and animation stages over the
// collected objects and returns the assembled FBX node tree's top-level
// children, in the fixed order §4.1 requires.
func (e *encoder) build() []*Node {
	if e.opts.EmbedImages && e.opts.ExportMaterials {
		e.fittedTextures = e.fitTextures()
	}
	e.buildArmatures()
	e.buildObjects()
	if e.opts.ExportSkin {
		e.buildSkinning()
	}
	for i := range e.opts.Animations {
		e.buildAnimationClip(&e.opts.Animations[i])
	}

	return []*Node{
		e.buildFileID(),
		e.buildCreationTime(),
		e.buildCreator(),
		e.buildHeaderExtension(),
		e.buildGlobalSettings(),
		e.buildDocuments(),
		e.buildReferences(),
		e.buildDefinitions(),
		e.buildObjectsNode(),
		e.buildConnectionsNode(),
	}
}

func (e *encoder) buildFileID() *Node {
	return NewNode("FileId", Raw(fbxFileIDFooter))
}

func (e *encoder) buildCreationTime() *Node {
	return NewNode("CreationTime", String("1970-01-01 00:00:00:000"))
}

func (e *encoder) buildCreator() *Node {
	return NewNode("Creator", String("oxyfbx"))
}

func (e *encoder) buildHeaderExtension() *Node {
	timestamp := NewNode("CreationTimeStamp",
	).Add(
		NewNode("Version", Int32(1000)),
		NewNode("Year", Int32(1970)),
		NewNode("Month", Int32(1)),
		NewNode("Day", Int32(1)),
		NewNode("Hour", Int32(0)),
		NewNode("Minute", Int32(0)),
		NewNode("Second", Int32(0)),
		NewNode("Millisecond", Int32(0)),
	)

	return NewNode("FBXHeaderExtension").Add(
		NewNode("FBXHeaderVersion", Int32(1003)),
		NewNode("FBXVersion", Int32(int32(fbxVersion))),
		NewNode("EncryptionType", Int32(0)),
		timestamp,
		NewNode("Creator", String("oxyfbx")),
	)
}

func (e *encoder) buildGlobalSettings() *Node {
	props := NewNode("Properties70").Add(
		propertyP("UpAxis", "int", "Integer", "", Int32(1)),
		propertyP("UpAxisSign", "int", "Integer", "", Int32(1)),
		propertyP("FrontAxis", "int", "Integer", "", Int32(2)),
		propertyP("FrontAxisSign", "int", "Integer", "", Int32(1)),
		propertyP("CoordAxis", "int", "Integer", "", Int32(0)),
		propertyP("CoordAxisSign", "int", "Integer", "", Int32(1)),
		propertyP("OriginalUpAxis", "int", "Integer", "", Int32(-1)),
		propertyP("OriginalUpAxisSign", "int", "Integer", "", Int32(1)),
		propertyP("UnitScaleFactor", "double", "Number", "", Float64(1.0)),
		propertyP("OriginalUnitScaleFactor", "double", "Number", "", Float64(1.0)),
		propertyP("TimeSpanStart", "KTime", "Time", "", Int64(0)),
		propertyP("TimeSpanStop", "KTime", "Time", "", Int64(e.maxClipDurationKTime())),
		propertyP("TimeMode", "enum", "", "", Int32(0)),
		propertyP("CustomFrameRate", "double", "Number", "", Float64(-1.0)),
	)
	return NewNode("GlobalSettings").Add(NewNode("Version", Int32(1000)), props)
}

func (e *encoder) maxClipDurationKTime() int64 {
	var max int64
	for _, clip := range e.opts.Animations {
		kt := secondsToKTime(float64(clip.Duration))
		if kt > max {
			max = kt
		}
	}
	return max
}

func (e *encoder) buildDocuments() *Node {
	doc := NewNode("Document", Int64(1), String(""), String("Scene")).Add(
		NewNode("Properties70").Add(
			propertyP("SourceObject", "object", "", ""),
			propertyP("ActiveAnimStackName", "KString", "", "", String("")),
		),
		NewNode("RootNode", Int64(0)),
	)
	return NewNode("Documents").Add(NewNode("Count", Int32(1)), doc)
}

func (e *encoder) buildReferences() *Node {
	return NewNode("References")
}

func (e *encoder) buildDefinitions() *Node {
	total := 0
	for _, c := range e.objectTypeCounts {
		total += c
	}

	def := NewNode("Definitions").Add(
		NewNode("Version", Int32(100)),
		NewNode("Count", Int32(int32(total))),
	)

	// Stable iteration order for determinism: fixed class ordering, skip
	// classes with no instances.
	for _, class := range []string{
		"GlobalSettings", "Model", "NodeAttribute", "Geometry", "Material",
		"Texture", "Video", "Deformer", "Pose", "AnimationStack", "AnimationLayer",
		"AnimationCurveNode", "AnimationCurve",
	} {
		count := e.objectTypeCounts[class]
		if count == 0 {
			continue
		}
		def.Add(NewNode("ObjectType", String(class)).Add(NewNode("Count", Int32(int32(count)))))
	}

	return def
}

func (e *encoder) buildObjectsNode() *Node {
	return (&Node{Name: "Objects", Children: e.objectsChildren})
}

func (e *encoder) buildConnectionsNode() *Node {
	n := NewNode("Connections")
	for _, c := range e.connections {
		if c.kind == connOO {
			n.Add(NewNode("C", String("OO"), Int64(int64(c.src)), Int64(int64(c.dst))))
		} else {
			n.Add(NewNode("C", String("OP"), Int64(int64(c.src)), Int64(int64(c.dst)), String(c.prop)))
		}
	}
	return n
}

// propertyP builds a Properties70 "P" entry: name, data type, label, flags,
// then the value(s).
func propertyP(name, dataType, label, flags string, values ...Property) *Node {
	props := append([]Property{String(name), String(dataType), String(label), String(flags)}, values...)
	return NewNode("P", props...)
}
