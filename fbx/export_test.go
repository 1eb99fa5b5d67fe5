package fbx

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/scene"
)

func cubeMesh() *scene.Mesh {
	positions := []mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	indices := []uint32{
		0, 1, 2, 0, 2, 3,
		4, 6, 5, 4, 7, 6,
		0, 4, 5, 0, 5, 1,
		3, 2, 6, 3, 6, 7,
		1, 5, 6, 1, 6, 2,
		0, 3, 7, 0, 7, 4,
	}
	return &scene.Mesh{Positions: positions, Indices: indices}
}

func TestExportUnskinnedCubeProducesValidFrame(t *testing.T) {
	root := &scene.Node{
		Name: "Scene",
		Children: []*scene.Node{
			{Name: "Cube", Visible: true, Mesh: cubeMesh()},
		},
	}

	out, err := Export(root, WithScale(1), WithEmbedImages(false))
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if !bytes.HasPrefix(out, fbxMagicHeader) {
		t.Fatal("output does not start with magic header")
	}
	if !bytes.HasSuffix(out, fbxClosingMagic) {
		t.Fatal("output does not end with closing magic")
	}
}

func TestExportNilRootErrors(t *testing.T) {
	if _, err := Export(nil); err == nil {
		t.Fatal("expected error for nil root")
	}
}

func TestBuildGeometryPolygonClosure(t *testing.T) {
	e := newEncoder(defaultOptions(), &collection{})
	node := &scene.Node{Name: "Cube", Mesh: cubeMesh()}
	geom := e.buildGeometry(1, node)

	var pvi *Node
	for _, c := range geom.Children {
		if c.Name == "PolygonVertexIndex" {
			pvi = c
		}
	}
	if pvi == nil {
		t.Fatal("geometry missing PolygonVertexIndex")
	}

	indices := pvi.Properties[0].i32arr
	if len(indices)%3 != 0 {
		t.Fatalf("index count %d is not a multiple of 3", len(indices))
	}
	numVerts := len(node.Mesh.Positions)
	for i := 0; i < len(indices); i += 3 {
		if indices[i] < 0 || indices[i+1] < 0 {
			t.Errorf("triangle %d: non-terminal indices must be non-negative, got %d, %d", i/3, indices[i], indices[i+1])
		}
		if indices[i+2] >= 0 {
			t.Errorf("triangle %d: terminal index must be negative, got %d", i/3, indices[i+2])
		}
		vert := -indices[i+2] - 1
		if vert < 0 || int(vert) >= numVerts {
			t.Errorf("triangle %d: decoded terminal vertex %d out of range [0,%d)", i/3, vert, numVerts)
		}
	}
}

func TestAddObjectPrependsID(t *testing.T) {
	e := newEncoder(defaultOptions(), &collection{})
	n := NewNode("Model", String("Foo"), String("Null"))
	e.addObject("Model", 42, n)

	if n.Properties[0].Kind != kindInt64 || n.Properties[0].i64 != 42 {
		t.Fatalf("expected id 42 as n's first property, got %+v", n.Properties[0])
	}
	if len(n.Properties) != 3 {
		t.Fatalf("expected 3 properties (id, name, subtype), got %d", len(n.Properties))
	}
}
