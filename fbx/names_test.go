package fbx

import "testing"

func TestNormalizeMixamoName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"mixamorigHips", "mixamorig:Hips"},
		{"mixamorigLeftArm", "mixamorig:LeftArm"},
		{"mixamorig:Hips", "mixamorig:Hips"},
		{"Hips", "Hips"},
		{"mixamorig", "mixamorig"},
	}
	for _, c := range cases {
		if got := normalizeMixamoName(c.in); got != c.want {
			t.Errorf("normalizeMixamoName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNameWithClass(t *testing.T) {
	got := nameWithClass("Hips", "Model")
	want := "Hips" + classNameSentinel + "Model"
	if got != want {
		t.Errorf("nameWithClass = %q, want %q", got, want)
	}
}

func TestSanitizeTextureNameKeepsAlphanumeric(t *testing.T) {
	got := sanitizeTextureName("diffuse map #1.png")
	want := "diffuse_map__1_png"
	if got != want {
		t.Errorf("sanitizeTextureName = %q, want %q", got, want)
	}
}

func TestSanitizeTextureNameEmptyFallsBackToGenerated(t *testing.T) {
	got := sanitizeTextureName("")
	if got == "" {
		t.Fatal("sanitizeTextureName returned empty string")
	}
	if got[:len("Texture_")] != "Texture_" {
		t.Errorf("sanitizeTextureName fallback = %q, want Texture_<hex> form", got)
	}
}

func TestDiscardNamePattern(t *testing.T) {
	discard := []string{"mesh_0", "mesh_42", "Widget_Handle", "helper_bone", "BoneVis_Hips"}
	for _, name := range discard {
		if !discardNamePattern.MatchString(name) {
			t.Errorf("expected %q to match discard pattern", name)
		}
	}
	keep := []string{"Body", "Hair", "Eyes"}
	for _, name := range keep {
		if discardNamePattern.MatchString(name) {
			t.Errorf("expected %q not to match discard pattern", name)
		}
	}
}
