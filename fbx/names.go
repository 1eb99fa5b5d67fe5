package fbx

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// classNameSentinel is the byte sequence FBX uses to tag a model-layer name
// with the class it belongs to.
const classNameSentinel = "\x00\x01"

// nameWithClass appends the FBX class-name sentinel to n, producing the
// form FBX importers expect at the model layer: "<name>\x00\x01<ClassName>".
//
// Parameters:
//   - n: the base name
//   - class: the FBX class name, e.g. "Model", "Geometry", "Deformer"
//
// Returns:
//   - string: n with the sentinel-encoded class suffix
func nameWithClass(n, class string) string {
	return n + classNameSentinel + class
}

// mixamoPrefix matches Mixamo's un-colonized bone-name convention:
// "mixamorig" directly followed by an uppercase letter.
var mixamoPrefix = regexp.MustCompile(`^mixamorig[A-Z]`)

// normalizeMixamoName rewrites Mixamo rig names like "mixamorigHips" to
// "mixamorig:Hips". Names that are already colonized, or that don't match
// the Mixamo convention, pass through unchanged. Applied consistently
// wherever a bone name is written or resolved: vertex groups, cluster
// names, and animation track-to-bone lookups.
//
// Parameters:
//   - name: the candidate bone name
//
// Returns:
//   - string: the normalized name
func normalizeMixamoName(name string) string {
	if !mixamoPrefix.MatchString(name) {
		return name
	}
	return "mixamorig:" + name[len("mixamorig"):]
}

// sanitizeTextureName removes characters unsafe for a filesystem name,
// replacing each non-alphanumeric rune with '_'. An empty result is
// replaced with a generated "Texture_<hex>" name.
//
// Parameters:
//   - name: the candidate texture name
//
// Returns:
//   - string: a filesystem-safe name, never empty
func sanitizeTextureName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	sanitized := b.String()
	if sanitized == "" {
		return fmt.Sprintf("Texture_%08x", rand.Uint32())
	}
	return sanitized
}

// discardNamePattern matches editor-helper mesh names the collector skips:
// numbered placeholder meshes and common gizmo/widget naming conventions.
var discardNamePattern = regexp.MustCompile(`(?i)^(mesh_\d+|widget|handle|helper|bonevis)`)
