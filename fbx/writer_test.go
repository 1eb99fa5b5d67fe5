package fbx

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeMagicHeaderAndFooter(t *testing.T) {
	out := Encode(nil)

	wantHeader := append(append([]byte{}, fbxMagicHeader...), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(wantHeader[len(fbxMagicHeader):], fbxVersion)
	if !bytes.HasPrefix(out, wantHeader) {
		t.Fatalf("output does not start with magic header + version: got %x", out[:len(wantHeader)])
	}

	if !bytes.HasSuffix(out, fbxClosingMagic) {
		t.Fatalf("output does not end with closing magic: got %x", out[len(out)-16:])
	}
}

func TestEncodeNullRecordTerminatesTopLevel(t *testing.T) {
	out := Encode([]*Node{NewNode("Foo", Int32(1))})

	afterHeader := out[len(fbxMagicHeader)+4:]
	// Foo's own framing (no children, not forced-sentinel) carries no null
	// record; the 25 zero bytes immediately following it are the top-level
	// terminator Encode appends itself.
	endOffset := binary.LittleEndian.Uint64(afterHeader[:8])
	nullRecordStart := int(endOffset)
	nullRecord := out[nullRecordStart : nullRecordStart+25]
	for i, b := range nullRecord {
		if b != 0 {
			t.Fatalf("byte %d of top-level null record = %d, want 0", i, b)
		}
	}
}

func TestWriteNodeEndOffsetAndPropertyListLen(t *testing.T) {
	w := newWriter(64)
	n := NewNode("Hello", String("world"), Int32(42))
	w.writeNode(n)

	endOffset := binary.LittleEndian.Uint64(w.buf[0:8])
	if int(endOffset) != len(w.buf) {
		t.Fatalf("endOffset = %d, want %d (full buffer length)", endOffset, len(w.buf))
	}

	numProps := binary.LittleEndian.Uint64(w.buf[8:16])
	if numProps != 2 {
		t.Fatalf("numProperties = %d, want 2", numProps)
	}

	propListLen := binary.LittleEndian.Uint64(w.buf[16:24])
	nameLen := int(w.buf[24])
	if nameLen != len("Hello") {
		t.Fatalf("nameLen = %d, want %d", nameLen, len("Hello"))
	}

	propListStart := 25 + nameLen
	gotPropListLen := len(w.buf) - propListStart
	if int(propListLen) != gotPropListLen {
		t.Fatalf("propertyListLen = %d, want %d (actual bytes to end of buffer)", propListLen, gotPropListLen)
	}
}

func TestWriteNodeChildrenGetNullRecordSentinel(t *testing.T) {
	w := newWriter(64)
	parent := NewNode("Parent").Add(NewNode("Child"))
	w.writeNode(parent)

	// A node with children always gets a trailing 25-byte null record after
	// its last child, before endOffset is patched.
	endOffset := binary.LittleEndian.Uint64(w.buf[0:8])
	nullRecord := w.buf[int(endOffset)-25 : int(endOffset)]
	for i, b := range nullRecord {
		if b != 0 {
			t.Fatalf("byte %d of child-bearing node's null record = %d, want 0", i, b)
		}
	}
}

func TestWriteNodeForcedSentinelWithoutChildren(t *testing.T) {
	w := newWriter(64)
	n := NewNode("AnimationStack", String("x"))
	w.writeNode(n)

	endOffset := binary.LittleEndian.Uint64(w.buf[0:8])
	if int(endOffset) != len(w.buf) {
		t.Fatalf("endOffset mismatch: %d vs %d", endOffset, len(w.buf))
	}
	nullRecord := w.buf[len(w.buf)-25:]
	for i, b := range nullRecord {
		if b != 0 {
			t.Fatalf("byte %d of forced-sentinel null record = %d, want 0", i, b)
		}
	}
}

func TestEmptyTypedArrayAlwaysUsesDTag(t *testing.T) {
	w := newWriter(32)
	w.writeProperty(Int32Array(nil))

	if w.buf[0] != 'd' {
		t.Fatalf("empty array tag = %q, want 'd'", w.buf[0])
	}
	count := binary.LittleEndian.Uint32(w.buf[1:5])
	encoding := binary.LittleEndian.Uint32(w.buf[5:9])
	byteLen := binary.LittleEndian.Uint32(w.buf[9:13])
	if count != 0 || encoding != 0 || byteLen != 0 {
		t.Fatalf("empty array header = (%d, %d, %d), want (0, 0, 0)", count, encoding, byteLen)
	}
}

func TestWriteFooterPadsToAlignment(t *testing.T) {
	w := newWriter(64)
	w.writeFooter()

	// fileID(16) + zeros(4) + pad + version(4) + zeros(120) + closingMagic(16)
	// must leave the buffer's length a multiple of 16 up through the padded
	// boundary preceding the version slot.
	preVersion := 16 + 4
	pad := 16 - (preVersion % 16)
	versionOffset := preVersion + pad
	if versionOffset%16 != 0 {
		t.Fatalf("version slot offset %d is not 16-byte aligned", versionOffset)
	}
	got := binary.LittleEndian.Uint32(w.buf[versionOffset : versionOffset+4])
	if got != fbxVersion {
		t.Fatalf("version slot = %d, want %d", got, fbxVersion)
	}
}
