package fbx

import (
	"encoding/binary"
	"math"
)

// fbxVersion is the FBX format version this writer targets (7500: all
// length fields are 64-bit).
const fbxVersion uint32 = 7500

// forcedSentinelNames always receive a null record sentinel even when they
// have no children.
var forcedSentinelNames = map[string]bool{
	"AnimationStack": true,
	"AnimationLayer": true,
}

var fbxMagicHeader = []byte{
	'K', 'a', 'y', 'd', 'a', 'r', 'a', ' ', 'F', 'B', 'X', ' ', 'B', 'i', 'n', 'a', 'r', 'y', ' ', ' ',
	0x00, 0x1A, 0x00,
}

var fbxFileIDFooter = []byte{
	0xFA, 0xBC, 0xAB, 0x09, 0xD0, 0xC8, 0xD4, 0x66, 0xB1, 0x76, 0xFB, 0x83, 0x1C, 0xF7, 0x26, 0x7E,
}

var fbxClosingMagic = []byte{
	0xF8, 0x5A, 0x8C, 0x6A, 0xDE, 0xF5, 0xD9, 0x7E, 0xEC, 0xE9, 0x0C, 0xE3, 0x75, 0x8F, 0x29, 0x0B,
}

// writer is the FBX binary writer: it walks a Node tree and emits the
// little-endian byte stream described by the node and property framing
// rules. It owns a single growing buffer; positions that need back-patching
// (endOffset, propertyListLen) are kept in local variables rather than
// threaded through return values.
type writer struct {
	buf []byte
}

func newWriter(capacityHint int) *writer {
	return &writer{buf: make([]byte, 0, capacityHint)}
}

// Encode serializes the fixed top-level sequence of children (in the given
// order) plus the file header and footer into a complete FBX 7500 byte
// stream.
//
// Parameters:
//   - topLevel: the top-level records, in the order they must appear
//
// Returns:
//   - []byte: the complete binary stream
func Encode(topLevel []*Node) []byte {
	w := newWriter(1 << 16)
	w.buf = append(w.buf, fbxMagicHeader...)
	w.writeU32(fbxVersion)

	for _, n := range topLevel {
		w.writeNode(n)
	}
	w.writeNullRecord()
	w.writeFooter()

	return w.buf
}

func (w *writer) writeU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// reserveU64 appends 8 zero bytes and returns their offset, to be patched
// later once the value they hold is known.
func (w *writer) reserveU64() int {
	pos := len(w.buf)
	w.buf = append(w.buf, 0, 0, 0, 0, 0, 0, 0, 0)
	return pos
}

func (w *writer) patchU64(pos int, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[pos:pos+8], v)
}

func (w *writer) writeZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

func (w *writer) writeNullRecord() {
	w.writeZeros(25)
}

// writeNode emits n's full framing: endOffset, numProperties,
// propertyListLen, name, properties, children, and (when applicable) the
// null record sentinel, patching endOffset and propertyListLen once their
// values are known.
func (w *writer) writeNode(n *Node) {
	endOffsetPos := w.reserveU64()
	w.writeU64(uint64(len(n.Properties)))
	propListLenPos := w.reserveU64()

	w.writeU8(byte(len(n.Name)))
	w.buf = append(w.buf, n.Name...)

	propListStart := len(w.buf)
	for _, p := range n.Properties {
		w.writeProperty(p)
	}
	w.patchU64(propListLenPos, uint64(len(w.buf)-propListStart))

	for _, c := range n.Children {
		w.writeNode(c)
	}

	if len(n.Children) > 0 || forcedSentinelNames[n.Name] {
		w.writeNullRecord()
	}

	w.patchU64(endOffsetPos, uint64(len(w.buf)))
}

func (w *writer) writeProperty(p Property) {
	switch p.Kind {
	case kindBool:
		w.writeU8('C')
		if p.b {
			w.writeU8(1)
		} else {
			w.writeU8(0)
		}
	case kindInt32:
		w.writeU8('I')
		w.writeU32(uint32(p.i32))
	case kindInt64:
		w.writeU8('L')
		w.writeU64(uint64(p.i64))
	case kindFloat32:
		w.writeU8('F')
		w.writeU32(math.Float32bits(p.f32))
	case kindFloat64:
		w.writeU8('D')
		w.writeU64(math.Float64bits(p.f64))
	case kindString:
		w.writeU8('S')
		w.writeU32(uint32(len(p.str)))
		w.buf = append(w.buf, p.str...)
	case kindRaw:
		w.writeU8('R')
		w.writeU32(uint32(len(p.raw)))
		w.buf = append(w.buf, p.raw...)
	case kindInt32Array:
		w.writeArrayHeaderOrEmpty('i', len(p.i32arr), 4, func() {
			for _, v := range p.i32arr {
				w.writeU32(uint32(v))
			}
		})
	case kindInt64Array:
		w.writeArrayHeaderOrEmpty('l', len(p.i64arr), 8, func() {
			for _, v := range p.i64arr {
				w.writeU64(uint64(v))
			}
		})
	case kindFloat32Array:
		w.writeArrayHeaderOrEmpty('f', len(p.f32arr), 4, func() {
			for _, v := range p.f32arr {
				w.writeU32(math.Float32bits(v))
			}
		})
	case kindFloat64Array:
		w.writeArrayHeaderOrEmpty('d', len(p.f64arr), 8, func() {
			for _, v := range p.f64arr {
				w.writeU64(math.Float64bits(v))
			}
		})
	case kindBoolArray:
		w.writeArrayHeaderOrEmpty('b', len(p.barr), 1, func() {
			for _, v := range p.barr {
				if v {
					w.writeU8(1)
				} else {
					w.writeU8(0)
				}
			}
		})
	}
}

// writeArrayHeaderOrEmpty writes the element-count/encoding/byte-length
// header for a typed array property and invokes writePayload to emit the
// elements, unless the array is empty, in which case it writes the
// zero-length 'd' tag form regardless of the array's real element kind.
func (w *writer) writeArrayHeaderOrEmpty(tag byte, count, elemSize int, writePayload func()) {
	if count == 0 {
		w.writeU8('d')
		w.writeU32(0)
		w.writeU32(0)
		w.writeU32(0)
		return
	}

	w.writeU8(tag)
	w.writeU32(uint32(count))
	w.writeU32(0) // encoding: always uncompressed
	w.writeU32(uint32(count * elemSize))
	writePayload()
}

func (w *writer) writeFooter() {
	w.buf = append(w.buf, fbxFileIDFooter...)
	w.writeZeros(4)

	pad := 16 - (len(w.buf) % 16)
	w.writeZeros(pad)

	w.writeU32(fbxVersion)
	w.writeZeros(120)
	w.buf = append(w.buf, fbxClosingMagic...)
}
