// Package anlz emits the tagged, big-endian per-track analysis files
// (.DAT/.EXT/.2EX) described in spec.md §4.5, grounded in
// original_source/exporter/cdj_anlz_exporter.py for the section
// catalogue and in spec.md's own byte tables for the exact layout.
// ALL MULTIBYTE INTEGERS HERE ARE BIG-ENDIAN; see internal/pdb for the
// inverted, little-endian sibling format. Per design note in spec.md §9,
// endianness helpers are never shared between the two packages.
package anlz

import "encoding/binary"

// containerHeaderLen is the PMAI container header size (spec.md §4.5
// "header length (4 bytes, big-endian, value = 28)").
const containerHeaderLen = 28

const magic = "PMAI"

// buildContainer assembles a complete analysis file from its sections,
// writing the PMAI header and back-patching the total file length.
func buildContainer(sections [][]byte) []byte {
	total := containerHeaderLen
	for _, s := range sections {
		total += len(s)
	}

	out := make([]byte, 0, total)
	header := make([]byte, containerHeaderLen)
	copy(header[0:4], magic)
	binary.BigEndian.PutUint32(header[4:8], uint32(containerHeaderLen))
	binary.BigEndian.PutUint32(header[8:12], uint32(total))
	// header[12:28] reserved, left zero.
	out = append(out, header...)

	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

// emitSection wraps payload with the four-byte tag plus the two
// big-endian length fields common to every section (spec.md §4.5
// "Sections", §9 design note on a uniform emit routine).
func emitSection(tag string, payload []byte) []byte {
	const sectionHeaderLen = 12
	out := make([]byte, sectionHeaderLen, sectionHeaderLen+len(payload))
	copy(out[0:4], tag)
	binary.BigEndian.PutUint32(out[4:8], uint32(sectionHeaderLen))
	binary.BigEndian.PutUint32(out[8:12], uint32(sectionHeaderLen+len(payload)))
	return append(out, payload...)
}
