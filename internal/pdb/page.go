package pdb

import (
	"encoding/binary"
	"errors"
)

// pageHeaderLen is the fixed page-header size (spec.md §4.6 "Page header
// (28 bytes)"). We lay the header out as seven little-endian u32 fields —
// kind, next page, sequence, row count, heap offset, free space, reserved
// — the reading that tiles exactly into 28 bytes.
const pageHeaderLen = 28

// errPageFull signals that a row (plus its heap strings) would not fit in
// the remaining free space of the current page; the caller must start a
// new page of the same kind (spec.md §4.6 "A page is sealed when a new
// row would exceed the free-space budget").
var errPageFull = errors.New("pdb: page full")

// page accumulates rows (growing from the low end) and heap string bytes
// (growing from the high end) for one fixed-size page (spec.md §4.6
// "Page").
type page struct {
	kind     uint32
	index    uint32
	sequence uint32
	pageLen  int

	rows    [][]byte
	rowsLen int

	heapEntries []heapEntry
	heapTop     int // absolute in-page offset where the heap currently starts
}

type heapEntry struct {
	offset int
	data   []byte
}

func newPage(kind, index, sequence uint32, pageLen int) *page {
	return &page{kind: kind, index: index, sequence: sequence, pageLen: pageLen, heapTop: pageLen}
}

// freeSpace is the gap between the row region and the heap region.
func (p *page) freeSpace() int {
	return p.heapTop - (pageHeaderLen + p.rowsLen)
}

// reserveStrings appends enc to the heap (in reservation order, growing
// downward) and returns each string's absolute in-page offset, without
// mutating the page if the reservation would not fit alongside rowLen more
// row bytes.
func (p *page) reserveStrings(rowLen int, strs [][]byte) ([]int, bool) {
	heapLen := 0
	for _, s := range strs {
		heapLen += len(s)
	}
	if p.freeSpace() < rowLen+heapLen {
		return nil, false
	}

	offsets := make([]int, len(strs))
	top := p.heapTop
	for i, s := range strs {
		top -= len(s)
		offsets[i] = top
		p.heapEntries = append(p.heapEntries, heapEntry{offset: top, data: s})
	}
	p.heapTop = top
	return offsets, true
}

// addRow appends a fully-built row (its heap pointers already resolved to
// the offsets returned by reserveStrings) to the page's row region.
func (p *page) addRow(row []byte) {
	p.rows = append(p.rows, row)
	p.rowsLen += len(row)
}

// tryAddRow is the all-in-one path: it reserves heap space for strs,
// lets build construct the row bytes from the resulting offsets, and
// commits both only if everything fits. build must return a row of
// exactly rowLen bytes.
func (p *page) tryAddRow(rowLen int, strs [][]byte, build func(offsets []int) []byte) bool {
	offsets, ok := p.reserveStrings(rowLen, strs)
	if !ok {
		return false
	}
	row := build(offsets)
	if len(row) != rowLen {
		panic("pdb: row builder returned wrong length")
	}
	p.addRow(row)
	return true
}

// encode serialises the page to exactly pageLen bytes: header, row region,
// free-space gap (zero-filled), heap region.
func (p *page) encode(nextPageIndex uint32) []byte {
	buf := make([]byte, p.pageLen)

	binary.LittleEndian.PutUint32(buf[0:4], p.kind)
	binary.LittleEndian.PutUint32(buf[4:8], nextPageIndex)
	binary.LittleEndian.PutUint32(buf[8:12], p.sequence)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(p.rows)))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(p.heapTop))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(p.freeSpace()))
	binary.LittleEndian.PutUint32(buf[24:28], 0)

	off := pageHeaderLen
	for _, r := range p.rows {
		copy(buf[off:], r)
		off += len(r)
	}

	for _, h := range p.heapEntries {
		copy(buf[h.offset:], h.data)
	}

	return buf
}
