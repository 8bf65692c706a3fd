// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit extends the functionalities of rsc.io/edit to
// implement eficient buffered editing of source documents.
// Edits are expressed in offsets of the original text, so a scanner can
// queue them while it walks the source, and all of them are applied with
// a single allocation at the end.
package sliceedit

import (
	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given source text.
type Buffer struct {
	ed    *edit.Buffer
	size  int
	edits int
}

// NewBuffer returns a new buffer to accumulate changes to an initial text.
func NewBuffer(src string) *Buffer {
	return &Buffer{
		ed:   edit.NewBuffer([]byte(src)),
		size: len(src),
	}
}

// Delete deletes the text in the range [start, end) of the original source.
func (b *Buffer) Delete(start, end int) {
	start, end = b.clamp(start, end)
	if start == end {
		return
	}
	b.ed.Delete(start, end)
	b.edits++
}

// Replace replaces the text in the range [start, end) with s.
// Ranges of queued edits must not overlap.
func (b *Buffer) Replace(start, end int, s string) {
	start, end = b.clamp(start, end)
	b.ed.Replace(start, end, s)
	b.edits++
}

// Insert inserts s at pos in the original source.
func (b *Buffer) Insert(pos int, s string) {
	pos, _ = b.clamp(pos, pos)
	b.ed.Insert(pos, s)
	b.edits++
}

// Len returns the number of edits queued so far.
func (b *Buffer) Len() int {
	return b.edits
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}

// Keep the ranges inside the source
func (b *Buffer) clamp(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > b.size {
		end = b.size
	}
	if end < start {
		end = start
	}
	return start, end
}
