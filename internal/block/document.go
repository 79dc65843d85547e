package block

import "sync/atomic"

var revisions atomic.Uint64

// Document owns the ordered item sequence of one render pass.
// It is never mutated after construction; content changes build a new Document.
type Document struct {
	items    []Item
	revision uint64
}

// NewDocument copies items into a new immutable document
func NewDocument(items ...Item) *Document {
	owned := make([]Item, len(items))
	copy(owned, items)
	return &Document{
		items:    owned,
		revision: revisions.Add(1),
	}
}

// Items returns a copy of the item sequence
func (d *Document) Items() []Item {
	out := make([]Item, len(d.items))
	copy(out, d.items)
	return out
}

// Blocks returns the content blocks in document order, markers removed
func (d *Document) Blocks() []*ContentBlock {
	blocks := make([]*ContentBlock, 0, len(d.items))
	for _, item := range d.items {
		if b, ok := item.(*ContentBlock); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Len returns the number of items, markers included
func (d *Document) Len() int {
	return len(d.items)
}

// Revision identifies this document among all documents built by the process.
// Later documents have higher revisions.
func (d *Document) Revision() uint64 {
	return d.revision
}
