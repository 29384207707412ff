package state

import "sync"

// Buffer holds the last snapshot received from the authority. It is only
// ever replaced wholesale; there is no per-cell write.
type Buffer struct {
	cells []Symbol
	mu    sync.RWMutex
}

// NewBuffer returns an empty buffer. Len is zero until the first Replace.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Replace swaps in a new snapshot. The previous contents are discarded.
func (b *Buffer) Replace(s Snapshot) {
	cells := make([]Symbol, len(s))
	copy(cells, s)

	b.mu.Lock()
	b.cells = cells
	b.mu.Unlock()
}

// At returns the symbol at index i. Out-of-range reads return the default
// background symbol.
func (b *Buffer) At(i int) Symbol {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.cells) {
		return '0'
	}
	return b.cells[i]
}

// Len is the number of cells currently held.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cells)
}

// Loaded reports whether at least one snapshot has been applied.
func (b *Buffer) Loaded() bool {
	return b.Len() > 0
}

// Contains reports whether index addresses a cell of the current snapshot.
func (b *Buffer) Contains(index int) bool {
	return index >= 0 && index < b.Len()
}

// Snapshot returns a copy of the current contents.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(Snapshot, len(b.cells))
	copy(out, b.cells)
	return out
}
