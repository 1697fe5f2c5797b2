package props

import (
	"sync"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

// Memo caches materialized rows per (model, handle).
//
// Clear advances a generation counter. Writers capture the generation before
// they start building and [Memo.Put] refuses rows from an older generation, so
// a row finished after a Clear never resurfaces.
type Memo struct {
	mu     sync.RWMutex
	gen    uint64
	models map[ifc.ModelID]map[ifc.Handle]*Row
}

// NewMemo returns an empty memo.
func NewMemo() *Memo {
	return &Memo{models: make(map[ifc.ModelID]map[ifc.Handle]*Row)}
}

// Get returns the cached row for h.
func (m *Memo) Get(model ifc.ModelID, h ifc.Handle) (*Row, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.models[model][h]
	return row, ok
}

// Generation returns the current generation.
func (m *Memo) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

// Put stores row if gen is still current and reports whether it did.
func (m *Memo) Put(gen uint64, model ifc.ModelID, h ifc.Handle, row *Row) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	rows, ok := m.models[model]
	if !ok {
		rows = make(map[ifc.Handle]*Row)
		m.models[model] = rows
	}
	rows[h] = row
	return true
}

// Clear drops every cached row of every model.
func (m *Memo) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.models = make(map[ifc.ModelID]map[ifc.Handle]*Row)
}

// Len returns the number of cached rows.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, rows := range m.models {
		n += len(rows)
	}
	return n
}
