package topic

import "sync/atomic"

// Holder publishes the current index. Reloads swap in a new instance; an index
// is never modified once stored.
type Holder struct {
	current atomic.Pointer[Index]
}

func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	if idx != nil {
		h.current.Store(idx)
	}
	return h
}

func (h *Holder) Load() *Index {
	return h.current.Load()
}

func (h *Holder) Swap(idx *Index) *Index {
	return h.current.Swap(idx)
}

func (h *Holder) Query(vector []float32, k int) ([]Match, error) {
	idx := h.current.Load()
	if idx == nil {
		return nil, ErrEmptyIndex
	}
	return idx.Query(vector, k)
}
