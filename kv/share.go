package kv

// Shared is a cloneable handle to a single underlying store, allowing the
// store to be read from and written to by multiple consumers within one
// goroutine.
//
// It is safe to clone a Shared since Get, Put, and Delete each acquire the
// underlying store only for the duration of that single call, so there is
// never more than one handle using the store at a time. Reentering the
// handle (or any clone of it) from within one of its own in-flight calls
// is a logic error and panics rather than silently corrupting state.
type Shared struct {
	cell *cell
}

// cell is the shared interior of every clone of one handle.
type cell struct {
	store Store
	refs  int
	busy  bool
}

var _ Store = (*Shared)(nil)

// Share takes ownership of store and returns a cloneable handle to it.
func Share(store Store) *Shared {
	return &Shared{cell: &cell{store: store, refs: 1}}
}

// Clone returns a new handle over the same underlying store. All clones
// observe each other's writes immediately. O(1).
func (s *Shared) Clone() *Shared {
	s.cell.refs++
	return &Shared{cell: s.cell}
}

// Close releases this handle. Closing the last outstanding handle releases
// the underlying store, closing it if the backend holds external
// resources. Operations on a closed handle panic.
func (s *Shared) Close() error {
	if s.cell.refs <= 0 {
		panic("kv: close of closed shared store handle")
	}
	s.cell.refs--
	if s.cell.refs > 0 {
		return nil
	}

	store := s.cell.store
	s.cell.store = nil
	if c, ok := store.(Closer); ok {
		return c.Close()
	}
	return nil
}

func (c *cell) acquire() Store {
	if c.store == nil {
		panic("kv: use of closed shared store handle")
	}
	if c.busy {
		panic("kv: reentrant access to shared store")
	}
	c.busy = true
	return c.store
}

func (c *cell) release() {
	c.busy = false
}

// Get returns the value stored at key. The underlying store is held for
// this call only.
func (s *Shared) Get(key []byte) ([]byte, error) {
	store := s.cell.acquire()
	defer s.cell.release()
	return store.Get(key)
}

// Put sets the value at key. The underlying store is held for this call only.
func (s *Shared) Put(key, value []byte) error {
	store := s.cell.acquire()
	defer s.cell.release()
	return store.Put(key, value)
}

// Delete removes key. The underlying store is held for this call only.
func (s *Shared) Delete(key []byte) error {
	store := s.cell.acquire()
	defer s.cell.release()
	return store.Delete(key)
}

// Sub returns a prefix view routed through this handle, so every leaf
// operation on the view still acquires the shared store per call.
func (s *Shared) Sub(segment []byte) Store {
	return NewPrefix(s, segment)
}
