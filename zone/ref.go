package zone

// Ptr is a payload address inside the zone's arena. Nil never names a payload.
type Ptr int32

// Nil is the zero Ptr.
const Nil Ptr = 0

// Ref is the caller-held cell that owns a block. Malloc stores the payload
// into it; the zone clears it when the block is evicted or released, so the
// owner must Load it again before every use instead of caching the Ptr.
type Ref struct {
	p Ptr
}

// Load returns the block the ref owns and whether it is still live.
// A false result means the block was evicted or freed.
func (r *Ref) Load() (Ptr, bool) {
	if r == nil {
		return Nil, false
	}
	return r.p, r.p != Nil
}

// Ptr returns the owned payload, or Nil.
func (r *Ref) Ptr() Ptr {
	if r == nil {
		return Nil
	}
	return r.p
}

// Valid reports whether the ref still owns a block.
func (r *Ref) Valid() bool {
	_, ok := r.Load()
	return ok
}

// release clears r only if it still points at p; a ref reused for a newer
// allocation keeps its new value.
func (r *Ref) release(p Ptr) {
	if r != nil && r.p == p {
		r.p = Nil
	}
}
