package canvas

// bucket is one ordered, id-keyed entity collection. Insertion order
// is draw order; lookups are O(1) through the index map.
type bucket[T Placeable] struct {
	order []T
	index map[string]int
}

func newBucket[T Placeable]() bucket[T] {
	return bucket[T]{index: make(map[string]int)}
}

// upsert inserts an unseen entity or replaces the one already stored
// under the same id, keeping its position in draw order.
func (b *bucket[T]) upsert(e T) {
	if i, ok := b.index[e.EntityID()]; ok {
		b.order[i] = e
		return
	}
	b.index[e.EntityID()] = len(b.order)
	b.order = append(b.order, e)
}

// remove is idempotent: removing an unknown id is a no-op.
func (b *bucket[T]) remove(id string) {
	i, ok := b.index[id]
	if !ok {
		return
	}
	b.order = append(b.order[:i], b.order[i+1:]...)
	delete(b.index, id)
	for j := i; j < len(b.order); j++ {
		b.index[b.order[j].EntityID()] = j
	}
}

func (b *bucket[T]) byID(id string) (T, bool) {
	var zero T
	if i, ok := b.index[id]; ok {
		return b.order[i], true
	}
	return zero, false
}

// replace swaps the whole collection for a fresh server list.
func (b *bucket[T]) replace(list []T) {
	b.order = b.order[:0]
	b.index = make(map[string]int, len(list))
	for _, e := range list {
		b.upsert(e)
	}
}

// Registry holds the four in-memory entity collections. All mutation
// goes through the owning Canvas on its update goroutine; nothing else
// writes here.
type Registry struct {
	tokens bucket[*Token]
	lights bucket[*LightSource]
	traps  bucket[*Trap]
	pois   bucket[*PointOfInterest]
}

func NewRegistry() *Registry {
	return &Registry{
		tokens: newBucket[*Token](),
		lights: newBucket[*LightSource](),
		traps:  newBucket[*Trap](),
		pois:   newBucket[*PointOfInterest](),
	}
}

func (r *Registry) UpsertToken(t *Token)         { r.tokens.upsert(t) }
func (r *Registry) UpsertLight(l *LightSource)   { r.lights.upsert(l) }
func (r *Registry) UpsertTrap(t *Trap)           { r.traps.upsert(t) }
func (r *Registry) UpsertPoi(p *PointOfInterest) { r.pois.upsert(p) }

func (r *Registry) RemoveToken(id string) { r.tokens.remove(id) }
func (r *Registry) RemoveLight(id string) { r.lights.remove(id) }
func (r *Registry) RemoveTrap(id string)  { r.traps.remove(id) }
func (r *Registry) RemovePoi(id string)   { r.pois.remove(id) }

func (r *Registry) TokenByID(id string) (*Token, bool)         { return r.tokens.byID(id) }
func (r *Registry) LightByID(id string) (*LightSource, bool)   { return r.lights.byID(id) }
func (r *Registry) TrapByID(id string) (*Trap, bool)           { return r.traps.byID(id) }
func (r *Registry) PoiByID(id string) (*PointOfInterest, bool) { return r.pois.byID(id) }

func (r *Registry) Tokens() []*Token         { return r.tokens.order }
func (r *Registry) Lights() []*LightSource   { return r.lights.order }
func (r *Registry) Traps() []*Trap           { return r.traps.order }
func (r *Registry) Pois() []*PointOfInterest { return r.pois.order }

func (r *Registry) ReplaceTokens(list []*Token)         { r.tokens.replace(list) }
func (r *Registry) ReplaceLights(list []*LightSource)   { r.lights.replace(list) }
func (r *Registry) ReplaceTraps(list []*Trap)           { r.traps.replace(list) }
func (r *Registry) ReplacePois(list []*PointOfInterest) { r.pois.replace(list) }

// FindByID resolves an entity within its kind namespace through the
// shared drag interface.
func (r *Registry) FindByID(kind Kind, id string) (Placeable, bool) {
	switch kind {
	case KindToken:
		if t, ok := r.tokens.byID(id); ok {
			return t, true
		}
	case KindLight:
		if l, ok := r.lights.byID(id); ok {
			return l, true
		}
	case KindTrap:
		if t, ok := r.traps.byID(id); ok {
			return t, true
		}
	case KindPoi:
		if p, ok := r.pois.byID(id); ok {
			return p, true
		}
	}
	return nil, false
}
