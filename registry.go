package ecs

import "reflect"

// Registry owns entity allocation and multiplexes component pools. It is
// the only type application code constructs directly; sparseSet and Pool
// are internal to how a Registry stores things.
//
// A Registry is not safe for concurrent use. Callers that need
// cross-goroutine access must serialize it externally.
type Registry struct {
	schema Schema
	table  []Entity // dense array indexed by id; live or dead per slot
	free   uint64   // Q: id of the first dead slot, or schema.MaxEntities() (NULL) if none

	pools map[reflect.Type]poolHandle
}

// NewRegistry builds an empty Registry for the given Schema.
func NewRegistry(schema Schema) *Registry {
	return &Registry{
		schema: schema,
		free:   schema.MaxEntities(),
		pools:  make(map[reflect.Type]poolHandle),
	}
}

// NewDefaultRegistry builds a Registry using DefaultSchema.
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultSchema)
}

// Schema returns the entity width/split configuration this Registry was
// constructed with.
func (r *Registry) Schema() Schema {
	return r.schema
}

// --- Entity API -------------------------------------------------------

// Create allocates one entity: spawn if the free list is empty, revive
// from the head of the free list otherwise. Fails with
// ErrMaxEntitiesReached if spawning would exceed the schema's capacity.
func (r *Registry) Create() (Entity, error) {
	max := r.schema.MaxEntities()
	if r.free == max {
		return r.spawn(max)
	}
	return r.revive(), nil
}

func (r *Registry) spawn(max uint64) (Entity, error) {
	if uint64(len(r.table)) == max {
		return 0, maxEntitiesReachedErr(max)
	}
	e := r.schema.compose(uint64(len(r.table)), 0)
	r.table = append(r.table, e)
	return e, nil
}

// revive pops the free-list head i, whose table slot stores
// next_id | (next_gen << Split): next_id becomes the new free-list head,
// next_gen is the generation handed back out for this slot.
func (r *Registry) revive() Entity {
	i := r.free
	dead := r.table[i]
	g := r.schema.gen(dead)
	r.free = r.schema.id(dead)
	e := r.schema.compose(i, g)
	r.table[i] = e
	return e
}

// CreateMany allocates n entities in sequence, exactly as calling Create n
// times. n must be >= 1. If entity k fails to allocate, the entities
// already allocated (0..k-1) are returned alongside the error; there is
// no atomicity across the batch.
func (r *Registry) CreateMany(n int) ([]Entity, error) {
	if n < 1 {
		return nil, ErrInvalidBulkCount
	}
	created := make([]Entity, 0, n)
	for i := 0; i < n; i++ {
		e, err := r.Create()
		if err != nil {
			return created, err
		}
		created = append(created, e)
	}
	return created, nil
}

// Discard destroys e: every pool that contains e has it removed, then the
// slot is pushed onto the free list with its generation advanced. Fails
// with ErrInvalidEntity if e is not valid.
func (r *Registry) Discard(e Entity) error {
	if !r.IsValid(e) {
		return invalidEntityErr(e)
	}
	for _, p := range r.pools {
		p.removeIfPresent(e)
	}

	id := r.schema.id(e)
	nextGen := r.schema.nextGen(r.schema.gen(e))
	r.table[id] = r.schema.compose(r.free, nextGen)
	r.free = id
	return nil
}

// DiscardMany discards each entity in order, continuing past failures. The
// first error encountered, if any, is returned.
func (r *Registry) DiscardMany(entities []Entity) error {
	var first error
	for _, e := range entities {
		if err := r.Discard(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IsValid reports whether e names a currently live entity: it must have
// been spawned, and the table's current occupant of that slot must be
// exactly e.
func (r *Registry) IsValid(e Entity) bool {
	id := r.schema.id(e)
	return id < uint64(len(r.table)) && r.table[id] == e
}

// HasSpawned reports whether id(e) has ever been allocated a table slot,
// regardless of whether e is the slot's current occupant.
func (r *Registry) HasSpawned(e Entity) bool {
	return r.schema.id(e) < uint64(len(r.table))
}

// IdOf projects the id subfield of e.
func (r *Registry) IdOf(e Entity) uint64 {
	return r.schema.id(e)
}

// GenOf projects the generation subfield of e as it was composed.
func (r *Registry) GenOf(e Entity) uint64 {
	return r.schema.gen(e)
}

// CurrentGenOf returns the generation currently stored in e's table slot.
// Requires HasSpawned(e); fails with ErrInvalidEntity otherwise.
func (r *Registry) CurrentGenOf(e Entity) (uint64, error) {
	if !r.HasSpawned(e) {
		return 0, invalidEntityErr(e)
	}
	return r.schema.gen(r.table[r.schema.id(e)]), nil
}

// LiveCount returns the number of currently live entities. A slot is live
// iff its stored value's id subfield equals its own index.
func (r *Registry) LiveCount() int {
	live := 0
	for id := range r.table {
		if r.schema.id(r.table[id]) == uint64(id) {
			live++
		}
	}
	return live
}

// Capacity returns the number of table slots ever allocated, live or dead.
func (r *Registry) Capacity() int {
	return len(r.table)
}

// Describe renders e's id/generation pair using this Registry's schema.
func (r *Registry) Describe(e Entity) string {
	return prettyEntity(r.schema.id(e), r.schema.gen(e))
}

// --- Component API -----------------------------------------------------

func componentKey[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

func ensurePool[C any](r *Registry) *typedPool[C] {
	key := componentKey[C]()
	if h, ok := r.pools[key]; ok {
		return h.(*typedPool[C])
	}
	tp := newTypedPool[C](r.schema)
	r.pools[key] = tp
	return tp
}

func lookupPool[C any](r *Registry) (*typedPool[C], bool) {
	h, ok := r.pools[componentKey[C]()]
	if !ok {
		return nil, false
	}
	tp, ok := h.(*typedPool[C])
	return tp, ok
}

// Add attaches a component of type C to e, lazily creating C's pool on
// first use. v defaults to C's zero value when omitted. Fails with
// ErrInvalidEntity if e is not valid, or ErrEntityInPool if the pool
// already contains e.
func Add[C any](r *Registry, e Entity, v ...C) error {
	if !r.IsValid(e) {
		return invalidEntityErr(e)
	}
	tp := ensurePool[C](r)
	if tp.contains(e) {
		return entityInPoolErr(e, tp.name())
	}
	var value C
	if len(v) > 0 {
		value = v[0]
	}
	tp.pool.add(e, value)
	return nil
}

// Get returns a mutable reference to e's component of type C. Fails with
// ErrInvalidEntity, ErrPoolDoesNotExist, or ErrEntityNotInPool as
// applicable.
func Get[C any](r *Registry, e Entity) (*C, error) {
	if !r.IsValid(e) {
		return nil, invalidEntityErr(e)
	}
	tp, ok := lookupPool[C](r)
	if !ok {
		return nil, poolDoesNotExistErr(e, componentKey[C]().String())
	}
	if !tp.contains(e) {
		return nil, entityNotInPoolErr(e, tp.name())
	}
	return tp.pool.get(e), nil
}

// Contains reports whether e currently holds a component of type C.
func Contains[C any](r *Registry, e Entity) bool {
	if !r.IsValid(e) {
		return false
	}
	tp, ok := lookupPool[C](r)
	return ok && tp.contains(e)
}

// ContainsValue reports whether e holds a component of type C equal to v.
func ContainsValue[C comparable](r *Registry, e Entity, v C) bool {
	if !r.IsValid(e) {
		return false
	}
	tp, ok := lookupPool[C](r)
	if !ok || !tp.contains(e) {
		return false
	}
	return *tp.pool.get(e) == v
}

// Checker is a type-erased single-component predicate built by C, used to
// compose ContainsAll/ContainsAny across a tuple of component types. Go
// generics have no variadic type parameters, so the tuple is a slice of
// closures instead of a type list.
type Checker func(r *Registry, e Entity) bool

// C builds a Checker for component type T.
func C[T any]() Checker {
	return func(r *Registry, e Entity) bool {
		return Contains[T](r, e)
	}
}

// ContainsAll reports whether e satisfies every Checker.
func ContainsAll(r *Registry, e Entity, checks ...Checker) bool {
	for _, check := range checks {
		if !check(r, e) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether e satisfies at least one Checker.
func ContainsAny(r *Registry, e Entity, checks ...Checker) bool {
	for _, check := range checks {
		if check(r, e) {
			return true
		}
	}
	return false
}

// Remove detaches e's component of type C. Fails as Get does.
func Remove[C any](r *Registry, e Entity) error {
	if !r.IsValid(e) {
		return invalidEntityErr(e)
	}
	tp, ok := lookupPool[C](r)
	if !ok {
		return poolDoesNotExistErr(e, componentKey[C]().String())
	}
	if !tp.contains(e) {
		return entityNotInPoolErr(e, tp.name())
	}
	tp.pool.remove(e)
	return nil
}

// Modify overwrites e's component of type C with v. Fails as Get does.
func Modify[C any](r *Registry, e Entity, v C) error {
	if !r.IsValid(e) {
		return invalidEntityErr(e)
	}
	tp, ok := lookupPool[C](r)
	if !ok {
		return poolDoesNotExistErr(e, componentKey[C]().String())
	}
	if !tp.contains(e) {
		return entityNotInPoolErr(e, tp.name())
	}
	tp.pool.modify(e, v)
	return nil
}

// RemoveAll detaches every component e holds, across every pool the
// Registry has ever created. Pools that didn't contain e are untouched.
func (r *Registry) RemoveAll(e Entity) error {
	if !r.IsValid(e) {
		return invalidEntityErr(e)
	}
	for _, p := range r.pools {
		p.removeIfPresent(e)
	}
	return nil
}

// Mutator is a type-erased single-component add/remove/modify operation
// built by Set, Unset, or Update, used to apply a mixed add/remove/modify
// batch across a component tuple for one entity. Go generics have no
// variadic type parameters, so the tuple is a slice of closures, the same
// way Checker composes ContainsAll/ContainsAny.
type Mutator func(r *Registry, e Entity) error

// Set builds a Mutator that attaches component type T with value v, the
// Add operation.
func Set[T any](v T) Mutator {
	return func(r *Registry, e Entity) error {
		return Add[T](r, e, v)
	}
}

// Unset builds a Mutator that detaches component type T, the Remove
// operation.
func Unset[T any]() Mutator {
	return func(r *Registry, e Entity) error {
		return Remove[T](r, e)
	}
}

// Update builds a Mutator that overwrites component type T with value v,
// the Modify operation.
func Update[T any](v T) Mutator {
	return func(r *Registry, e Entity) error {
		return Modify[T](r, e, v)
	}
}

// ApplyTuple runs every Mutator against e in order, continuing past
// failures and returning the first error encountered. Combine Set/Unset/
// Update freely to add, remove, and modify several component types on one
// entity in a single call.
func ApplyTuple(r *Registry, e Entity, muts ...Mutator) error {
	var first error
	for _, m := range muts {
		if err := m(r, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// AddMany attaches the same value of type C to every entity in entities,
// continuing past failures and returning the first error encountered.
func AddMany[C any](r *Registry, entities []Entity, v C) error {
	var first error
	for _, e := range entities {
		if err := Add[C](r, e, v); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RemoveMany detaches C from every entity in entities, continuing past
// failures and returning the first error encountered.
func RemoveMany[C any](r *Registry, entities []Entity) error {
	var first error
	for _, e := range entities {
		if err := Remove[C](r, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ModifyMany overwrites C on every entity in entities with v, continuing
// past failures and returning the first error encountered.
func ModifyMany[C any](r *Registry, entities []Entity, v C) error {
	var first error
	for _, e := range entities {
		if err := Modify[C](r, e, v); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PoolLen reports how many entities currently hold a component of type C,
// or 0 if C's pool was never created.
func PoolLen[C any](r *Registry) int {
	tp, ok := lookupPool[C](r)
	if !ok {
		return 0
	}
	return tp.len()
}
