package foo

import "github.com/orangootan/busproxy/pkg/bus"

// Repository stores Foo records by id. Put overwrites an existing record with
// the same id.
type Repository interface {
	Put(foo Foo)
	Get(id string) (Foo, bool)
}

type InMemoryRepository struct {
	store bus.SyncMap[string, Foo]
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		store: bus.NewSyncMap[string, Foo](),
	}
}

func (r *InMemoryRepository) Put(foo Foo) {
	r.store.Put(foo.ID, foo)
}

func (r *InMemoryRepository) Get(id string) (Foo, bool) {
	return r.store.Get(id)
}

func (r *InMemoryRepository) Len() int {
	return r.store.Len()
}
