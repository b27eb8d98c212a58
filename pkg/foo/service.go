package foo

//go:generate busgen service.go

import "github.com/google/uuid"

//bus:service
type Service interface {
	// Create stores a new Foo. An empty id is replaced with a generated one.
	//bus:action save create
	Create(id, bar string) (Foo, error)
	// Find fails with ErrFooNotFound when no Foo has the id.
	//bus:action find
	Find(id string) (Foo, error)
}

type service struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return service{
		repository: repository,
	}
}

func (s service) Create(id, bar string) (Foo, error) {
	if id == "" {
		id = uuid.NewString()
	}
	foo := Foo{
		ID:  id,
		Bar: bar,
	}
	s.repository.Put(foo)
	return foo, nil
}

func (s service) Find(id string) (Foo, error) {
	foo, ok := s.repository.Get(id)
	if !ok {
		return Foo{}, ErrFooNotFound
	}
	return foo, nil
}
