package bus

import (
	"context"
	"fmt"
	"sync"
)

// Future is an eventual result that resolves exactly once, either with a value
// or with an error. Completing it a second time panics with ErrAlreadyCompleted;
// use TryComplete and TryFail where a late completion is expected.
type Future[T any] struct {
	lock      sync.Mutex
	done      chan struct{}
	completed bool
	value     T
	err       error
	callbacks []func(T, error)
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

func Succeeded[T any](value T) *Future[T] {
	f := NewFuture[T]()
	f.Complete(value)
	return f
}

func Failed[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Fail(err)
	return f
}

func (f *Future[T]) Complete(value T) {
	if !f.TryComplete(value) {
		panic(ErrAlreadyCompleted)
	}
}

func (f *Future[T]) Fail(err error) {
	if !f.TryFail(err) {
		panic(ErrAlreadyCompleted)
	}
}

func (f *Future[T]) TryComplete(value T) bool {
	return f.settle(value, nil)
}

func (f *Future[T]) TryFail(err error) bool {
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) settle(value T, err error) bool {
	f.lock.Lock()
	if f.completed {
		f.lock.Unlock()
		return false
	}
	f.completed = true
	f.value = value
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.lock.Unlock()
	for _, fn := range callbacks {
		fn(value, err)
	}
	return true
}

// Done is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) IsDone() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.completed
}

// Result returns the outcome without waiting. It is only meaningful once
// IsDone reports true.
func (f *Future[T]) Result() (T, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.value, f.err
}

// Await blocks until the future resolves or ctx is done. Giving up on the wait
// does not affect the future itself.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run once with the outcome. Callbacks run on the
// goroutine that completes the future, or immediately if it already has, so
// they must not block.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.lock.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, fn)
		f.lock.Unlock()
		return
	}
	value, err := f.value, f.err
	f.lock.Unlock()
	fn(value, err)
}

func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := NewFuture[U]()
	f.OnComplete(func(value T, err error) {
		if err != nil {
			next.Fail(err)
			return
		}
		mapped, err := safely(func() (U, error) { return fn(value) })
		if err != nil {
			next.Fail(err)
			return
		}
		next.Complete(mapped)
	})
	return next
}

// Compose chains a dependent asynchronous step: fn runs only after f succeeds.
func Compose[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	next := NewFuture[U]()
	f.OnComplete(func(value T, err error) {
		if err != nil {
			next.Fail(err)
			return
		}
		inner, err := safely(func() (*Future[U], error) { return fn(value), nil })
		if err != nil {
			next.Fail(err)
			return
		}
		inner.OnComplete(func(u U, err error) {
			if err != nil {
				next.Fail(err)
				return
			}
			next.Complete(u)
		})
	})
	return next
}

// Recover turns a failure into a value when fn can handle it; fn returns the
// original or a new error otherwise.
func Recover[T any](f *Future[T], fn func(error) (T, error)) *Future[T] {
	next := NewFuture[T]()
	f.OnComplete(func(value T, err error) {
		if err == nil {
			next.Complete(value)
			return
		}
		recovered, err := safely(func() (T, error) { return fn(err) })
		if err != nil {
			next.Fail(err)
			return
		}
		next.Complete(recovered)
	})
	return next
}

// safely runs a combinator callback, turning a panic into ErrCallbackPanicked
// so the downstream future still resolves.
func safely[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanicked, r)
		}
	}()
	return fn()
}
