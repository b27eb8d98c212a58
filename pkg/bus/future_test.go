package bus

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func await[T any](t *testing.T, f *Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	value, err := f.Await(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("future did not resolve")
	}
	return value, err
}

func TestFutureCompletesOnce(t *testing.T) {
	f := NewFuture[int]()
	if f.IsDone() {
		t.Fatal("new future is done")
	}
	f.Complete(1)
	if f.TryComplete(2) {
		t.Error("second TryComplete succeeded")
	}
	if f.TryFail(errors.New("late")) {
		t.Error("TryFail after completion succeeded")
	}
	value, err := f.Result()
	if value != 1 || err != nil {
		t.Errorf("Result() = %d, %v; want 1, nil", value, err)
	}
}

func TestFutureDoubleCompletionPanics(t *testing.T) {
	tests := []struct {
		name   string
		second func(f *Future[int])
	}{
		{"complete", func(f *Future[int]) { f.Complete(2) }},
		{"fail", func(f *Future[int]) { f.Fail(errors.New("late")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Succeeded(1)
			defer func() {
				r := recover()
				if r != ErrAlreadyCompleted {
					t.Errorf("recover() = %v, want %v", r, ErrAlreadyCompleted)
				}
			}()
			tt.second(f)
		})
	}
}

func TestFutureOnComplete(t *testing.T) {
	f := NewFuture[string]()
	var got []string
	f.OnComplete(func(s string, err error) {
		got = append(got, "before:"+s)
	})
	f.Complete("x")
	f.OnComplete(func(s string, err error) {
		got = append(got, "after:"+s)
	})
	if len(got) != 2 || got[0] != "before:x" || got[1] != "after:x" {
		t.Errorf("callbacks = %v", got)
	}
}

func TestFutureAwaitContext(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Await() error = %v, want context.Canceled", err)
	}
	if f.IsDone() {
		t.Error("giving up on the wait resolved the future")
	}
	go f.Complete(7)
	value, err := await(t, f)
	if value != 7 || err != nil {
		t.Errorf("Await() = %d, %v; want 7, nil", value, err)
	}
}

func TestMap(t *testing.T) {
	boom := errors.New("boom")
	doubled, err := await(t, Map(Succeeded(2), func(i int) (int, error) { return i * 2, nil }))
	if doubled != 4 || err != nil {
		t.Errorf("Map() = %d, %v; want 4, nil", doubled, err)
	}
	called := false
	_, err = await(t, Map(Failed[int](boom), func(i int) (int, error) {
		called = true
		return i, nil
	}))
	if !errors.Is(err, boom) || called {
		t.Errorf("Map() on failure = %v, called %v", err, called)
	}
	_, err = await(t, Map(Succeeded(2), func(i int) (int, error) { return 0, boom }))
	if !errors.Is(err, boom) {
		t.Errorf("Map() error = %v, want %v", err, boom)
	}
}

func TestCompose(t *testing.T) {
	boom := errors.New("boom")
	inner := NewFuture[string]()
	composed := Compose(Succeeded(3), func(i int) *Future[string] {
		return inner
	})
	if composed.IsDone() {
		t.Fatal("composed future resolved before the inner one")
	}
	inner.Complete("three")
	value, err := await(t, composed)
	if value != "three" || err != nil {
		t.Errorf("Compose() = %q, %v", value, err)
	}
	called := false
	_, err = await(t, Compose(Failed[int](boom), func(i int) *Future[string] {
		called = true
		return Succeeded("")
	}))
	if !errors.Is(err, boom) || called {
		t.Errorf("Compose() on failure = %v, called %v", err, called)
	}
	_, err = await(t, Compose(Succeeded(1), func(i int) *Future[string] {
		return Failed[string](boom)
	}))
	if !errors.Is(err, boom) {
		t.Errorf("Compose() inner failure = %v", err)
	}
}

func TestRecover(t *testing.T) {
	missing := NewFailure(CodeNotFound, "missing")
	value, err := await(t, Recover(Failed[int](missing), func(err error) (int, error) {
		if HasCode(err, CodeNotFound) {
			return -1, nil
		}
		return 0, err
	}))
	if value != -1 || err != nil {
		t.Errorf("Recover() = %d, %v; want -1, nil", value, err)
	}
	_, err = await(t, Recover(Failed[int](errors.New("other")), func(err error) (int, error) {
		return 0, err
	}))
	if err == nil || err.Error() != "other" {
		t.Errorf("Recover() error = %v, want other", err)
	}
}

func TestCombinatorPanicFailsFuture(t *testing.T) {
	tests := []struct {
		name   string
		future func() *Future[int]
	}{
		{"map", func() *Future[int] {
			return Map(Succeeded(1), func(int) (int, error) { panic("boom") })
		}},
		{"compose", func() *Future[int] {
			return Compose(Succeeded(1), func(int) *Future[int] { panic("boom") })
		}},
		{"recover", func() *Future[int] {
			return Recover(Failed[int](errors.New("first")), func(error) (int, error) { panic("boom") })
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := await(t, tt.future())
			if !errors.Is(err, ErrCallbackPanicked) || !strings.Contains(err.Error(), "boom") {
				t.Errorf("error = %v, want %v", err, ErrCallbackPanicked)
			}
		})
	}
}

func TestMapPanicOverBus(t *testing.T) {
	b := New("")
	register(t, b.Consumer("svc", echo))
	mapped := Map(b.Request("svc", "x"), func(Reply) (int, error) { panic("boom") })
	if _, err := await(t, mapped); !errors.Is(err, ErrCallbackPanicked) {
		t.Errorf("error = %v, want %v", err, ErrCallbackPanicked)
	}
}
