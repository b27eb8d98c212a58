package bus

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	proxiesLock sync.RWMutex
	proxies     = make(map[reflect.Type]func(i Instance) any)
)

// RegisterProxy records the constructor of the generated proxy for T, usually
// from the init function of a generated file.
func RegisterProxy[T any](create func(i Instance) any) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	proxiesLock.Lock()
	proxies[t] = create
	proxiesLock.Unlock()
}

// Instance is a handle on the service bound at Address. Generated proxies are
// defined on it.
type Instance struct {
	Address string
	bus     *Bus
	options []DeliveryOption
}

func NewInstance(b *Bus, address string, opts ...DeliveryOption) Instance {
	return Instance{
		Address: address,
		bus:     b,
		options: opts,
	}
}

func Get[T any](b *Bus, address string, opts ...DeliveryOption) (proxy T, err error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	proxiesLock.RLock()
	p, ok := proxies[t]
	proxiesLock.RUnlock()
	if !ok {
		err = fmt.Errorf("%w: %v", ErrProxyTypeNotFound, t)
		return
	}
	return p(NewInstance(b, address, opts...)).(T), nil
}

// Call sends params to the instance with the given action and decodes the
// reply body into T. A failure reply fails the future with the same Failure.
func Call[T any](i Instance, action string, params any) *Future[T] {
	opts := make([]DeliveryOption, 0, len(i.options)+1)
	opts = append(opts, i.options...)
	opts = append(opts, WithAction(action))
	reply := i.bus.Request(i.Address, params, opts...)
	return Map(reply, func(r Reply) (T, error) {
		var results T
		err := r.Decode(&results)
		if err != nil {
			return results, fmt.Errorf("decode %s reply from %s: %w", action, i.Address, err)
		}
		i.bus.logger.Debug().
			Str("component", "client").
			Str("address", i.Address).
			Str("action", action).
			Str("id", r.ID).
			Msg("received reply")
		return results, nil
	})
}
