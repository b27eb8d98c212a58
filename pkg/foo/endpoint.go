package foo

import "github.com/orangootan/busproxy/pkg/bus"

// NewEndpoint builds the consumer that serves a Service over repository at
// address. It still has to be registered.
func NewEndpoint(b *bus.Bus, address string, repository Repository) *bus.Consumer {
	return bus.Bind(b, address, ServiceHandler(NewService(repository)))
}
