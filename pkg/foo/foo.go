// Package foo is the record service served over the bus: an in-memory
// repository of Foo records, the service that creates and finds them, the
// endpoint that binds it to an address and the client that calls it.
package foo

import (
	"errors"
	"fmt"

	"github.com/orangootan/busproxy/pkg/bus"
)

// Address is where the foo service is bound unless configured otherwise.
const Address = "foo-service"

type Foo struct {
	ID  string `json:"id"`
	Bar string `json:"bar"`
}

func (f Foo) String() string {
	return fmt.Sprintf("Foo{id=%q, bar=%q}", f.ID, f.Bar)
}

var ErrFooNotFound = bus.NewFailure(bus.CodeNotFound, "Foo not found.")
var ErrUnexpectedBar = errors.New("Expecting input bar value.")

// IsNotFound reports whether err is the failure of a find for an absent id.
func IsNotFound(err error) bool {
	return bus.HasCode(err, bus.CodeNotFound)
}
