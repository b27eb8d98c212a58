package foo

import "github.com/orangootan/busproxy/pkg/bus"

// Client calls the foo service bound at an address. Its calls never block;
// each returns a future resolved by the reply.
type Client struct {
	proxy ServiceAsync
}

func NewClient(b *bus.Bus, address string) (*Client, error) {
	proxy, err := bus.Get[ServiceAsync](b, address)
	if err != nil {
		return nil, err
	}
	return &Client{
		proxy: proxy,
	}, nil
}

func (c *Client) Save(foo Foo) *bus.Future[Foo] {
	return c.proxy.Create(foo.ID, foo.Bar)
}

// FindByID fails with ErrFooNotFound when the id is unknown; use IsNotFound
// to tell it apart from other failures.
func (c *Client) FindByID(id string) *bus.Future[Foo] {
	return c.proxy.Find(id)
}
