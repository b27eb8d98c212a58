package foo

import (
	"github.com/google/uuid"
	"github.com/orangootan/busproxy/pkg/bus"
	"github.com/rs/zerolog"
)

// RoundTrip saves a Foo with a fresh id and bar, then finds it again and
// checks that bar came back unchanged.
func RoundTrip(c *Client, bar string, logger zerolog.Logger) *bus.Future[Foo] {
	saved := c.Save(Foo{
		ID:  uuid.NewString(),
		Bar: bar,
	})
	found := bus.Compose(saved, func(foo Foo) *bus.Future[Foo] {
		logger.Info().Stringer("foo", foo).Msg("Saved")
		return c.FindByID(foo.ID)
	})
	return bus.Map(found, func(foo Foo) (Foo, error) {
		logger.Info().Stringer("foo", foo).Msg("Found")
		if foo.Bar != bar {
			logger.Error().Str("got", foo.Bar).Str("want", bar).Msg("bar changed in the round trip")
			return foo, ErrUnexpectedBar
		}
		logger.Info().Msgf("Saved and found foo with bar=%s successfully.", foo.Bar)
		return foo, nil
	})
}
