package bus

// ActionHandler runs the operation selected by action. decode fills the
// operation's params from the request body; the returned results become the
// reply body and a returned error becomes a failure reply.
type ActionHandler func(action string, decode func(params any) error) (results any, err error)

// Bind creates a consumer at address that serves handler. Body decoding
// errors reply with CodeBadRequest, errors that are not a Failure with
// CodeInternal.
func Bind(b *Bus, address string, handler ActionHandler) *Consumer {
	return b.Consumer(address, func(m *Message) {
		decode := func(params any) error {
			err := m.Decode(params)
			if err != nil {
				return NewFailure(CodeBadRequest, "Malformed body: "+err.Error())
			}
			return nil
		}
		results, err := handler(m.Action(), decode)
		if err != nil {
			m.FailWith(err)
			return
		}
		m.Reply(results)
	})
}
