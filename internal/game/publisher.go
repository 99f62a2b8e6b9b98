package game

// Publisher delivers outgoing composites to a connected user's session
// channel. The session layer owns framing and delivery.
type Publisher interface {
	PublishToUser(sessionId string, data []byte) error
}
