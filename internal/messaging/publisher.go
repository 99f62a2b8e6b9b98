package messaging

import "fmt"

// NatsPublisher delivers room composites to per-session NATS subjects. It
// satisfies game.Publisher.
type NatsPublisher struct {
	server *NatsServer
}

// NewNatsPublisher wraps a NatsServer for per-user message delivery.
func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) PublishToUser(sessionId string, data []byte) error {
	return p.server.Publish(fmt.Sprintf("user-%s", sessionId), data)
}
