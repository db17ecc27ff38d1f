package relay

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mockToken is a completed mqtt.Token carrying a fixed error, adapted from
// the teacher's multi-vacuum MQTT mock so handleMessage can be driven
// without a live broker.
type mockToken struct {
	err error
}

func (t *mockToken) Wait() bool                     { return true }
func (t *mockToken) WaitTimeout(time.Duration) bool { return true }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *mockToken) Error() error { return t.err }

// mockClient implements mqtt.Client, recording every Publish call instead
// of talking to a broker.
type mockClient struct {
	mu        sync.Mutex
	connected bool
	published []mockMessage
}

type mockMessage struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

func (c *mockClient) IsConnected() bool     { return c.connected }
func (c *mockClient) IsConnectionOpen() bool { return c.connected }
func (c *mockClient) Connect() mqtt.Token {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return &mockToken{}
}
func (c *mockClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}
func (c *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	var b []byte
	switch v := payload.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	}
	c.mu.Lock()
	c.published = append(c.published, mockMessage{topic: topic, payload: b, qos: qos, retain: retained})
	c.mu.Unlock()
	return &mockToken{}
}
func (c *mockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	return &mockToken{}
}
func (c *mockClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	return &mockToken{}
}
func (c *mockClient) Unsubscribe(topics ...string) mqtt.Token { return &mockToken{} }
func (c *mockClient) AddRoute(topic string, callback mqtt.MessageHandler) {}
func (c *mockClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

func (c *mockClient) publishedMessages() []mockMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]mockMessage, len(c.published))
	copy(out, c.published)
	return out
}

// fakeMessage implements mqtt.Message with a fixed topic/payload.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool     { return false }
func (m *fakeMessage) Qos() byte           { return 0 }
func (m *fakeMessage) Retained() bool      { return false }
func (m *fakeMessage) Topic() string       { return m.topic }
func (m *fakeMessage) MessageID() uint16   { return 0 }
func (m *fakeMessage) Payload() []byte     { return m.payload }
func (m *fakeMessage) Ack()                {}
func (m *fakeMessage) AutoAckOff()         {}
func (m *fakeMessage) AutoAckOn()          {}
func (m *fakeMessage) SetAutoAck(bool)     {}
func (m *fakeMessage) SetRetained(bool)    {}
func (m *fakeMessage) SetQoS(byte)         {}
func (m *fakeMessage) SetDuplicate(bool)   {}
func (m *fakeMessage) SetMessageID(uint16) {}
