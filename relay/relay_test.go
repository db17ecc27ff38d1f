package relay

import (
	"encoding/json"
	"testing"

	"github.com/kwv/maptransform/transform"
)

func loadedConfig(t *testing.T) *transform.Config {
	t.Helper()
	c := transform.New()
	cand := transform.Candidate{
		Ref:         transform.MapDescriptor{Name: "ref", Size: transform.Size{W: 100, H: 100}},
		Robot:       transform.MapDescriptor{Name: "robot", Size: transform.Size{W: 100, H: 100}},
		Global:      transform.IdentityGlobalAffine(),
		RefPoints:   []transform.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		RobotPoints: []transform.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	}
	if err := c.Load(cand); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestNewRejectsUnloadedConfig(t *testing.T) {
	_, err := New(Config{
		Broker:         "tcp://localhost:1883",
		SubscribeTopic: "robot/pos",
		PublishTopic:   "ref/pos",
	}, transform.New())
	if err == nil {
		t.Fatal("New should reject an unloaded transform.Config")
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(Config{
		Broker:         "tcp://localhost:1883",
		SubscribeTopic: "robot/pos",
		PublishTopic:   "ref/pos",
	}, nil)
	if err == nil {
		t.Fatal("New should reject a nil transform.Config")
	}
}

func TestNewRejectsMissingBroker(t *testing.T) {
	_, err := New(Config{
		SubscribeTopic: "robot/pos",
		PublishTopic:   "ref/pos",
	}, loadedConfig(t))
	if err == nil {
		t.Fatal("New should reject a missing broker address")
	}
}

func TestNewRejectsMissingTopics(t *testing.T) {
	mcfg := loadedConfig(t)

	if _, err := New(Config{Broker: "tcp://localhost:1883", PublishTopic: "ref/pos"}, mcfg); err == nil {
		t.Error("New should reject a missing subscribe topic")
	}
	if _, err := New(Config{Broker: "tcp://localhost:1883", SubscribeTopic: "robot/pos"}, mcfg); err == nil {
		t.Error("New should reject a missing publish topic")
	}
}

func TestNewAcceptsValidConfig(t *testing.T) {
	r, err := New(Config{
		Broker:         "tcp://localhost:1883",
		SubscribeTopic: "robot/pos",
		PublishTopic:   "ref/pos",
	}, loadedConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r == nil {
		t.Fatal("New returned a nil Relay with no error")
	}
}

func TestHandleMessageTransformsAndRepublishes(t *testing.T) {
	mcfg := loadedConfig(t)
	r, err := New(Config{
		Broker:         "tcp://localhost:1883",
		SubscribeTopic: "robot/pos",
		PublishTopic:   "ref/pos",
		QoS:            1,
	}, mcfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	client := &mockClient{connected: true}
	payload, _ := json.Marshal(positionPayload{X: 0, Y: 0})
	r.handleMessage(client, &fakeMessage{topic: "robot/pos", payload: payload})

	published := client.publishedMessages()
	if len(published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(published))
	}
	if published[0].topic != "ref/pos" {
		t.Errorf("published topic = %q, want ref/pos", published[0].topic)
	}
	if published[0].qos != 1 {
		t.Errorf("published QoS = %d, want 1", published[0].qos)
	}

	var out positionPayload
	if err := json.Unmarshal(published[0].payload, &out); err != nil {
		t.Fatalf("decoding republished payload: %v", err)
	}
	if out.X != 0 || out.Y != 0 {
		t.Errorf("transformed position = (%g, %g), want (0, 0) for an identity-aligned mesh", out.X, out.Y)
	}
}

func TestHandleMessageIgnoresMalformedPayload(t *testing.T) {
	mcfg := loadedConfig(t)
	r, err := New(Config{
		Broker:         "tcp://localhost:1883",
		SubscribeTopic: "robot/pos",
		PublishTopic:   "ref/pos",
	}, mcfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	client := &mockClient{connected: true}
	r.handleMessage(client, &fakeMessage{topic: "robot/pos", payload: []byte("not json")})

	if len(client.publishedMessages()) != 0 {
		t.Error("a malformed payload should not produce a republished message")
	}
}
