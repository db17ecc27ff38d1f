// Package relay republishes live robot-frame positions into the reference
// frame over MQTT, using a loaded transform.Config as the geometry engine.
// It supplements the core transform engine's deployment context (a robot
// publishing its position over MQTT) without any of that plumbing leaking
// into the engine itself.
package relay

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/kwv/maptransform/transform"
)

// Config describes how to connect to the broker and which topics to
// bridge.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string

	// SubscribeTopic carries robot-frame positions as JSON {"x":..,"y":..}.
	SubscribeTopic string
	// PublishTopic receives the same shape, transformed into the
	// reference frame.
	PublishTopic string

	QoS    byte
	Retain bool
}

// positionPayload is the wire shape exchanged on both topics.
type positionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Relay owns one MQTT client bridging SubscribeTopic to PublishTopic
// through a loaded transform.Config's ToRef query.
type Relay struct {
	client mqtt.Client
	cfg    Config
	mcfg   *transform.Config
}

// New builds a Relay. mcfg must already be loaded: a relay over an empty
// Config could never transform anything, so that is rejected up front
// rather than surfacing as a per-message logic fault later.
func New(cfg Config, mcfg *transform.Config) (*Relay, error) {
	if mcfg == nil || !mcfg.Loaded() {
		return nil, fmt.Errorf("relay: map transform config must be loaded before starting a relay")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("relay: broker address is required")
	}
	if cfg.SubscribeTopic == "" || cfg.PublishTopic == "" {
		return nil, fmt.Errorf("relay: both subscribe and publish topics are required")
	}

	r := &Relay{cfg: cfg, mcfg: mcfg}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "maptransform-relay"
	}
	opts.SetClientID(clientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false)
	opts.SetOrderMatters(false)

	opts.SetOnConnectHandler(r.onConnect)
	opts.SetConnectionLostHandler(r.onConnectionLost)

	r.client = mqtt.NewClient(opts)
	return r, nil
}

// Connect starts a background connection attempt with exponential backoff
// and returns immediately; connection status is logged as it changes.
func (r *Relay) Connect() {
	go r.connectWithRetry()
}

func (r *Relay) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("relay: connecting to MQTT broker...")
		token := r.client.Connect()
		if token.WaitTimeout(10*time.Second) && token.Error() == nil {
			log.Println("relay: connected to MQTT broker")
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("relay: connection failed: %v", err)
		} else {
			log.Println("relay: connection timeout")
		}

		log.Printf("relay: retrying in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

func (r *Relay) onConnect(client mqtt.Client) {
	log.Printf("relay: subscribing to %s", r.cfg.SubscribeTopic)
	token := client.Subscribe(r.cfg.SubscribeTopic, 0, r.handleMessage)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("relay: error subscribing to %s: %v", r.cfg.SubscribeTopic, token.Error())
	}
}

func (r *Relay) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("relay: connection interrupted (%v), auto-reconnect will retry", err)
}

func (r *Relay) handleMessage(client mqtt.Client, msg mqtt.Message) {
	var in positionPayload
	if err := json.Unmarshal(msg.Payload(), &in); err != nil {
		log.Printf("relay: malformed position payload on %s: %v", msg.Topic(), err)
		return
	}

	out, err := r.mcfg.ToRef(transform.Point{X: in.X, Y: in.Y})
	if err != nil {
		log.Printf("relay: transform query failed: %v", err)
		return
	}

	payload, err := json.Marshal(positionPayload{X: out.X, Y: out.Y})
	if err != nil {
		log.Printf("relay: marshaling transformed position: %v", err)
		return
	}

	token := client.Publish(r.cfg.PublishTopic, r.cfg.QoS, r.cfg.Retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		log.Printf("relay: publishing to %s: %v", r.cfg.PublishTopic, token.Error())
	}
}

// Disconnect gracefully closes the MQTT connection, if one was open.
func (r *Relay) Disconnect() {
	if r.client != nil && r.client.IsConnected() {
		log.Println("relay: disconnecting from MQTT broker...")
		r.client.Disconnect(250)
	}
}
