package middleware

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/playback"
)

var (
	mqttClient mqtt.Client
	brokerURL  = "tcp://0.0.0.0:1883" // Default MQTT broker URL
)

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// SetBrokerURL allows configuration of the MQTT broker URL
func SetBrokerURL(url string) {
	brokerURL = url
}

// CreateMQTTClient connects the server's MQTT client to the broker.
func CreateMQTTClient(clientName string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	opts.SetAutoReconnect(true)

	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized")
	return mqttClient, nil
}

// RenderCommand is the payload published to a display's command topic.
type RenderCommand struct {
	Action string               `json:"action"` // "render" or "clear"
	Item   *playback.RenderItem `json:"item,omitempty"`
}

// PlaybackEvent is what a device publishes on its events topic when an item
// finishes or fails. The generation must echo the render command's.
type PlaybackEvent struct {
	Event      string `json:"event"` // "finished" or "failed"
	Generation uint64 `json:"generation"`
}

func commandTopic(displayID int) string {
	return fmt.Sprintf("display/%d/commands", displayID)
}

// MQTTRenderPort implements playback.RenderPort by publishing render
// commands to per-display topics.
type MQTTRenderPort struct {
	client mqtt.Client
}

var _ playback.RenderPort = (*MQTTRenderPort)(nil)

func NewMQTTRenderPort(client mqtt.Client) *MQTTRenderPort {
	return &MQTTRenderPort{client: client}
}

func (p *MQTTRenderPort) Render(item playback.RenderItem) error {
	payload, err := json.Marshal(RenderCommand{Action: "render", Item: &item})
	if err != nil {
		return err
	}
	return p.publish(commandTopic(item.DisplayID), payload)
}

func (p *MQTTRenderPort) Clear(displayID int) error {
	payload, err := json.Marshal(RenderCommand{Action: "clear"})
	if err != nil {
		return err
	}
	return p.publish(commandTopic(displayID), payload)
}

func (p *MQTTRenderPort) publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %v", topic, token.Error())
	}
	return nil
}

// SubscribePlaybackEvents routes device finished/failed reports from
// display/+/events into the playback engine. Malformed reports are logged
// and dropped; stale generations are discarded by the sequencer.
func SubscribePlaybackEvents(client mqtt.Client, engine *playback.Engine) error {
	token := client.Subscribe("display/+/events", 1, func(_ mqtt.Client, msg mqtt.Message) {
		displayID, ok := displayIDFromTopic(msg.Topic())
		if !ok {
			log.Warn().Str("topic", msg.Topic()).Msg("[mqtt] event on unparseable topic")
			return
		}
		var ev PlaybackEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Warn().Err(err).Int("display_id", displayID).Msg("[mqtt] malformed playback event")
			return
		}
		switch ev.Event {
		case "finished":
			engine.ItemFinished(displayID, ev.Generation)
		case "failed":
			engine.ItemFailed(displayID, ev.Generation)
		default:
			log.Warn().Str("event", ev.Event).Int("display_id", displayID).Msg("[mqtt] unknown playback event")
		}
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to subscribe to playback events: %v", token.Error())
	}
	return nil
}

func displayIDFromTopic(topic string) (int, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "display" || parts[2] != "events" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// CleanupMQTT disconnects the server's MQTT client.
func CleanupMQTT() {
	if mqttClient != nil {
		mqttClient.Disconnect(250)
		log.Info().Msg("MQTT client disconnected")
	}
}
