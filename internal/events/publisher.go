// Package events publishes record-change notifications over MQTT so other
// agency tooling (dashboards, the front end's live views) can react without
// polling. Publishing is fire-and-forget: a broker outage never fails an
// API request.
package events

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Event is one record-change notification.
type Event struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher emits change events. A nil Publisher is valid and publishes
// nothing, which is the mode when MQTT_BROKER is unset.
type Publisher struct {
	client mqtt.Client
	prefix string
}

// Connect dials the MQTT broker named by MQTT_BROKER. It returns (nil, nil)
// when no broker is configured.
func Connect() (*Publisher, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("insurance-crm-server").
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	return &Publisher{client: client, prefix: "crm"}, nil
}

// Publish emits one change event on crm/<collection>/<action>.
func (p *Publisher) Publish(collection, action, recordID, employeeID string) {
	if p == nil {
		return
	}

	event := Event{
		Collection: collection,
		Action:     action,
		RecordID:   recordID,
		EmployeeID: employeeID,
		Timestamp:  time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("failed to marshal change event")
		return
	}

	topic := fmt.Sprintf("%s/%s/%s", p.prefix, collection, action)
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("topic", topic).Warn("failed to publish change event")
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
