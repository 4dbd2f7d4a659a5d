/*
Copyright 2025 Reckon Ledger Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package audit

import (
	"log"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reckon-ledger/reckon/config"
	"github.com/reckon-ledger/reckon/internal/request"
	"github.com/reckon-ledger/reckon/model"
)

// Event is one immutable audit record. Events are emitted after the fact and
// never read back by the core; persistence belongs to whatever sink receives
// them.
type Event struct {
	EventID    string                 `json:"event_id"`
	Action     string                 `json:"action"`
	Entity     string                 `json:"entity"`
	EntityID   string                 `json:"entity_id"`
	Actor      string                 `json:"actor,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// NewEvent builds an audit event for an action performed on an entity.
func NewEvent(action, entity, entityID, actor string, data map[string]interface{}) Event {
	return Event{
		EventID:    model.GenerateUUIDWithSuffix("evt"),
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: time.Now(),
		Data:       data,
	}
}

// Record logs the event and forwards it to the configured audit webhook, if
// any. Delivery runs asynchronously so the calling operation never blocks on
// the sink; a failed delivery is logged and dropped, never retried here.
func Record(event Event) {
	go func(event Event) {
		logrus.WithFields(logrus.Fields{
			"event_id": event.EventID,
			"action":   event.Action,
			"entity":   event.Entity,
			"actor":    event.Actor,
		}).Info("audit event")

		conf, err := config.Fetch()
		if err != nil {
			log.Println(err)
			return
		}

		if conf.Audit.WebhookUrl != "" {
			deliver(conf.Audit.WebhookUrl, conf.Audit.Headers, event)
		}
	}(event)
}

// deliver posts the event to the sink endpoint.
func deliver(url string, headers map[string]string, event Event) {
	payload, err := request.ToJsonReq(&event)
	if err != nil {
		log.Println(err)
		return
	}

	req, err := http.NewRequest("POST", url, payload)
	if err != nil {
		log.Println(err)
		return
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	var response map[string]interface{}
	if _, err := request.Call(req, &response); err != nil {
		log.Println(err)
	}
}

// NotifyError logs a system error and forwards it to the audit sink as a
// failure event.
func NotifyError(systemError error) {
	logrus.Error(systemError)
	Record(Event{
		EventID:    model.GenerateUUIDWithSuffix("evt"),
		Action:     "system.error",
		Entity:     "system",
		OccurredAt: time.Now(),
		Data:       map[string]interface{}{"error": systemError.Error()},
	})
}
