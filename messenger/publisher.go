// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package messenger

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
)

const (
	EventStarted   = "started"
	EventFailed    = "failed"
	EventCompleted = "completed"
)

// SubmissionEvent is the payload published for each lifecycle event
type SubmissionEvent struct {
	Type         string    `json:"type"`
	SubmissionID string    `json:"submission_id"`
	SessionID    string    `json:"session_id,omitempty"`
	Generation   uint64    `json:"generation"`
	Raw          string    `json:"raw"`
	Tickers      []string  `json:"tickers,omitempty"`
	Loaded       int       `json:"loaded"`
	Errors       []string  `json:"errors,omitempty"`
	Time         time.Time `json:"time"`
}

var _ dashboard.Listener = (*Publisher)(nil)

// Publisher sends submission events to <subject>.<type>
type Publisher struct {
	conn    Conn
	subject string
}

func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: subject,
	}
}

func (p *Publisher) SubmissionStarted(_ context.Context, sub dashboard.Submission) {
	p.publish(SubmissionEvent{
		Type:         EventStarted,
		SubmissionID: sub.ID.String(),
		SessionID:    sub.SessionID,
		Generation:   sub.Generation,
		Raw:          sub.Raw,
		Time:         sub.StartedAt,
	})
}

func (p *Publisher) SubmissionFailed(_ context.Context, bundle *dashboard.ResultBundle) {
	p.publish(bundleEvent(EventFailed, bundle))
}

func (p *Publisher) SubmissionCompleted(_ context.Context, bundle *dashboard.ResultBundle) {
	p.publish(bundleEvent(EventCompleted, bundle))
}

func bundleEvent(eventType string, bundle *dashboard.ResultBundle) SubmissionEvent {
	return SubmissionEvent{
		Type:         eventType,
		SubmissionID: bundle.ID.String(),
		SessionID:    bundle.SessionID,
		Generation:   bundle.Generation,
		Raw:          bundle.Raw,
		Tickers:      bundle.Tickers,
		Loaded:       len(bundle.Metrics),
		Errors:       bundle.Errors,
		Time:         bundle.CompletedAt,
	}
}

// publish failures are logged and dropped
func (p *Publisher) publish(event SubmissionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("Type", event.Type).Msg("could not serialize event to JSON")
		return
	}

	subject := p.subject + "." + event.Type
	if err := p.conn.Publish(subject, payload); err != nil {
		log.Error().Err(err).Str("Subject", subject).Msg("could not publish submission event")
	}
}
