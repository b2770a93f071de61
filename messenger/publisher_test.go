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

package messenger_test

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/messenger"
)

type message struct {
	subject string
	data    []byte
}

type fakeConn struct {
	messages []message
	err      error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message{subject, data})
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		conn      *fakeConn
		publisher *messenger.Publisher
		bundle    *dashboard.ResultBundle
	)

	BeforeEach(func() {
		conn = &fakeConn{}
		publisher = messenger.NewPublisher(conn, "theportfolio.submission")
		bundle = &dashboard.ResultBundle{
			ID:          uuid.New(),
			SessionID:   "abc",
			Generation:  2,
			Raw:         "AAPL,ZZZZ",
			Tickers:     []string{"AAPL", "ZZZZ"},
			Errors:      []string{dashboard.FetchErrorMessage("ZZZZ")},
			CompletedAt: time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC),
		}
	})

	It("publishes started events", func() {
		publisher.SubmissionStarted(context.Background(), dashboard.Submission{ID: bundle.ID, SessionID: "abc", Generation: 2, Raw: "AAPL"})

		Expect(conn.messages).To(HaveLen(1))
		Expect(conn.messages[0].subject).To(Equal("theportfolio.submission.started"))

		var event messenger.SubmissionEvent
		Expect(json.Unmarshal(conn.messages[0].data, &event)).To(Succeed())
		Expect(event.Type).To(Equal(messenger.EventStarted))
		Expect(event.SubmissionID).To(Equal(bundle.ID.String()))
		Expect(event.Generation).To(Equal(uint64(2)))
	})

	It("publishes completed and failed events with the bundle summary", func() {
		publisher.SubmissionFailed(context.Background(), bundle)
		publisher.SubmissionCompleted(context.Background(), bundle)

		Expect(conn.messages).To(HaveLen(2))
		Expect(conn.messages[0].subject).To(Equal("theportfolio.submission.failed"))
		Expect(conn.messages[1].subject).To(Equal("theportfolio.submission.completed"))

		var event messenger.SubmissionEvent
		Expect(json.Unmarshal(conn.messages[1].data, &event)).To(Succeed())
		Expect(event.Tickers).To(Equal([]string{"AAPL", "ZZZZ"}))
		Expect(event.Loaded).To(Equal(0))
		Expect(event.Errors).To(HaveLen(1))
		Expect(event.Time).To(Equal(bundle.CompletedAt))
	})

	It("swallows publish errors", func() {
		conn.err = errors.New("nats: connection closed")
		Expect(func() { publisher.SubmissionCompleted(context.Background(), bundle) }).ToNot(Panic())
		Expect(conn.messages).To(BeEmpty())
	})
})
