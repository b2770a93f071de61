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

package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrStaleSubmission = errors.New("submission superseded by a newer one")

// Session serializes the submissions of one presentation client. Only the
// bundle of the most recently started submission is ever kept.
type Session struct {
	ID string

	pipeline  *Pipeline
	listeners []Listener

	lock       sync.RWMutex
	generation uint64
	state      State
	latest     *ResultBundle
}

func NewSession(id string, pipeline *Pipeline, listeners ...Listener) *Session {
	return &Session{
		ID:        id,
		pipeline:  pipeline,
		listeners: listeners,
		state:     StateIdle,
	}
}

// Submit runs the pipeline for raw. If another submission starts before this
// one settles the result is discarded and ErrStaleSubmission is returned along
// with the unapplied bundle.
func (s *Session) Submit(ctx context.Context, raw string) (*ResultBundle, error) {
	sub := s.begin(raw)
	for _, l := range s.listeners {
		l.SubmissionStarted(ctx, sub)
	}

	bundle := s.pipeline.run(ctx, sub, func(state State) {
		s.transition(sub.Generation, state)
	})

	if !s.commit(bundle) {
		log.Info().Str("Session", s.ID).Uint64("Generation", bundle.Generation).Msg("discarding stale submission")
		return bundle, ErrStaleSubmission
	}

	if bundle.FailedEntirely() {
		for _, l := range s.listeners {
			l.SubmissionFailed(ctx, bundle)
		}
	}
	for _, l := range s.listeners {
		l.SubmissionCompleted(ctx, bundle)
	}

	return bundle, nil
}

// Latest returns the bundle of the last applied submission, nil if none
func (s *Session) Latest() *ResultBundle {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.latest
}

func (s *Session) State() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

func (s *Session) Generation() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.generation
}

func (s *Session) begin(raw string) Submission {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.generation++
	return Submission{
		ID:         uuid.New(),
		SessionID:  s.ID,
		Generation: s.generation,
		Raw:        raw,
		StartedAt:  time.Now(),
	}
}

func (s *Session) transition(generation uint64, state State) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if generation != s.generation {
		return
	}
	s.state = state
}

func (s *Session) commit(bundle *ResultBundle) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if bundle.Generation != s.generation {
		return false
	}
	s.latest = bundle
	return true
}

// Registry holds the sessions of all connected clients and when each was
// last used
type Registry struct {
	pipeline  *Pipeline
	listeners []Listener
	sessions  *haxmap.Map[string, *Session]
	lastSeen  *haxmap.Map[string, time.Time]
}

func NewRegistry(pipeline *Pipeline, listeners ...Listener) *Registry {
	return &Registry{
		pipeline:  pipeline,
		listeners: listeners,
		sessions:  haxmap.New[string, *Session](),
		lastSeen:  haxmap.New[string, time.Time](),
	}
}

// Open returns the session for id, creating it if needed. An empty id creates a
// session with a fresh identifier.
func (r *Registry) Open(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	session, _ := r.sessions.GetOrSet(id, NewSession(id, r.pipeline, r.listeners...))
	r.lastSeen.Set(id, time.Now())
	return session
}

// Lookup returns an existing session and never creates one
func (r *Registry) Lookup(id string) (*Session, bool) {
	session, ok := r.sessions.Get(id)
	if ok {
		r.lastSeen.Set(id, time.Now())
	}
	return session, ok
}

// Close forgets the session for id
func (r *Registry) Close(id string) {
	r.sessions.Del(id)
	r.lastSeen.Del(id)
}

// Len is the number of open sessions
func (r *Registry) Len() int {
	return int(r.sessions.Len())
}

// ExpireBefore closes every session not used since cutoff and returns how many
// were closed
func (r *Registry) ExpireBefore(cutoff time.Time) int {
	stale := make([]string, 0)
	r.lastSeen.ForEach(func(id string, seen time.Time) bool {
		if seen.Before(cutoff) {
			stale = append(stale, id)
		}
		return true
	})

	for _, id := range stale {
		r.Close(id)
	}

	if len(stale) > 0 {
		log.Info().Int("Expired", len(stale)).Int("Remaining", r.Len()).Msg("expired idle sessions")
	}
	return len(stale)
}

// ExpireIdle closes sessions idle for longer than maxIdle
func (r *Registry) ExpireIdle(maxIdle time.Duration) int {
	return r.ExpireBefore(time.Now().Add(-maxIdle))
}
