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

	"github.com/rs/zerolog/log"
)

// Listener receives submission lifecycle events
type Listener interface {
	SubmissionStarted(ctx context.Context, sub Submission)
	SubmissionFailed(ctx context.Context, bundle *ResultBundle)
	SubmissionCompleted(ctx context.Context, bundle *ResultBundle)
}

// LogListener writes lifecycle events to the global logger
type LogListener struct{}

func (LogListener) SubmissionStarted(_ context.Context, sub Submission) {
	log.Info().Str("Submission", sub.ID.String()).Str("Session", sub.SessionID).Str("Raw", sub.Raw).Msg("submission started")
}

func (LogListener) SubmissionFailed(_ context.Context, bundle *ResultBundle) {
	log.Warn().Str("Submission", bundle.ID.String()).Strs("Errors", bundle.Errors).Msg("submission failed entirely")
}

func (LogListener) SubmissionCompleted(_ context.Context, bundle *ResultBundle) {
	log.Info().Str("Submission", bundle.ID.String()).Int("Metrics", len(bundle.Metrics)).Int("Errors", len(bundle.Errors)).Msg("submission completed")
}
