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

package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
)

const (
	SessionHeader = "X-Session-Id"
	sessionKey    = "session"
)

// Session attaches the caller's dashboard session to the request. Callers
// without an X-Session-Id header are assigned a new session whose id is
// echoed back in the response header.
func Session(registry *dashboard.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := registry.Open(c.Get(SessionHeader))
		c.Locals(sessionKey, session)
		c.Set(SessionHeader, session.ID)
		return c.Next()
	}
}

// LookupSession attaches the session named by X-Session-Id when it exists.
// Unknown or missing ids leave the request without a session.
func LookupSession(registry *dashboard.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, ok := registry.Lookup(c.Get(SessionHeader)); ok {
			c.Locals(sessionKey, session)
			c.Set(SessionHeader, session.ID)
		}
		return c.Next()
	}
}

// SessionFrom returns the session attached by the Session middleware
func SessionFrom(c *fiber.Ctx) (*dashboard.Session, bool) {
	session, ok := c.Locals(sessionKey).(*dashboard.Session)
	return session, ok
}
