// Copyright (c) 2025 Berik Ashimov

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "subnetlab_session"
	sessionKey    = "session"
)

// withSession resolves the session cookie, starting a new session when the
// cookie is missing or no longer known to the store.
func (s *server) withSession(c *gin.Context) {
	ctx := c.Request.Context()
	if raw, err := c.Cookie(sessionCookie); err == nil {
		ok, err := s.store.SessionExists(ctx, raw)
		if err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		if ok {
			c.Set(sessionKey, raw)
			c.Next()
			return
		}
	}
	id, err := s.newSession(c)
	if err != nil {
		s.fail(c, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, id)
	c.Next()
}

func (s *server) newSession(c *gin.Context) (string, error) {
	id, err := s.store.CreateSession(c.Request.Context())
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.sessionTTL.Seconds()), "/", "", false, true)
	return id, nil
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
