// Copyright (c) 2025 Berik Ashimov

package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"subnetlab/internal/mentor"
	"subnetlab/internal/problem"
)

func mentorGreeting() string { return mentor.Greeting }

type mentorRequest struct {
	Message string `json:"message"`
}

type mentorResponse struct {
	mentor.Reply
	Problem *problemView `json:"problem,omitempty"`
}

// mentor replies after the chat delay. A client that disconnects while
// waiting gets nothing.
func (s *server) mentor(c *gin.Context) {
	var req mentorRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	reply := mentor.Respond(req.Message)

	ctx := c.Request.Context()
	timer := time.NewTimer(s.mentorDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.log.Debug("mentor request cancelled", "error", ctx.Err())
		return
	case <-timer.C:
	}

	resp := mentorResponse{Reply: reply}
	if reply.Action == mentor.ActionNewQuiz {
		p, err := s.gen.Generate(problem.KindQuiz, problem.TierMask)
		if err != nil {
			s.fail(c, err)
			return
		}
		view, err := s.issue(c, p)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.Problem = &view
	}
	c.JSON(http.StatusOK, resp)
}
