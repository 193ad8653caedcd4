// Copyright (c) 2025 Berik Ashimov

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/planio"
	"subnetlab/internal/problem"
)

type problemView struct {
	Card          problem.Card `json:"card"`
	Generation    int64        `json:"generation"`
	RevealDelayMS int64        `json:"reveal_delay_ms"`
}

type checkRequest struct {
	Generation int64              `json:"generation"`
	Answers    problem.Submission `json:"answers"`
}

type checkResponse struct {
	Result        problem.Result `json:"result"`
	Streak        *int           `json:"streak,omitempty"`
	RevealDelayMS int64          `json:"reveal_delay_ms,omitempty"`
}

// issue stores p as the session's pending problem for its kind. A later
// issue of the same kind supersedes it.
func (s *server) issue(c *gin.Context, p problem.Problem) (problemView, error) {
	gen, err := s.store.Put(c.Request.Context(), sessionID(c), string(p.Kind()), p)
	if err != nil {
		return problemView{}, err
	}
	return problemView{
		Card:          p.Card(),
		Generation:    gen,
		RevealDelayMS: problem.RevealDelay(p.Kind()).Milliseconds(),
	}, nil
}

func (s *server) generateProblem(c *gin.Context) {
	kind, err := problem.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	tier, err := problem.ParseTier(c.Query("tier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.gen.Generate(kind, tier)
	if err != nil {
		s.fail(c, err)
		return
	}
	view, err := s.issue(c, p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// customVLSM starts a VLSM exercise from the caller's own requirement list.
func (s *server) customVLSM(c *gin.Context) {
	var req planio.RequirementList
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	base := problem.CampusBase
	if req.Base != "" {
		a, err := ipmath.ParseAddress(req.Base)
		if err != nil {
			s.fail(c, err)
			return
		}
		base = a
	}
	p, err := problem.NewVLSM(req.Requirements, base)
	if err != nil {
		s.fail(c, err)
		return
	}
	view, err := s.issue(c, p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// checkProblem grades the pending problem of a kind. The problem is
// discarded whether or not the answer is right, except for troubleshooting
// tables: each row click is graded on its own until a new table is issued.
func (s *server) checkProblem(c *gin.Context) {
	kind, err := problem.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	ctx := c.Request.Context()
	session := sessionID(c)
	take := s.store.Take
	if kind == problem.KindTroubleshoot {
		take = s.store.Peek
	}
	p, err := take(ctx, session, string(kind), req.Generation)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp := checkResponse{Result: p.Check(req.Answers)}
	if resp.Result.Correct {
		resp.RevealDelayMS = problem.RevealDelay(kind).Milliseconds()
	}
	if kind == problem.KindQuiz {
		streak := 0
		if resp.Result.Correct {
			streak, err = s.store.BumpStreak(ctx, session)
		} else {
			err = s.store.ResetStreak(ctx, session)
		}
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.Streak = &streak
	}
	c.JSON(http.StatusOK, resp)
}
