// Copyright (c) 2025 Berik Ashimov

package main

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"subnetlab/internal/problem"
	"subnetlab/internal/scenario"
	"subnetlab/internal/store"
)

type server struct {
	store       *store.Store
	catalog     *scenario.Catalog
	gen         *problem.Generator
	log         *log.Logger
	sessionTTL  time.Duration
	mentorDelay time.Duration
}

// newServer wires the handlers. src is shared by every request and must be
// safe for concurrent use.
func newServer(st *store.Store, catalog *scenario.Catalog, src problem.Source, logger *log.Logger, sessionTTL time.Duration) *server {
	return &server{
		store:       st,
		catalog:     catalog,
		gen:         problem.NewGenerator(src, catalog.Scenarios),
		log:         logger,
		sessionTTL:  sessionTTL,
		mentorDelay: problem.MentorReplyDelay,
	}
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	requestLog := s.log.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}).Writer()
	r.Use(gin.LoggerWithWriter(requestLog, "/healthz"), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "store unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	api.POST("/session", s.createSession)
	api.POST("/calculate", s.calculate)
	api.POST("/vlsm", s.allocate)
	api.GET("/vlsm/export", s.exportAllocations)
	api.POST("/summarize", s.summarize)
	api.GET("/worksheet", s.worksheet)
	api.GET("/scenarios", s.scenarios)

	sessioned := api.Group("", s.withSession)
	sessioned.GET("/session", s.currentSession)
	sessioned.GET("/problems/:kind", s.generateProblem)
	sessioned.POST("/vlsm/exercise", s.customVLSM)
	sessioned.POST("/problems/:kind/check", s.checkProblem)
	sessioned.POST("/mentor", s.mentor)
	return r
}

func (s *server) createSession(c *gin.Context) {
	id, err := s.newSession(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": id, "streak": 0, "greeting": mentorGreeting()})
}

func (s *server) currentSession(c *gin.Context) {
	streak, err := s.store.Streak(c.Request.Context(), sessionID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sessionID(c), "streak": streak})
}
