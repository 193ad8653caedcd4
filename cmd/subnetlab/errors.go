// Copyright (c) 2025 Berik Ashimov

package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/planio"
	"subnetlab/internal/problem"
	"subnetlab/internal/store"
	"subnetlab/internal/summarize"
	"subnetlab/internal/vlsm"
)

// errBadRequest marks request bodies that do not decode.
var errBadRequest = errors.New("malformed request")

func statusFor(err error) int {
	var (
		parseErr    *ipmath.ParseError
		allocErr    *vlsm.AllocationError
		rowErr      *planio.RowError
		coverageErr *summarize.CoverageError
		genErr      *problem.GenerationError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &allocErr), errors.As(err, &rowErr),
		errors.Is(err, summarize.ErrNoRoutes), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &coverageErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrStale):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNoSession):
		return http.StatusUnauthorized
	case errors.As(err, &genErr), errors.Is(err, problem.ErrNoScenarios):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error body. Server errors are logged; their
// text is not sent to the client.
func (s *server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	switch status {
	case http.StatusInternalServerError:
		s.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		body["error"] = "internal error"
	case http.StatusServiceUnavailable:
		body["retry"] = true
	case http.StatusUnprocessableEntity:
		var coverageErr *summarize.CoverageError
		if errors.As(err, &coverageErr) {
			body["summary"] = coverageErr.Summary.String()
			body["extra"] = coverageErr.Extra
		}
	}
	c.JSON(status, body)
}
