// Copyright (c) 2025 Berik Ashimov

package main

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/planio"
	"subnetlab/internal/problem"
	"subnetlab/internal/scenario"
	"subnetlab/internal/summarize"
	"subnetlab/internal/vlsm"
)

type calculateRequest struct {
	// Address may carry its prefix, as in "192.168.1.77/26".
	Address string `json:"address"`
	Prefix  string `json:"prefix"`
}

func (s *server) calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	var (
		addr   ipmath.Address
		prefix int
		err    error
	)
	if strings.Contains(req.Address, "/") {
		addr, prefix, err = ipmath.ParseCIDR(req.Address)
	} else if addr, err = ipmath.ParseAddress(req.Address); err == nil {
		prefix, err = ipmath.ParsePrefix(req.Prefix)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	calc, err := problem.Calculate(addr, prefix)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

// readRequirements takes either an uploaded file (form field "file", format
// from its extension) or a JSON body.
func readRequirements(c *gin.Context) (planio.RequirementList, error) {
	if header, err := c.FormFile("file"); err == nil {
		format, err := planio.ParseFormat(filepath.Ext(header.Filename))
		if err != nil {
			return planio.RequirementList{}, errors.Wrap(errBadRequest, err.Error())
		}
		f, err := header.Open()
		if err != nil {
			return planio.RequirementList{}, errors.Wrap(err, "open upload")
		}
		defer f.Close()
		list, err := planio.ReadRequirements(format, f)
		if err != nil {
			var rowErr *planio.RowError
			if errors.As(err, &rowErr) {
				return planio.RequirementList{}, err
			}
			return planio.RequirementList{}, errors.Wrap(errBadRequest, err.Error())
		}
		if list.Base == "" {
			list.Base = c.PostForm("base")
		}
		return list, nil
	}
	var list planio.RequirementList
	if err := c.ShouldBindJSON(&list); err != nil {
		return list, errors.Wrap(errBadRequest, err.Error())
	}
	return list, nil
}

func allocateList(list planio.RequirementList) (ipmath.Address, []vlsm.Allocation, error) {
	base := problem.CampusBase
	if strings.TrimSpace(list.Base) != "" {
		a, err := ipmath.ParseAddress(list.Base)
		if err != nil {
			return base, nil, err
		}
		base = a
	}
	allocs, err := vlsm.Allocate(list.Requirements, base)
	return base, allocs, err
}

func (s *server) allocate(c *gin.Context) {
	list, err := readRequirements(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	base, allocs, err := allocateList(list)
	if err != nil {
		s.fail(c, err)
		return
	}
	first, last, _ := vlsm.Span(allocs)
	c.JSON(http.StatusOK, gin.H{
		"base":        base.String(),
		"allocations": planio.AllocationRows(allocs),
		"first":       first.String(),
		"last":        last.String(),
	})
}

// exportAllocations renders an allocation table. Requirements come from
// repeated req=name:hosts parameters; without any the campus exercise is
// exported.
func (s *server) exportAllocations(c *gin.Context) {
	format, err := planio.ParseFormat(c.Query("format"))
	if err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	list := planio.RequirementList{Base: c.Query("base")}
	for _, raw := range c.QueryArray("req") {
		i := strings.LastIndex(raw, ":")
		if i <= 0 {
			s.fail(c, errors.Wrapf(errBadRequest, "req %q is not name:hosts", raw))
			return
		}
		hosts, err := strconv.Atoi(strings.TrimSpace(raw[i+1:]))
		if err != nil {
			s.fail(c, errors.Wrapf(errBadRequest, "req %q is not name:hosts", raw))
			return
		}
		list.Requirements = append(list.Requirements, vlsm.Requirement{Name: strings.TrimSpace(raw[:i]), Hosts: hosts})
	}
	if len(list.Requirements) == 0 {
		list.Requirements = problem.CampusRequirements
	}
	_, allocs, err := allocateList(list)
	if err != nil {
		s.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := planio.WriteAllocations(format, &buf, allocs); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=subnetlab_vlsm."+string(format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

type summarizeRequest struct {
	Networks []string `json:"networks"`
	// Exact defaults to true; false returns the best-effort supernet even
	// when it covers addresses outside the inputs.
	Exact *bool `json:"exact"`
}

func (s *server) summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	nets := make([]ipmath.Subnet, 0, len(req.Networks))
	for _, raw := range req.Networks {
		n, err := ipmath.ParseSubnet(raw)
		if err != nil {
			s.fail(c, err)
			return
		}
		nets = append(nets, n)
	}
	fn := summarize.SummarizeExact
	if req.Exact != nil && !*req.Exact {
		fn = summarize.Summarize
	}
	sum, err := fn(nets)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": sum.String(),
		"network": sum.Network.String(),
		"prefix":  sum.Prefix,
		"covers":  summarize.Covers(sum, nets),
	})
}

func (s *server) worksheet(c *gin.Context) {
	format, err := planio.ParseFormat(c.DefaultQuery("format", "xlsx"))
	if err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	count, err := strconv.Atoi(c.DefaultQuery("count", "20"))
	if err != nil {
		s.fail(c, errors.Wrap(errBadRequest, "count is not a number"))
		return
	}
	tier, err := problem.ParseTier(c.Query("tier"))
	if err != nil {
		s.fail(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	kinds := problem.Kinds
	if raw := strings.TrimSpace(c.Query("kinds")); raw != "" {
		kinds = nil
		for _, part := range strings.Split(raw, ",") {
			k, err := problem.ParseKind(part)
			if err != nil {
				s.fail(c, errors.Wrap(errBadRequest, err.Error()))
				return
			}
			kinds = append(kinds, k)
		}
	}
	ws, err := planio.BuildWorksheet(s.gen, kinds, tier, count)
	if err != nil {
		var genErr *problem.GenerationError
		if !errors.As(err, &genErr) && !errors.Is(err, problem.ErrNoScenarios) {
			err = errors.Wrap(errBadRequest, err.Error())
		}
		s.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := planio.WriteWorksheet(format, &buf, ws); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=subnetlab_worksheet."+string(format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

type scenarioView struct {
	Index    int                             `json:"index"`
	Scenario problem.TroubleshootingScenario `json:"scenario"`
	Findings []scenario.Finding              `json:"findings,omitempty"`
}

func (s *server) scenarios(c *gin.Context) {
	list := s.catalog.Scenarios()
	out := make([]scenarioView, 0, len(list))
	for i, sc := range list {
		out = append(out, scenarioView{Index: i, Scenario: sc, Findings: scenario.Audit(sc)})
	}
	c.JSON(http.StatusOK, gin.H{"source": s.catalog.Source(), "scenarios": out})
}
