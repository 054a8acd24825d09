package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meditrak/opsdash/internal/merge"
	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/pdf"
	"github.com/meditrak/opsdash/internal/report"
)

// RefreshFunc rebuilds the fact tables wholesale. The server installs the
// result only on success; a failed refresh leaves the served tables intact.
type RefreshFunc func(ctx context.Context) (*merge.Result, *model.RefreshSummary, error)

// Server wires the dashboard endpoints over a State.
type Server struct {
	log      zerolog.Logger
	state    *State
	refresh  RefreshFunc
	renderer pdf.Renderer
}

// NewServer builds a Server. renderer may be nil, in which case the PDF
// endpoint reports the feature as unavailable.
func NewServer(log zerolog.Logger, state *State, refresh RefreshFunc, renderer pdf.Renderer) *Server {
	return &Server{log: log, state: state, refresh: refresh, renderer: renderer}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1")
	api.GET("/filters", s.handleFilters)
	api.GET("/ip", s.handleIP)
	api.GET("/kpi", s.handleKPI)
	api.GET("/reports/yearly", s.handleYearly)
	api.GET("/reports/monthly-revenue", s.handleMonthlyRevenue)
	api.GET("/reports/monthly-count", s.handleMonthlyCount)
	api.GET("/reports/nabl", s.handleNABL)
	api.GET("/reports/nabl.pdf", s.handleNABLPDF)
	api.POST("/refresh", s.handleRefresh)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	res, loadedAt, batchID := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"loaded_at": loadedAt,
		"batch_id":  batchID,
		"ip_rows":   len(res.IP),
		"op_rows":   len(res.OP),
	})
}

func (s *Server) handleFilters(c *gin.Context) {
	res, _, _ := s.state.Snapshot()
	c.JSON(http.StatusOK, report.DistinctValues(res.IP))
}

// filterFromQuery builds a report.Filter from repeated query parameters,
// e.g. ?doctor=Dr+A&doctor=Dr+B&from=2024-03-01.
func filterFromQuery(c *gin.Context) (*report.Filter, error) {
	f := &report.Filter{
		Doctors:               c.QueryArray("doctor"),
		Referrers:             c.QueryArray("referrer"),
		ConsultantSpecialties: c.QueryArray("consultant_specialty"),
		ReferralSpecialties:   c.QueryArray("referral_specialty"),
		Groups:                c.QueryArray("group"),
		CreditCompanies:       c.QueryArray("credit_company"),
		TPACategories:         c.QueryArray("tpa_category"),
		CaseTypes:             c.QueryArray("case_type"),
		Expired:               c.QueryArray("expired"),
		PatientStatus:         c.QueryArray("patient_status"),
	}
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		if v := c.Query(bound.name); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return nil, err
			}
			*bound.dst = &t
		}
	}
	return f, nil
}

func (s *Server) handleIP(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, _, _ := s.state.Snapshot()
	rows := f.Apply(res.IP)
	c.JSON(http.StatusOK, gin.H{
		"rows": rows,
		"kpis": report.Compute(rows),
	})
}

func (s *Server) handleKPI(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, _, _ := s.state.Snapshot()
	rows := f.Apply(res.IP)

	// Default comparison window: current month to date.
	now := time.Now()
	w := report.Window{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		To:   now,
	}
	if f.From != nil {
		w.From = *f.From
	}
	if f.To != nil {
		w.To = *f.To
	}
	// Comparison windows look outside the filtered range, so they run over
	// the unfiltered-by-date row set.
	dateless := *f
	dateless.From, dateless.To = nil, nil
	c.JSON(http.StatusOK, gin.H{
		"kpis":              report.Compute(rows),
		"comparison":        report.Compare(dateless.Apply(res.IP), w),
		"by_doctor":         report.ByDoctor(rows),
		"by_referrer":       report.ByReferrer(rows),
		"by_specialty":      report.ByConsultantSpecialty(rows),
		"by_group":          report.ByGroup(rows),
		"by_credit_company": report.ByCreditCompany(rows),
		"by_tpa_category":   report.ByTPACategory(rows),
	})
}

func (s *Server) handleYearly(c *gin.Context) {
	res, _, _ := s.state.Snapshot()
	c.JSON(http.StatusOK, report.Yearly(res.IP))
}

func (s *Server) handleMonthlyRevenue(c *gin.Context) {
	res, _, _ := s.state.Snapshot()
	c.JSON(http.StatusOK, report.MonthlyRevenue(res.IP))
}

func (s *Server) handleMonthlyCount(c *gin.Context) {
	res, _, _ := s.state.Snapshot()
	c.JSON(http.StatusOK, report.MonthlyCount(res.IP))
}

func nablPeriod(c *gin.Context) (int, time.Month, bool) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}

func (s *Server) handleNABL(c *gin.Context) {
	year, month, ok := nablPeriod(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year or month"})
		return
	}
	res, _, _ := s.state.Snapshot()
	c.JSON(http.StatusOK, report.NABL(res.IP, year, month))
}

func (s *Server) handleNABLPDF(c *gin.Context) {
	if s.renderer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PDF rendering is not enabled"})
		return
	}
	year, month, ok := nablPeriod(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year or month"})
		return
	}
	res, _, _ := s.state.Snapshot()
	html, err := pdf.NABLHTML(report.NABL(res.IP, year, month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	data, err := s.renderer.Render(c.Request.Context(), html)
	if err != nil {
		s.log.Error().Err(err).Msg("PDF render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="nabl-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) handleRefresh(c *gin.Context) {
	if s.refresh == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh is not enabled"})
		return
	}
	if !s.state.TryBeginRefresh() {
		c.JSON(http.StatusConflict, gin.H{"error": "a refresh is already running"})
		return
	}
	defer s.state.EndRefresh()

	res, summary, err := s.refresh(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("refresh failed, previous tables kept")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.state.Set(res, summary.BatchID)
	c.JSON(http.StatusOK, summary)
}
