package http

import (
	"net/http"

	"studentfin/internal/analytics"
	"studentfin/internal/services"
)

// source binds the analytics engine to the caller's records.
func (s *Server) source(r *http.Request) analytics.Source {
	return services.NewOwnerScope(s.store, owner(r))
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Analytics.Summary(r.Context(), s.source(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(summary).Write(w)
}

func (s *Server) handleBurnRate(w http.ResponseWriter, r *http.Request) {
	burn, err := s.svc.Analytics.BurnRate(r.Context(), s.source(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(burn).Write(w)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.svc.Analytics.Trends(r.Context(), s.source(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(trends).Write(w)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := analytics.NormalizeLimit(ParseLimit(r.URL.Query()))
	txs, err := s.svc.Analytics.RecentTransactions(r.Context(), s.source(r), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(len(txs)).Data(txs).Write(w)
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	score, err := s.svc.Analytics.HealthScore(r.Context(), s.source(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(score).Write(w)
}
