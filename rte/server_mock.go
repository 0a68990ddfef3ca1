package rte

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/maelgrv/spotflex/connectors/clients/wholesalemarket"
	"github.com/maelgrv/spotflex/infra/logger"
	"github.com/maelgrv/spotflex/rte/generator"
)

// MockConfig configures the local stand-in for the RTE API.
type MockConfig struct {
	Address   string           `json:"address"`
	Generator generator.Config `json:"generator"`
}

// ServerMock imitates the RTE wholesale market API locally: a token endpoint
// accepting any client credentials and a france_power_exchanges endpoint
// serving synthetic prices. Useful for running the pipeline without API
// access and for exercising the real client in tests.
type ServerMock struct {
	addr   string
	gen    *generator.Generator
	log    logger.Logger
	srv    *http.Server
	total  *prometheus.CounterVec
	failed prometheus.Counter
}

// NewServerMock creates a mock server using the default Prometheus
// registerer.
func NewServerMock(cfg MockConfig) *ServerMock {
	return NewServerMockWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewServerMockWithRegistry creates a mock server and registers its metrics
// on the provided registerer. A nil reg selects the default registerer.
func NewServerMockWithRegistry(cfg MockConfig, reg prometheus.Registerer) *ServerMock {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	log := logger.New("rte-server-mock")

	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rte_mock_requests_total",
		Help: "Requests served by the RTE mock",
	}, []string{"endpoint"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rte_mock_requests_failed",
		Help: "Requests the RTE mock rejected",
	})

	if err := reg.Register(total); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				total = exist
			} else {
				log.Errorf("existing collector for rte_mock_requests_total has wrong type %T", are.ExistingCollector)
			}
		}
	}
	if err := reg.Register(failed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(prometheus.Counter); ok {
				failed = exist
			} else {
				log.Errorf("existing collector for rte_mock_requests_failed has wrong type %T", are.ExistingCollector)
			}
		}
	}

	return &ServerMock{
		addr:   cfg.Address,
		gen:    generator.New(cfg.Generator),
		log:    log,
		total:  total,
		failed: failed,
	}
}

func (s *ServerMock) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		s.total.WithLabelValues("ping").Inc()
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/open_api/wholesale_market/v2/france_power_exchanges", s.handleExchanges)
	return mux
}

func (s *ServerMock) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.failed.Inc()
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.total.WithLabelValues("token").Inc()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"access_token": "mock-token",
		"token_type":   "bearer",
		"expires_in":   3600,
	}); err != nil {
		s.log.Errorf("write token: %v", err)
	}
}

func (s *ServerMock) handleExchanges(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start_date"))
	if err != nil {
		s.failed.Inc()
		http.Error(w, "bad start_date", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end_date"))
	if err != nil || !end.After(start) {
		s.failed.Inc()
		http.Error(w, "bad end_date", http.StatusBadRequest)
		return
	}
	hours := int(end.Sub(start) / time.Hour)

	points := s.gen.Series(start, hours)
	exchange := wholesalemarket.Exchange{
		StartDate:   start.Format(time.RFC3339),
		EndDate:     end.Format(time.RFC3339),
		UpdatedDate: time.Now().UTC().Format(time.RFC3339),
	}
	for _, p := range points {
		exchange.Values = append(exchange.Values, wholesalemarket.Value{
			StartDate: p.Start.Format(time.RFC3339),
			EndDate:   p.End.Format(time.RFC3339),
			Value:     p.Price,
			Price:     p.Price,
		})
	}

	s.total.WithLabelValues("france_power_exchanges").Inc()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(wholesalemarket.Response{
		FrancePowerExchanges: []wholesalemarket.Exchange{exchange},
	}); err != nil {
		s.log.Errorf("write exchanges: %v", err)
	}
}

// Addr returns the listening address once Start has been called.
func (s *ServerMock) Addr() string { return s.addr }

// Start runs the HTTP server until the context is canceled.
func (s *ServerMock) Start(ctx context.Context) error {
	mux := s.routes()
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("RTE mock server listening on %s", s.addr)
	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
