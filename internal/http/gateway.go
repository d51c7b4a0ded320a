package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b3nnytran/ride-sharing/internal/observability"
)

// Gateway is the edge reverse proxy. It forwards path-prefixed traffic
// to the owning service with the public prefix rewritten under
// /api/v1, and aggregates the backends' health.
type Gateway struct {
	client   *http.Client
	logger   *slog.Logger
	mux      *mux.Router
	backends []backend
}

type backend struct {
	name    string
	baseURL string
}

// GatewayTargets names the downstream service base URLs.
type GatewayTargets struct {
	UserService     string
	RiderService    string
	BookingService  string
	MatchingService string
}

func NewGateway(targets GatewayTargets, proxyTimeout time.Duration, logger *slog.Logger) *Gateway {
	if proxyTimeout <= 0 {
		proxyTimeout = 30 * time.Second
	}
	g := &Gateway{
		client: &http.Client{Timeout: proxyTimeout},
		logger: logger,
		mux:    mux.NewRouter(),
		backends: []backend{
			{"user_service", targets.UserService},
			{"rider_service", targets.RiderService},
			{"booking_service", targets.BookingService},
			{"ride_matching_service", targets.MatchingService},
		},
	}
	registerMiddleware(g.mux, logger)

	g.mux.HandleFunc("/healthz", g.handleHealth).Methods("GET")
	g.mux.Handle("/metrics", promhttp.Handler())
	g.route("/token", targets.UserService)
	g.route("/distance-matrix", targets.RiderService)
	g.routePrefix("/users", targets.UserService)
	g.routePrefix("/riders", targets.RiderService)
	g.routePrefix("/rides", targets.BookingService)
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) { g.mux.ServeHTTP(w, r) }

func (g *Gateway) route(path, target string) {
	g.mux.HandleFunc(path, g.proxyTo(target))
}

func (g *Gateway) routePrefix(prefix, target string) {
	g.mux.PathPrefix(prefix).HandlerFunc(g.proxyTo(target))
}

// hopHeaders are stripped before forwarding in either direction.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func (g *Gateway) proxyTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// /riders/5 becomes <target>/api/v1/riders/5
		url := target + "/api/v1" + r.URL.Path
		if r.URL.RawQuery != "" {
			url += "?" + r.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		copyHeaders(req.Header, r.Header)

		resp, err := g.client.Do(req)
		if err != nil {
			g.logger.Error("upstream request failed", "target", target, "path", r.URL.Path, "error", err)
			observability.ProxiedRequestsTotal.WithLabelValues(target, "error").Inc()
			respondError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		defer resp.Body.Close()

		observability.ProxiedRequestsTotal.WithLabelValues(target, strconv.Itoa(resp.StatusCode)).Inc()
		copyHeaders(w.Header(), resp.Header)
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}
}

func copyHeaders(dst, src http.Header) {
	for k, vv := range src {
		if isHopHeader(k) {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// handleHealth fans out to every backend's liveness endpoint and
// reports the aggregate.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	type result struct {
		name   string
		status string
	}
	results := make([]result, len(g.backends))
	var wg sync.WaitGroup
	for i, b := range g.backends {
		wg.Add(1)
		go func(i int, b backend) {
			defer wg.Done()
			status := "healthy"
			req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, b.baseURL+"/healthz", nil)
			if err != nil {
				results[i] = result{b.name, "unhealthy"}
				return
			}
			resp, err := g.client.Do(req)
			if err != nil || resp.StatusCode != http.StatusOK {
				status = "unhealthy"
			}
			if resp != nil {
				resp.Body.Close()
			}
			results[i] = result{b.name, status}
		}(i, b)
	}
	wg.Wait()

	services := make(map[string]string, len(results))
	overall := "healthy"
	for _, res := range results {
		services[res.name] = res.status
		if res.status != "healthy" {
			overall = "unhealthy"
		}
	}
	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]any{"status": overall, "services": services})
}
