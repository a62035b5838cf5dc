package transport

import (
	"context"
	"net/http"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name of the gateway.
const ServiceName = "tribo.gateway"

// HealthHandler reports the upstream provider through the standard gRPC
// health service.
type HealthHandler struct {
	*health.Server
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHealthHandler returns a handler that reports NOT_SERVING until the
// first successful probe.
func NewHealthHandler(prober Prober, interval time.Duration, logger *zap.Logger) *HealthHandler {
	h := &HealthHandler{
		Server:   health.NewServer(),
		prober:   prober,
		interval: interval,
		timeout:  10 * time.Second,
		logger:   logger.Named("health"),
	}
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Probe checks the provider once and updates the status.
func (h *HealthHandler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.prober.Healthy(ctx); err != nil {
		h.logger.Warn("upstream provider unhealthy", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.SetServingStatus(ServiceName, status)
	h.SetServingStatus("", status)
	return status
}

// Run probes until ctx is done, then marks the service as shutting down.
func (h *HealthHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// HealthChecker is satisfied by healthpb.HealthClient.
type HealthChecker interface {
	Check(ctx context.Context, in *healthpb.HealthCheckRequest, opts ...grpc.CallOption) (*healthpb.HealthCheckResponse, error)
}

// RegisterHealthRoute serves GET /healthz from the gRPC health service so
// HTTP load balancers see the same status as gRPC clients.
func RegisterHealthRoute(mux *gwruntime.ServeMux, client HealthChecker) error {
	return mux.HandlePath(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := client.Check(r.Context(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, envelope{Data: map[string]string{"health": "UNKNOWN"}, Message: err.Error()})
			return
		}
		code := http.StatusOK
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, envelope{Data: map[string]string{"health": resp.GetStatus().String()}})
	})
}
