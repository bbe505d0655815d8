package stream

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 2 * time.Second

// Health is the body of the health endpoint
type Health struct {
	Clients int `json:"clients"`
}

// NewMux routes the websocket path to the hub and /healthz to a viewer count
func NewMux(path string, hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(path, hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Health{Clients: hub.Clients()})
	})
	return mux
}

// Serve runs handler on ln until ctx is cancelled, then shuts down gracefully
// Hijacked websocket connections are not tracked here, close the hub as well
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info("stream listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("stream stopped")
	return nil
}
