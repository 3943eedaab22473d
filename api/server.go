package api

import (
	"net/http"
	"time"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// NewServer wraps handler in an http.Server listening on the configured port.
func NewServer(cfg config.AppConfig, port string, handler http.Handler) *http.Server {
	if port == "" {
		port = cfg.Port
	}
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
