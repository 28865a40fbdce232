// Package mdns advertises the Filmarkiv API on the local network so the
// catalog front-end can find it without configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the mDNS service type for Filmarkiv servers.
	ServiceType = "_filmarkiv._tcp"

	// APIPath is the base path of the movie API, advertised in TXT records.
	APIPath = "/api"

	// ServerVersion is the server version advertised in TXT records.
	ServerVersion = "1.0.0"
)

// Advertisement describes what gets published.
type Advertisement struct {
	Name   string // Human readable server name
	Port   int
	Driver string // Store driver in use
	Search bool   // Whether /api/movies/search is available
}

// TXT returns the TXT records for the advertisement.
func (a Advertisement) TXT() []string {
	txt := []string{
		"name=" + a.Name,
		"version=" + ServerVersion,
		"path=" + APIPath,
	}
	if a.Driver != "" {
		txt = append(txt, "store="+a.Driver)
	}
	if a.Search {
		txt = append(txt, "search=1")
	}
	return txt
}

// Service manages mDNS advertisement.
type Service struct {
	server *mdns.Server
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising. Call it once the HTTP listener is up.
// Failures are usually environmental (no multicast in containers) and callers
// treat them as non-fatal.
func (s *Service) Start(ad Advertisement) error {
	if ad.Port <= 0 {
		return fmt.Errorf("invalid port %d", ad.Port)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
	}

	host, err := os.Hostname()
	if err != nil {
		host = "filmarkiv"
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", ad.Port, nil, ad.TXT())
	if err != nil {
		return fmt.Errorf("create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("start mDNS server: %w", err)
	}
	s.server = server

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", ad.Port,
		"name", ad.Name,
	)

	return nil
}

// Running reports whether an advertisement is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

// Stop stops advertising. Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}

// Shutdown implements do.Shutdowner.
func (s *Service) Shutdown() error {
	s.Stop()
	return nil
}
