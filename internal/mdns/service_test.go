package mdns

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestAdvertisement_TXT(t *testing.T) {
	t.Run("minimal", func(t *testing.T) {
		txt := Advertisement{Name: "Filmarkiv", Port: 5000}.TXT()
		assert.Equal(t, []string{"name=Filmarkiv", "version=" + ServerVersion, "path=/api"}, txt)
	})

	t.Run("store and search", func(t *testing.T) {
		txt := Advertisement{Name: "Home", Port: 5000, Driver: "sqlite", Search: true}.TXT()
		assert.Contains(t, txt, "store=sqlite")
		assert.Contains(t, txt, "search=1")
	})
}

func TestServiceType(t *testing.T) {
	assert.Equal(t, "_filmarkiv._tcp", ServiceType)
}

func TestStart_RejectsBadPort(t *testing.T) {
	s := NewService(testLogger(&bytes.Buffer{}))
	assert.Error(t, s.Start(Advertisement{Name: "x"}))
	assert.False(t, s.Running())
}

func TestStop_NotStarted(t *testing.T) {
	s := NewService(testLogger(&bytes.Buffer{}))
	s.Stop()
	s.Stop()
	assert.NoError(t, s.Shutdown())
	assert.False(t, s.Running())
}

func TestLifecycle(t *testing.T) {
	var buf bytes.Buffer
	s := NewService(testLogger(&buf))

	// Multicast is unavailable in many CI sandboxes.
	if err := s.Start(Advertisement{Name: "Filmarkiv Test", Port: 5000, Driver: "badger"}); err != nil {
		t.Skipf("mDNS not available: %v", err)
	}
	assert.True(t, s.Running())
	assert.Contains(t, buf.String(), "mDNS advertisement started")

	// Restart on another port replaces the running server.
	require.NoError(t, s.Start(Advertisement{Name: "Filmarkiv Test", Port: 5001}))
	assert.True(t, s.Running())

	done := make(chan struct{})
	for range 5 {
		go func() {
			s.Stop()
			done <- struct{}{}
		}()
	}
	for range 5 {
		<-done
	}

	assert.False(t, s.Running())
	assert.Contains(t, buf.String(), "mDNS advertisement stopped")
}
