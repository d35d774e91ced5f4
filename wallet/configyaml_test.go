package wallet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeConnectionProfileHappyPath(t *testing.T) {
	raw := `
daemonUrl: http://127.0.0.1:11898
userAgent: mywallet/2.0
addressPrefix: 22624
workerCount: 4
skipCoinbase: true
lockedCheckIntervalSeconds: 30
cancelledGraceSeconds: 600
`
	p, err := decodeConnectionProfile(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:11898", p.DaemonURL)
	require.Equal(t, "mywallet/2.0", p.UserAgent)
	require.Equal(t, uint64(22624), p.AddressPrefix)
	require.Equal(t, 4, p.WorkerCount)
	require.True(t, p.SkipCoinbase)

	cfg := p.ToConfig()
	require.Equal(t, uint64(22624), cfg.AddressPrefix)
	require.Equal(t, "mywallet/2.0", cfg.UserAgent)
	require.Equal(t, 4, cfg.WorkerCount)
	require.True(t, cfg.SkipCoinbase)
	require.Equal(t, 30*time.Second, cfg.LockedCheckInterval)
	require.Equal(t, 600*time.Second, cfg.CancelledGrace)
}

func TestDecodeConnectionProfileMissingDaemonURL(t *testing.T) {
	raw := `
userAgent: mywallet/2.0
`
	_, err := decodeConnectionProfile(strings.NewReader(raw))
	require.Error(t, err)
}

func TestDecodeConnectionProfileMinimal(t *testing.T) {
	raw := `daemonUrl: http://node.example:11898`
	p, err := decodeConnectionProfile(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "http://node.example:11898", p.DaemonURL)
	require.Zero(t, p.AddressPrefix)

	cfg := p.ToConfig()
	require.Zero(t, cfg.LockedCheckInterval)
	require.Zero(t, cfg.CancelledGrace)
}
