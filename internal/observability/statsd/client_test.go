package statsd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		" form/submit ": "form_submit",
		"form:submit|c": "form_submit_c",
		"foo..bar":      "foo.bar",
		".edge.":        "edge",
		"tag#one,two":   "tag_one_two",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanName(in), in)
	}
}

func TestLine(t *testing.T) {
	c, err := NewClient(context.Background(), Config{
		Prefix:     " .metrics.app. ",
		GlobalTags: map[string]string{"env": "prod", " service ": " blogfront "},
	})
	require.NoError(t, err)

	got := c.line("form.submit", "1", "c", map[string]string{"outcome": " success ", "": "ignored", "env": "stage"})
	assert.Equal(t, "metrics.app.form.submit:1|c|#env:stage,outcome:success,service:blogfront", got)
	assert.Empty(t, c.line("  ", "1", "c", nil))
}

func TestLine_DefaultPrefixWithoutTags(t *testing.T) {
	c, err := NewClient(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, "blogfront.form.latency:12.5|ms", c.line("form.latency", "12.5", "ms", nil))
}

func TestNewClient_DisabledWithoutAddress(t *testing.T) {
	c, err := NewClient(context.Background(), Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	c.Count("form.submit", 1, nil)
}

func TestNewClient_DialError(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}

func TestClient_WritesDatagrams(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := NewClient(context.Background(), Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	require.True(t, c.Enabled())

	read := func() string {
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}

	c.Count("form.submit", 1, map[string]string{"form": "signin"})
	assert.Equal(t, "blogfront.form.submit:1|c|#env:test,form:signin", read())

	c.Timing("form.latency", 1500*time.Microsecond, nil)
	assert.Equal(t, "blogfront.form.latency:1.5|ms|#env:test", read())

	require.NoError(t, c.Close())
	assert.False(t, c.Enabled())
	require.NoError(t, c.Close())
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Close())
	c.Count("x", 1, nil)
	c.Timing("x", time.Second, nil)
}

func TestDiscard(t *testing.T) {
	Discard.Count("x", 1, nil)
	Discard.Timing("x", time.Second, nil)
}
