package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(7*time.Second, "")
	assert.Equal(t, 7*time.Second, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 100, tr.MaxIdleConns)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
}

func TestNewHTTPClient_Proxy(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(time.Second, "http://proxy.local:3128")
	tr := c.Transport.(*http.Transport)

	req, err := http.NewRequest(http.MethodGet, "https://query1.finance.yahoo.com/", nil)
	require.NoError(t, err)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "proxy.local:3128", u.Host)
}
