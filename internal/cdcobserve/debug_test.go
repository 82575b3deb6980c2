// file: internal/cdcobserve/debug_test.go

package cdcobserve

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPprofHandler_ServesIndex(t *testing.T) {
	srv := httptest.NewServer(pprofHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/pprof/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "goroutine")

	miss, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	miss.Body.Close()
	assert.Equal(t, http.StatusNotFound, miss.StatusCode)
}

func TestEnablePprof_EmptyAddrDisabled(t *testing.T) {
	assert.Nil(t, EnablePprof(""))
}

func TestEnablePprof_BindFailureIsNotFatal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.Nil(t, EnablePprof(ln.Addr().String()))
}

func TestEnablePprof_Starts(t *testing.T) {
	srv := EnablePprof("127.0.0.1:0")
	require.NotNil(t, srv)
	assert.NoError(t, srv.Close())
}
