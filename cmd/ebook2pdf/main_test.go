package main_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/ebook2pdf"
	main "github.com/fwojciec/ebook2pdf/cmd/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/mock"
	ebookws "github.com/fwojciec/ebook2pdf/websocket"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve runs Main on a random port until the test ends and returns the
// base URL.
func serve(t *testing.T, args []string, runner ebook2pdf.JobRunner) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := main.NewMain()
	m.Listener = ln
	m.Runner = runner

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, args, io.Discard, io.Discard)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	url := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 5*time.Second, 10*time.Millisecond)
	return url
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("serves the form prefilled from config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "indexhtml: https://learninghub.sap.com/book/abc/index.html\nusername: alice\n")
		url := serve(t, []string{"--config", path}, &mock.JobRunner{})

		resp, err := http.Get(url + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `value="https://learninghub.sap.com/book/abc/index.html"`)
		assert.Contains(t, string(body), `value="alice"`)
	})

	t.Run("missing config file means defaults", func(t *testing.T) {
		t.Parallel()

		url := serve(t, []string{"--config", filepath.Join(t.TempDir(), "none.yml")}, &mock.JobRunner{})

		resp, err := http.Get(url + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `name="username" value=""`)
	})

	t.Run("runs jobs over the websocket", func(t *testing.T) {
		t.Parallel()

		runner := &mock.JobRunner{
			RunFn: func(ctx context.Context, req *ebook2pdf.JobRequest, live ebook2pdf.LiveChannel) *ebook2pdf.JobResult {
				_ = live.SendFile(ebook2pdf.ArtifactName(req.EntryURL), []byte("%PDF"))
				return &ebook2pdf.JobResult{State: ebook2pdf.JobDelivered}
			},
		}
		url := serve(t, []string{"--config", filepath.Join(t.TempDir(), "none.yml")}, runner)

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+ebookws.Path, nil)
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.WriteJSON(ebook2pdf.JobRequest{EntryURL: "https://x/book/abc/index.html"}))
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg ebookws.Message
		require.NoError(t, conn.ReadJSON(&msg))

		assert.Equal(t, ebookws.TypeFile, msg.Type)
		assert.Equal(t, "abc.pdf", msg.Filename)
	})

	t.Run("rejects an invalid config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "unknown_key: 1\n")

		err := main.NewMain().Run(context.Background(), []string{"--config", path}, io.Discard, io.Discard)

		assert.Equal(t, ebook2pdf.EINVALID, ebook2pdf.ErrorCode(err))
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		err := main.NewMain().Run(context.Background(), []string{"--help"}, &stdout, io.Discard)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "--config")
	})
}
