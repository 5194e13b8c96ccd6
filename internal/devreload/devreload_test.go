package devreload

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BootIDIsUnique(t *testing.T) {
	a, b := New(nil), New(nil)
	assert.NotEmpty(t, a.BootID())
	assert.NotEqual(t, a.BootID(), b.BootID())
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, writeEvent(w, "boot", "abc"))
	assert.Equal(t, "event: boot\ndata: abc\n\n", buf.String())
}

func TestHandler_SendsBootEvent(t *testing.T) {
	s := New(nil)
	// A closed server ends the stream right after the boot event.
	require.NoError(t, s.Shutdown(context.Background()))

	app := fiber.New()
	app.Get(Path, s.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", Path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "event: boot\ndata: "+s.BootID()+"\n\n")
}

func TestShutdown_Twice(t *testing.T) {
	s := New(nil)
	assert.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.Shutdown(context.Background()))
}
