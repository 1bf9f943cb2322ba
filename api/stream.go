package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const heartbeatInterval = 25 * time.Second

// stream relays workspace activity as server-sent events until the client
// goes away.
func (h *handlers) stream(c echo.Context) error {
	if h.hub == nil {
		return fail(c, "stream", echo.NewHTTPError(http.StatusServiceUnavailable, "live updates disabled"))
	}
	res := c.Response()
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return fail(c, "stream", echo.NewHTTPError(http.StatusInternalServerError, "stream unsupported"))
	}
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	events, unsubscribe := h.hub.Subscribe(c.Param("ws"))
	defer unsubscribe()

	if _, err := res.Write([]byte(": connected\n\n")); err != nil {
		return nil
	}
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	ctx := c.Request().Context()
	for {
		var chunk []byte
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			chunk = []byte(": ping\n\n")
		case data, open := <-events:
			if !open {
				return nil
			}
			chunk = make([]byte, 0, len(data)+8)
			chunk = append(chunk, "data: "...)
			chunk = append(chunk, data...)
			chunk = append(chunk, "\n\n"...)
		}
		if _, err := res.Write(chunk); err != nil {
			h.log.WithError(err).Debug("stream client gone")
			return nil
		}
		flusher.Flush()
	}
}
