package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"workroll/domain"
)

const (
	principalKey = "principal"
	memberKey    = "member"
)

// GzipRequestMiddleware decompresses gzip-encoded request bodies so handlers can
// work with plain JSON payloads. Requests with invalid gzip payloads are
// rejected with a 400 response.
func GzipRequestMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !hasGzipEncoding(req.Header.Get(echo.HeaderContentEncoding)) {
				return next(c)
			}
			gr, err := gzip.NewReader(req.Body)
			if err != nil {
				_ = req.Body.Close()
				return fail(c, "gzip", echo.NewHTTPError(http.StatusBadRequest, "invalid gzip body"))
			}
			req.Body = &gzipReadCloser{Reader: gr, body: req.Body}
			req.ContentLength = -1
			req.Header.Del(echo.HeaderContentEncoding)
			req.Header.Del(echo.HeaderContentLength)
			return next(c)
		}
	}
}

func hasGzipEncoding(header string) bool {
	for _, enc := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return true
		}
	}
	return false
}

type gzipReadCloser struct {
	*gzip.Reader
	body io.Closer
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.body.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Authenticate resolves the caller from the bearer token. EventSource clients
// cannot set headers, so a token query parameter is accepted as well.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				if token := c.QueryParam("token"); token != "" {
					header = "Bearer " + token
				}
			}
			p, err := auth.PrincipalFromAuthHeader(header)
			if err != nil {
				return fail(c, "auth", echo.NewHTTPError(http.StatusUnauthorized, err.Error()))
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// requireMember loads the caller's membership of the :ws workspace.
func requireMember(store Storage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m, err := store.GetMemberByUser(c.Request().Context(), c.Param("ws"), principalFrom(c).UserID)
			if err != nil {
				if errorStatus(err) == http.StatusNotFound {
					err = domain.ErrUnauthorized
				}
				return fail(c, "membership", err)
			}
			c.Set(memberKey, m)
			return next(c)
		}
	}
}

// requireAdmin must run after requireMember.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !memberFrom(c).IsAdmin() {
			return fail(c, "membership", domain.ErrForbidden)
		}
		return next(c)
	}
}

func principalFrom(c echo.Context) Principal {
	p, _ := c.Get(principalKey).(Principal)
	return p
}

func memberFrom(c echo.Context) domain.Member {
	m, _ := c.Get(memberKey).(domain.Member)
	return m
}
