package proxy

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/watchparty/cli/pkg/logger"
)

// Inbound headers never forwarded upstream
var strippedRequestHeaders = map[string]bool{
	"host":                true,
	"cookie":              true,
	"content-length":      true,
	"authorization":       true,
	"accept-encoding":     true,
	"connection":          true,
	"keep-alive":          true,
	"proxy-connection":    true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// Upstream headers never copied back
var strippedResponseHeaders = map[string]bool{
	"set-cookie":        true,
	"content-length":    true,
	"transfer-encoding": true,
	"content-encoding":  true,
	"connection":        true,
	"x-request-id":      true,
}

// forward relays /api/proxy/<path> to <backend>/<path>. On a 401 with a
// refresh cookie it refreshes once and retries with the new token.
func (s *Server) forward(c *gin.Context) {
	target := "/" + strings.TrimLeft(c.Param("path"), "/")
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}

	var body []byte
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		var err error
		if body, err = c.GetRawData(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
			return
		}
	}

	header := forwardHeaders(c.Request.Header)
	send := func(token string) (*resty.Response, error) {
		return s.call(c, "proxy", upstreamRequest{
			method: c.Request.Method,
			path:   target,
			token:  token,
			body:   body,
			header: header,
		})
	}

	initial, err := send(accessToken(c))
	if err != nil {
		logger.Error("Proxy upstream failed", "path", target, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream request failed"})
		return
	}

	refresh := refreshToken(c)
	if initial.StatusCode() != http.StatusUnauthorized || refresh == "" {
		relay(c, initial)
		return
	}

	refreshResp, data, err := s.refreshTokens(c, refresh)
	if err != nil {
		relay(c, initial)
		return
	}
	if !refreshResp.IsSuccess() {
		if refreshResp.StatusCode() == http.StatusUnauthorized {
			s.clearSession(c)
		}
		relay(c, initial)
		return
	}

	newAccess, newRefresh := tokensOf(data)
	retry, err := send(newAccess)
	if err != nil {
		relay(c, initial)
		return
	}

	logger.Debug("Retried proxy request after refresh", "path", target, "status", retry.StatusCode())
	s.storeTokens(c, newAccess, newRefresh, loginAccessMaxAge)
	relay(c, retry)
}

func forwardHeaders(in http.Header) http.Header {
	out := http.Header{}
	for key, values := range in {
		if strippedRequestHeaders[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			out.Add(key, v)
		}
	}
	return out
}

func relay(c *gin.Context, resp *resty.Response) {
	for key, values := range resp.Header() {
		lower := strings.ToLower(key)
		if strippedResponseHeaders[lower] || strings.HasPrefix(lower, "access-control-") {
			continue
		}
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}
	c.Status(resp.StatusCode())
	if len(resp.Body()) > 0 && c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(resp.Body())
	}
}
