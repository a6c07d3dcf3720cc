package proxy

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/watchparty/cli/pkg/credentials"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"

	loginAccessMaxAge   = 60 * 60
	refreshedAccessAge  = 24 * 60 * 60
	refreshTokenMaxAge  = 7 * 24 * 60 * 60
	internalServerError = "Internal server error"
)

type upstreamRequest struct {
	method string
	// path is relative to the backend origin and may carry a raw query
	path   string
	token  string
	body   []byte
	header http.Header
}

// call sends r to the backend. Non-2xx statuses are not errors; only
// transport failures are.
func (s *Server) call(c *gin.Context, endpoint string, r upstreamRequest) (*resty.Response, error) {
	req := s.upstream.R().SetContext(c.Request.Context())
	for key, values := range r.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.SetHeader("X-Request-ID", c.GetString(requestIDKey))
	if r.token != "" {
		req.SetAuthToken(r.token)
	}
	if len(r.body) > 0 {
		if req.Header.Get("Content-Type") == "" {
			req.SetHeader("Content-Type", "application/json")
		}
		req.SetBody(r.body)
	}

	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		s.metrics.upstream(endpoint, 0)
		return nil, err
	}
	s.metrics.upstream(endpoint, resp.StatusCode())
	return resp, nil
}

// postJSON sends v as a JSON body without auth
func (s *Server) postJSON(c *gin.Context, endpoint, path string, v interface{}) (*resty.Response, error) {
	body, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	return s.call(c, endpoint, upstreamRequest{method: http.MethodPost, path: path, body: body})
}

// refreshTokens exchanges a refresh token. data is the decoded body, empty
// when the backend sent none.
func (s *Server) refreshTokens(c *gin.Context, refreshToken string) (*resty.Response, map[string]interface{}, error) {
	resp, err := s.postJSON(c, "refresh", "/api/auth/refresh/", map[string]string{"refresh": refreshToken})
	if err != nil {
		s.metrics.Refreshes.WithLabelValues("error").Inc()
		return nil, nil, err
	}
	data, _ := decodeObject(resp.Body())
	if data == nil {
		data = map[string]interface{}{}
	}

	result := "ok"
	if !resp.IsSuccess() {
		result = "rejected"
	}
	s.metrics.Refreshes.WithLabelValues(result).Inc()
	return resp, data, nil
}

// accessToken reads the access cookie, then a bearer header
func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessCookie); err == nil && token != "" {
		return token
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func refreshToken(c *gin.Context) string {
	token, err := c.Cookie(refreshCookie)
	if err != nil {
		return ""
	}
	return token
}

func (s *Server) setCookie(c *gin.Context, name, value string, fallback int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, cookieMaxAge(value, fallback, time.Now()), "/", "", s.cfg.SecureCookies, true)
}

func (s *Server) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", s.cfg.SecureCookies, true)
}

func (s *Server) clearSession(c *gin.Context) {
	s.clearCookie(c, accessCookie)
	s.clearCookie(c, refreshCookie)
}

// storeTokens sets whichever tokens are present
func (s *Server) storeTokens(c *gin.Context, access, refresh string, accessAge int) {
	if access != "" {
		s.setCookie(c, accessCookie, access, accessAge)
	}
	if refresh != "" {
		s.setCookie(c, refreshCookie, refresh, refreshTokenMaxAge)
	}
}

// cookieMaxAge follows the JWT exp claim when it is in the future
func cookieMaxAge(token string, fallback int, now time.Time) int {
	if exp, ok := credentials.TokenExpiry(token); ok {
		if secs := int(exp.Sub(now).Seconds()); secs > 0 {
			return secs
		}
	}
	return fallback
}

func decodeObject(body []byte) (map[string]interface{}, bool) {
	if len(body) == 0 {
		return nil, false
	}
	var data map[string]interface{}
	if err := codec.Unmarshal(body, &data); err != nil {
		return nil, false
	}
	return data, true
}

func stringField(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

// tokensOf reads access_token/refresh_token, falling back to access/refresh
func tokensOf(data map[string]interface{}) (access, refresh string) {
	access = stringField(data, "access_token")
	if access == "" {
		access = stringField(data, "access")
	}
	refresh = stringField(data, "refresh_token")
	if refresh == "" {
		refresh = stringField(data, "refresh")
	}
	return access, refresh
}

// errorMessage reads detail, then message, then the first string in the
// errors object (keys in sorted order), else fallback
func errorMessage(data map[string]interface{}, fallback string) string {
	if data == nil {
		return fallback
	}
	if s := stringField(data, "detail"); s != "" {
		return s
	}
	if s := stringField(data, "message"); s != "" {
		return s
	}

	errs, ok := data["errors"].(map[string]interface{})
	if !ok {
		return fallback
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := errs[k].(type) {
		case string:
			return v
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					return s
				}
			}
		}
	}
	return fallback
}
