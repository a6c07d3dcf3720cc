package proxy

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/watchparty/cli/pkg/logger"
)

func (s *Server) listParties(c *gin.Context) {
	s.partiesCall(c, http.MethodGet, "Failed to fetch parties")
}

func (s *Server) createParty(c *gin.Context) {
	s.partiesCall(c, http.MethodPost, "Failed to create party")
}

// partiesCall forwards to /v2/parties/ with the caller's token. Error bodies
// are reduced to {"error": detail}.
func (s *Server) partiesCall(c *gin.Context, method, failure string) {
	token := accessToken(c)

	var body []byte
	if method != http.MethodGet {
		var err error
		if body, err = c.GetRawData(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
			return
		}
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No access token"})
		return
	}

	path := "/v2/parties/"
	if q := c.Request.URL.RawQuery; q != "" && method == http.MethodGet {
		path += "?" + q
	}

	resp, err := s.call(c, "parties", upstreamRequest{method: method, path: path, token: token, body: body})
	if err != nil {
		logger.Error("Parties upstream failed", "method", method, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
		return
	}

	if resp.IsSuccess() {
		if !jsoniter.Valid(resp.Body()) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
			return
		}
		c.Data(resp.StatusCode(), "application/json; charset=utf-8", resp.Body())
		return
	}

	data, _ := decodeObject(resp.Body())
	msg := stringField(data, "detail")
	if msg == "" {
		msg = failure
	}
	c.JSON(resp.StatusCode(), gin.H{"error": msg})
}

// publicParty looks up a party by room code without auth. The backend's
// status is passed through; an empty or non-JSON body becomes {}.
func (s *Server) publicParty(c *gin.Context) {
	code := c.Param("code")
	header := http.Header{"Accept": []string{"application/json"}}

	resp, err := s.call(c, "public_party", upstreamRequest{
		method: http.MethodGet,
		path:   "/api/parties/public/" + url.PathEscape(code) + "/",
		header: header,
	})
	if err != nil {
		logger.Error("Public party lookup failed", "code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load party details"})
		return
	}

	body := resp.Body()
	if len(body) == 0 || !jsoniter.Valid(body) {
		c.JSON(resp.StatusCode(), gin.H{})
		return
	}
	c.Data(resp.StatusCode(), "application/json; charset=utf-8", body)
}
