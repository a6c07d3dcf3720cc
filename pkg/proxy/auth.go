package proxy

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/watchparty/cli/pkg/logger"
)

// WSTokenTTL is how long a party socket token stays valid
const WSTokenTTL = 5 * time.Minute

func (s *Server) loginReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login endpoint ready. Submit credentials with a POST request.",
	})
}

func (s *Server) registerReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Register endpoint ready. Submit details with a POST request.",
	})
}

func (s *Server) login(c *gin.Context) {
	data, status, ok := s.credentialExchange(c, "login", "/api/auth/login/")
	if data == nil {
		return
	}
	if !ok {
		msg := errorMessage(data, "Login failed")
		c.JSON(status, gin.H{"success": false, "error": msg, "message": msg})
		return
	}

	access, refresh := tokensOf(data)
	s.storeTokens(c, access, refresh, loginAccessMaxAge)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": data["user"]})
}

func (s *Server) register(c *gin.Context) {
	data, status, ok := s.credentialExchange(c, "register", "/api/auth/register/")
	if data == nil {
		return
	}
	if !ok {
		c.JSON(status, gin.H{"error": errorMessage(data, "Registration failed")})
		return
	}

	access, refresh := tokensOf(data)
	s.storeTokens(c, access, refresh, loginAccessMaxAge)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful! Please check your email to verify your account.",
		"user":    data["user"],
	})
}

// credentialExchange forwards the raw body and decodes the reply. A nil
// map means the response has already been written.
func (s *Server) credentialExchange(c *gin.Context, endpoint, path string) (map[string]interface{}, int, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": internalServerError, "message": internalServerError})
		return nil, 0, false
	}

	resp, err := s.call(c, endpoint, upstreamRequest{method: http.MethodPost, path: path, body: body})
	if err != nil {
		logger.Error("Auth upstream failed", "endpoint", endpoint, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": internalServerError, "message": internalServerError})
		return nil, 0, false
	}

	data, decoded := decodeObject(resp.Body())
	if !decoded {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": internalServerError, "message": internalServerError})
		return nil, 0, false
	}
	return data, resp.StatusCode(), resp.IsSuccess()
}

func (s *Server) logout(c *gin.Context) {
	if refresh := refreshToken(c); refresh != "" {
		if _, err := s.postJSON(c, "logout", "/api/auth/logout/", map[string]string{"refresh": refresh}); err != nil {
			logger.Warn("Backend logout failed", "error", err)
		}
	}

	s.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (s *Server) refresh(c *gin.Context) {
	token := refreshToken(c)
	if token == "" {
		s.clearSession(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token"})
		return
	}

	resp, data, err := s.refreshTokens(c, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
		return
	}

	if !resp.IsSuccess() {
		msg := stringField(data, "detail")
		if msg == "" {
			msg = stringField(data, "error")
		}
		if msg == "" {
			msg = "Unable to refresh session"
		}
		if resp.StatusCode() == http.StatusUnauthorized {
			s.clearSession(c)
		}
		c.JSON(resp.StatusCode(), gin.H{"error": msg})
		return
	}

	access, refresh := tokensOf(data)
	s.storeTokens(c, access, refresh, refreshedAccessAge)
	c.JSON(http.StatusOK, gin.H{"success": true, "access_token": access, "refresh_token": refresh})
}

func (s *Server) profile(c *gin.Context, token string) (interface{}, int, error) {
	resp, err := s.call(c, "profile", upstreamRequest{method: http.MethodGet, path: "/api/auth/profile/", token: token})
	if err != nil {
		return nil, 0, err
	}
	if !resp.IsSuccess() {
		return nil, resp.StatusCode(), nil
	}
	var user interface{}
	if err := codec.Unmarshal(resp.Body(), &user); err != nil {
		return nil, 0, err
	}
	return user, resp.StatusCode(), nil
}

// session reports the profile behind the cookies, refreshing the access
// token once when it has expired
func (s *Server) session(c *gin.Context) {
	access, refresh := accessToken(c), refreshToken(c)
	unauthenticated := gin.H{"authenticated": false, "user": nil}

	if access == "" && refresh == "" {
		c.JSON(http.StatusOK, unauthenticated)
		return
	}

	if access != "" {
		user, status, err := s.profile(c, access)
		if err != nil {
			c.JSON(http.StatusInternalServerError, unauthenticated)
			return
		}
		if user != nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
			return
		}
		if status != http.StatusUnauthorized || refresh == "" {
			c.JSON(status, unauthenticated)
			return
		}
	}

	if refresh == "" {
		s.clearCookie(c, accessCookie)
		c.JSON(http.StatusUnauthorized, unauthenticated)
		return
	}

	resp, data, err := s.refreshTokens(c, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, unauthenticated)
		return
	}
	if !resp.IsSuccess() {
		s.clearCookie(c, accessCookie)
		if resp.StatusCode() == http.StatusUnauthorized {
			s.clearCookie(c, refreshCookie)
		}
		c.JSON(resp.StatusCode(), unauthenticated)
		return
	}

	newAccess, newRefresh := tokensOf(data)
	if newAccess == "" {
		s.clearSession(c)
		c.JSON(http.StatusUnauthorized, unauthenticated)
		return
	}

	user, status, err := s.profile(c, newAccess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, unauthenticated)
		return
	}
	if user == nil {
		s.clearCookie(c, accessCookie)
		if status == http.StatusUnauthorized {
			s.clearCookie(c, refreshCookie)
		}
		c.JSON(status, unauthenticated)
		return
	}

	s.storeTokens(c, newAccess, newRefresh, refreshedAccessAge)
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}

type wsTokenClaims struct {
	AuthToken string      `json:"authToken"`
	UserID    interface{} `json:"userId,omitempty"`
	Exp       int64       `json:"exp"`
}

// wsToken mints a short-lived socket token after checking the session
func (s *Server) wsToken(c *gin.Context) {
	token := accessToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, _, err := s.profile(c, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate session"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	var userID interface{}
	if m, ok := user.(map[string]interface{}); ok {
		userID = m["id"]
	}

	claims, err := codec.Marshal(wsTokenClaims{
		AuthToken: token,
		UserID:    userID,
		Exp:       time.Now().Add(WSTokenTTL).UnixMilli(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wsToken":   base64.StdEncoding.EncodeToString(claims),
		"expiresIn": WSTokenTTL.Milliseconds(),
		"userId":    userID,
	})
}
