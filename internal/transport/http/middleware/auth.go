package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/model"
	"studyboard/internal/transport/http/response"
)

const ContextUserKey = "current_user"

// Authenticator resolves an Authorization header to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*model.User, error)
}

// RequireAuth rejects anonymous requests and bad tokens with 401.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolve(c, auth)
		if !ok {
			return
		}
		if user == nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authorization token required")
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and bad.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolve(c, auth)
		if !ok {
			return
		}
		if user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func resolve(c *gin.Context, auth Authenticator) (*model.User, bool) {
	user, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		if errors.Is(err, app.ErrUnauthenticated) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
		} else {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "authentication failed")
		}
		c.Abort()
		return nil, false
	}
	return user, true
}
