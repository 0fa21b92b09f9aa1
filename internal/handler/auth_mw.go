package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const identityKey = "identity"

type identityCtxKey struct{}

// Identity is the verified bearer of the request token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	scheme, accessToken, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	claims, err := h.tokens.Verify(accessToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewMessageResponse(errInvalidToken.Error()))
		return
	}

	// Verify has already checked the id.
	userID, _ := uuid.Parse(claims.UserID)
	identity := Identity{UserID: userID, Email: claims.Email}

	c.Set(identityKey, identity)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))

	c.Next()
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok
}

func (h *Handler) getIdentityFromRequest(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}

	identity, ok := value.(Identity)
	return identity, ok
}
