package tenancy

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/middleware"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

// ContextKey is the gin context key under which the resolved Context is set
// by the Public and Required middlewares.
const ContextKey = "tenancy_context"

type memoEntry struct {
	tc  *Context
	err error
}

// ResolveGin resolves the org context for the request's :orgSlug param,
// memoized per request and (slug, mode) so repeated call sites within one
// request hit storage once. The memo lives on the gin context and never
// outlives the request.
func (r *Resolver) ResolveGin(c *gin.Context, mode Mode) (*Context, error) {
	slug := c.Param("orgSlug")
	key := "tenancy_memo:" + string(mode) + ":" + slug
	if v, ok := c.Get(key); ok {
		e := v.(memoEntry)
		return e.tc, e.err
	}
	tc, err := r.Resolve(c.Request.Context(), slug, mode, identityFrom(c))
	c.Set(key, memoEntry{tc: tc, err: err})
	return tc, err
}

// identityFrom reads the caller identity set by the session middleware, if any.
func identityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	email, _ := c.Get(middleware.ContextUserEmail)
	emailStr, _ := email.(string)
	return &Identity{UserID: userID, Email: emailStr}
}

// Public resolves the org in public mode and aborts 404 when the slug is
// reserved or unknown.
func (r *Resolver) Public() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, err := r.ResolveGin(c, ModePublic)
		if err != nil {
			abortResolve(c, err)
			return
		}
		c.Set(ContextKey, tc)
		c.Next()
	}
}

// Required resolves the org in auth mode and aborts with the matching denial
// outcome: 404 unknown org, 401 no session (with a sign-in redirect hint),
// 403 no membership.
func (r *Resolver) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, err := r.ResolveGin(c, ModeAuth)
		if err != nil {
			abortResolve(c, err)
			return
		}
		c.Set(ContextKey, tc)
		c.Next()
	}
}

// RequirePermission gates a route on one permission from the resolved
// context. Run after Required.
func RequirePermission(p permissions.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := FromGin(c)
		if tc == nil {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		if !tc.Permissions.Has(p) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromGin returns the resolved context set by Public or Required, or nil.
func FromGin(c *gin.Context) *Context {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	tc, _ := v.(*Context)
	return tc
}

func abortResolve(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.NotFound(c, "organization not found")
	case ErrAuthRequired:
		c.JSON(http.StatusUnauthorized, response.Body{
			Success: false,
			Error:   "authentication required",
			Data:    gin.H{"redirect_to": "/auth/login?next=" + c.Request.URL.Path},
		})
	case ErrForbidden:
		response.Forbidden(c, "you do not have access to this organization")
	default:
		response.Internal(c, "failed to resolve organization")
	}
	c.Abort()
}
