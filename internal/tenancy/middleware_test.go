package tenancy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/middleware"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
)

type countingOrgStore struct {
	org   *models.Org
	calls int
}

func (c *countingOrgStore) GetBySlug(_ context.Context, slug string) (*models.Org, error) {
	c.calls++
	if c.org != nil && c.org.Slug == slug {
		return c.org, nil
	}
	return nil, nil
}

func ginCtx(t *testing.T, path, slug string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	c.Params = gin.Params{{Key: "orgSlug", Value: slug}}
	return c, w
}

func TestResolveGinMemoizesPerRequest(t *testing.T) {
	store := &countingOrgStore{org: testOrg()}
	r := NewResolver(store, &fakeMembershipStore{}, staticPermResolver{}, nil)

	c, _ := ginCtx(t, "/tigers", "tigers")
	tc1, err := r.ResolveGin(c, ModePublic)
	require.NoError(t, err)
	tc2, err := r.ResolveGin(c, ModePublic)
	require.NoError(t, err)

	assert.Same(t, tc1, tc2)
	assert.Equal(t, 1, store.calls, "second resolve hits the memo")
}

func TestResolveGinMemoKeyedByMode(t *testing.T) {
	store := &countingOrgStore{org: testOrg()}
	r := NewResolver(store, &fakeMembershipStore{}, staticPermResolver{}, nil)

	c, _ := ginCtx(t, "/tigers", "tigers")
	_, err := r.ResolveGin(c, ModePublic)
	require.NoError(t, err)
	_, err = r.ResolveGin(c, ModeAuth)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, 2, store.calls, "modes memoize independently")
}

func TestPublicMiddlewareUnknownOrg404(t *testing.T) {
	r := NewResolver(&countingOrgStore{}, &fakeMembershipStore{}, staticPermResolver{}, nil)

	c, w := ginCtx(t, "/ghost", "ghost")
	r.Public()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequiredMiddlewareAnonymous401WithRedirect(t *testing.T) {
	r := NewResolver(&countingOrgStore{org: testOrg()}, &fakeMembershipStore{}, staticPermResolver{}, nil)

	c, w := ginCtx(t, "/tigers/tools/forms", "tigers")
	r.Required()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "redirect_to")
	assert.Contains(t, w.Body.String(), "/auth/login?next=/tigers/tools/forms")
}

func TestRequiredMiddlewareNonMember403(t *testing.T) {
	r := NewResolver(&countingOrgStore{org: testOrg()}, &fakeMembershipStore{roles: map[uuid.UUID]string{}}, staticPermResolver{}, nil)

	c, w := ginCtx(t, "/tigers/tools/forms", "tigers")
	c.Set(middleware.ContextUserID, uuid.New())
	c.Set(middleware.ContextUserEmail, "stranger@example.com")
	r.Required()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequiredMiddlewareMemberProceeds(t *testing.T) {
	org := testOrg()
	userID := uuid.New()
	r := NewResolver(&countingOrgStore{org: org},
		&fakeMembershipStore{roles: map[uuid.UUID]string{userID: permissions.RoleAdmin}},
		staticPermResolver{}, nil)

	c, w := ginCtx(t, "/tigers/tools/forms", "tigers")
	c.Set(middleware.ContextUserID, userID)
	r.Required()(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
	tc := FromGin(c)
	require.NotNil(t, tc)
	assert.Equal(t, org.ID, tc.OrgID)
}

func TestRequirePermission(t *testing.T) {
	c, w := ginCtx(t, "/tigers/tools/forms", "tigers")
	c.Set(ContextKey, &Context{Permissions: permissions.NewSet(permissions.FormsRead)})

	RequirePermission(permissions.FormsWrite)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionWriteImpliesRead(t *testing.T) {
	c, w := ginCtx(t, "/tigers/tools/forms", "tigers")
	c.Set(ContextKey, &Context{Permissions: permissions.NewSet(permissions.FormsWrite)})

	RequirePermission(permissions.FormsRead)(c)
	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionNoContext(t *testing.T) {
	c, w := ginCtx(t, "/tigers/tools/forms", "tigers")
	RequirePermission(permissions.FormsRead)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
