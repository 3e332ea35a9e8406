package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-portal/internal/db"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

func newDirectory(t *testing.T, devLogin bool) *Directory {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("root-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	d := NewDirectory(dbh, "admin", string(hash), devLogin)
	require.NoError(t, d.AddUser(ctx, "u-42", "ana", "s3cret", rbac.RoleTutor))
	return d
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t, true)

	sub, role, err := d.Authenticate(ctx, "admin", "root-pass", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
	assert.Equal(t, rbac.RoleStaff, role)

	sub, role, err = d.Authenticate(ctx, "ana", "s3cret", rbac.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "u-42", sub)
	assert.Equal(t, rbac.RoleTutor, role, "stored role wins over the requested one")

	_, _, err = d.Authenticate(ctx, "ana", "wrong", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	sub, role, err = d.Authenticate(ctx, "lee", "lee", rbac.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "lee", sub)
	assert.Equal(t, rbac.RoleStudent, role)

	_, _, err = d.Authenticate(ctx, "lee", "lee", rbac.RoleStaff)
	assert.ErrorIs(t, err, ErrBadCredentials)

	assert.Error(t, d.AddUser(ctx, "u-1", "x", "y", "admin"))
}

func TestDevLoginDisabled(t *testing.T) {
	d := newDirectory(t, false)
	_, _, err := d.Authenticate(context.Background(), "lee", "lee", rbac.RoleStudent)
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginThenProtectedRoute(t *testing.T) {
	d := newDirectory(t, true)
	a := NewAuthService("test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ana","password":"s3cret"}`))
	LoginHandler(a, d)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, rbac.RoleTutor, out.Role)

	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+out.AccessToken)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-42", gotSub)
	assert.Equal(t, rbac.RoleTutor, gotRole)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+out.AccessToken+"x")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ana","password":"nope"}`))
	LoginHandler(a, d)(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttachRoleFromDB(t *testing.T) {
	d := newDirectory(t, true)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = rbac.RoleFromContext(r.Context())
	})
	serve := func(fallback bool, sub, claim string) int {
		seen = ""
		ctx := rbac.WithRole(WithSubject(context.Background(), sub), claim)
		rec := httptest.NewRecorder()
		AttachRoleFromDB(d.db, fallback)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		return rec.Code
	}

	// stored role overrides an escalated claim
	assert.Equal(t, http.StatusOK, serve(false, "u-42", rbac.RoleStaff))
	assert.Equal(t, rbac.RoleTutor, seen)

	assert.Equal(t, http.StatusForbidden, serve(false, "lee", rbac.RoleStudent))
	assert.Equal(t, http.StatusOK, serve(true, "lee", rbac.RoleStudent))
	assert.Equal(t, rbac.RoleStudent, seen)
	assert.Equal(t, http.StatusOK, serve(false, "admin", rbac.RoleStaff))
}

func TestChangePasswordAndRole(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t, false)

	assert.ErrorIs(t, d.ChangePassword(ctx, "u-42", "wrong", "next"), ErrBadCredentials)
	assert.ErrorIs(t, d.ChangePassword(ctx, "u-missing", "x", "y"), ErrUnknownUser)
	require.NoError(t, d.ChangePassword(ctx, "u-42", "s3cret", "next"))
	_, _, err := d.Authenticate(ctx, "ana", "next", "")
	require.NoError(t, err)

	require.NoError(t, d.SetRole(ctx, "ana", rbac.RoleStaff))
	assert.ErrorIs(t, d.SetRole(ctx, "u-42", rbac.RoleStudent), ErrLastStaff)
	assert.ErrorIs(t, d.SetRole(ctx, "u-42", "owner"), ErrUnknownRole)
	assert.ErrorIs(t, d.SetRole(ctx, "nobody", rbac.RoleTutor), ErrUnknownUser)

	require.NoError(t, d.AddUser(ctx, "u-43", "bo", "pw", rbac.RoleStaff))
	require.NoError(t, d.SetRole(ctx, "u-42", rbac.RoleStudent))

	users, err := d.List(ctx, rbac.RoleStudent)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-42", users[0].ID)
	assert.Empty(t, users[0].Password)
}

func TestUpsertRejectsIncompleteUsers(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t, false)

	_, _, err := d.Upsert(ctx, []User{{ID: "u-9", Username: "nopw", Role: rbac.RoleStudent}})
	assert.ErrorIs(t, err, ErrInvalidUser)
	_, _, err = d.Upsert(ctx, []User{{ID: "", Username: "x", Password: "pw"}})
	assert.ErrorIs(t, err, ErrInvalidUser)
	_, _, err = d.Upsert(ctx, []User{{ID: "u-9", Username: "x", Password: "pw", Role: "owner"}})
	assert.ErrorIs(t, err, ErrUnknownRole)
}
