package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	pkgAuth "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/pkg/auth"
	testhelpers "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWith(middlewares []gin.HandlerFunc, handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(middlewares...)
	router.Handle(req.Method, req.URL.Path, handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	okHandler := func(c *gin.Context) {
		val, _ := c.Get(PrincipalContextKey)
		principal, _ := val.(model.Principal)
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID})
	}

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		resp := serveWith([]gin.HandlerFunc{AuthRequired(testhelpers.AuthenticatorStub{})}, okHandler, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", resp.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{Err: pkgAuth.ErrInvalidToken}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", resp.Code)
		}
	})

	t.Run("parser failure", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{Err: errors.New("keystore offline")}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer token")
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", resp.Code)
		}
	})

	t.Run("bearer header", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{ParseFn: func(token string) (model.Principal, error) {
			if token != "header-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return model.Principal{UserID: 7, Role: model.RoleUser}, nil
		}}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		var body map[string]int64
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["user_id"] != 7 {
			t.Fatalf("expected principal 7 in context, got %d", body["user_id"])
		}
	})

	t.Run("cookie fallback", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{ParseFn: func(token string) (model.Principal, error) {
			if token != "cookie-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return model.Principal{UserID: 8, Role: model.RoleUser}, nil
		}}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.AddCookie(&http.Cookie{Name: "ares_token", Value: "cookie-token"})
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{
			Principal: model.Principal{UserID: 7, Role: model.RoleUser},
			ProfileFn: func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Role: model.RoleUser, Active: false}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", resp.Code)
		}
	})

	t.Run("account removed", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{
			Principal: model.Principal{UserID: 7, Role: model.RoleUser},
			ProfileFn: func(context.Context, int64) (*model.User, error) {
				return nil, domainErrors.ErrNotFound
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", resp.Code)
		}
	})

	t.Run("profile lookup failure", func(t *testing.T) {
		auth := testhelpers.AuthenticatorStub{
			Principal: model.Principal{UserID: 7, Role: model.RoleUser},
			ProfileFn: func(context.Context, int64) (*model.User, error) {
				return nil, errors.New("storage offline")
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer token")
		resp := serveWith([]gin.HandlerFunc{AuthRequired(auth)}, okHandler, req)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", resp.Code)
		}
	})
}

func TestAdminRequired(t *testing.T) {
	okHandler := func(c *gin.Context) { c.Status(http.StatusOK) }
	setPrincipal := func(p model.Principal) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(PrincipalContextKey, p)
			c.Next()
		}
	}

	t.Run("no principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		resp := serveWith([]gin.HandlerFunc{AdminRequired()}, okHandler, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", resp.Code)
		}
	})

	t.Run("member", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		resp := serveWith([]gin.HandlerFunc{setPrincipal(model.Principal{UserID: 7, Role: model.RoleUser}), AdminRequired()}, okHandler, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", resp.Code)
		}
	})

	t.Run("admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		resp := serveWith([]gin.HandlerFunc{setPrincipal(model.Principal{UserID: 1, Role: model.RoleAdmin}), AdminRequired()}, okHandler, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
	})
}

func TestSetAuthCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetAuthCookie(c, "fresh-token")

	if got := w.Header().Get("Authorization"); got != "Bearer fresh-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ares_token" || cookies[0].Value != "fresh-token" {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected http-only cookie")
	}
}

func TestDecompressRequest(t *testing.T) {
	echo := func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(body))
	}

	t.Run("gzip body", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write([]byte(`{"note":"camp"}`)); err != nil {
			t.Fatalf("compress payload: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("close gzip writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/echo", &buf)
		req.Header.Set("Content-Encoding", "gzip")
		resp := serveWith([]gin.HandlerFunc{DecompressRequest()}, echo, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		if resp.Body.String() != `{"note":"camp"}` {
			t.Fatalf("unexpected body %q", resp.Body.String())
		}
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte("not gzip")))
		req.Header.Set("Content-Encoding", "gzip")
		resp := serveWith([]gin.HandlerFunc{DecompressRequest()}, echo, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.Code)
		}
	})

	t.Run("plain body untouched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte("plain")))
		resp := serveWith([]gin.HandlerFunc{DecompressRequest()}, echo, req)
		if resp.Code != http.StatusOK || resp.Body.String() != "plain" {
			t.Fatalf("unexpected response %d %q", resp.Code, resp.Body.String())
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	resp := serveWith([]gin.HandlerFunc{RequestLogger(logger)}, func(c *gin.Context) { c.Status(http.StatusOK) }, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["path"] != "/items" || entry["method"] != http.MethodGet {
		t.Fatalf("unexpected log entry %+v", entry)
	}
	if status, ok := entry["status"].(float64); !ok || int(status) != http.StatusOK {
		t.Fatalf("unexpected status in log entry %+v", entry)
	}
}
