package httpserver

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

func identityFor(t *testing.T, customers CustomerService, header string) identity {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got identity
	router := gin.New()
	router.Use(identityMiddleware(customers, log.New(io.Discard, "", 0)))
	router.GET("/", func(c *gin.Context) {
		got = currentIdentity(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestIdentityMiddlewareResolvesToken(t *testing.T) {
	customers := &stubCustomers{byToken: map[string]*domain.Customer{
		"valid-token": {ID: 9, Email: "jess@example.com"},
	}}

	id := identityFor(t, customers, "Bearer valid-token")
	if !id.authenticated() || id.customer.ID != 9 {
		t.Fatalf("expected customer 9, got %+v", id)
	}
}

func TestIdentityMiddlewareGuestPaths(t *testing.T) {
	customers := &stubCustomers{byToken: map[string]*domain.Customer{}}
	cases := map[string]string{
		"no header":     "",
		"unknown token": "Bearer nope",
		"wrong scheme":  "Basic dXNlcjpwYXNz",
		"bare prefix":   "Bearer ",
	}
	for name, header := range cases {
		if id := identityFor(t, customers, header); id.authenticated() {
			t.Fatalf("%s: expected guest identity, got %+v", name, id)
		}
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"Token abc":    "",
		"":             "",
	}
	for header, want := range cases {
		if got := bearerToken(header); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
