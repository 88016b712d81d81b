package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokens(t *testing.T, opts ...TokenOption) *Tokens {
	t.Helper()
	tok, err := NewTokens("access-secret", "refresh-secret", opts...)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tok
}

func TestNewTokensRequiresDistinctSecrets(t *testing.T) {
	if _, err := NewTokens("", "x"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokens("same", "same"); err == nil {
		t.Fatalf("expected error for identical secrets")
	}
}

func TestGenerateAndVerify(t *testing.T) {
	tok := newTestTokens(t)
	pair, err := tok.GenerateTokens(42, "a@b.com")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if pair.Access == pair.Refresh {
		t.Fatalf("access and refresh tokens must differ")
	}

	claims, err := tok.VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if id, _ := claims.UserID(); id != 42 || claims.Email != "a@b.com" || claims.Issuer != defaultIssuer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != defaultAccessTTL {
		t.Fatalf("access lifetime %v", got)
	}

	claims, err = tok.VerifyRefresh(pair.Refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != defaultRefreshTTL {
		t.Fatalf("refresh lifetime %v", got)
	}

	again, err := tok.GenerateTokens(42, "a@b.com")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if again.Refresh == pair.Refresh {
		t.Fatalf("re-issued refresh token must differ")
	}
}

func TestVerifyRejectsCrossedSecrets(t *testing.T) {
	tok := newTestTokens(t)
	pair, err := tok.GenerateTokens(1, "a@b.com")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if _, err := tok.VerifyRefresh(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := tok.VerifyAccess(pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	tok := newTestTokens(t, WithClock(clock), WithTTLs(time.Minute, time.Hour))

	pair, err := tok.GenerateTokens(1, "a@b.com")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := tok.VerifyAccess(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired access token to fail, got %v", err)
	}
	if _, err := tok.VerifyRefresh(pair.Refresh); err != nil {
		t.Fatalf("refresh token should still be valid: %v", err)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	tok := newTestTokens(t)

	other := newTestTokens(t, WithIssuer("someone-else"))
	pair, _ := other.GenerateTokens(1, "a@b.com")
	if _, err := tok.VerifyAccess(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign issuer accepted: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer: defaultIssuer, Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := tok.VerifyAccess(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg=none accepted: %v", err)
	}

	for _, bad := range []string{"", "   ", "not.a.jwt"} {
		if _, err := tok.VerifyAccess(bad); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%q accepted: %v", bad, err)
		}
	}
}

func TestHasher(t *testing.T) {
	h, err := NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	hash, err := h.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatalf("hash equals plaintext")
	}
	if !h.Compare(hash, "Passw0rd!") {
		t.Fatalf("expected match")
	}
	if h.Compare(hash, "wrong") || h.Compare("", "Passw0rd!") {
		t.Fatalf("unexpected match")
	}
	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestCookiesAttachAndClear(t *testing.T) {
	cookies := Cookies{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour}

	rec := httptest.NewRecorder()
	cookies.For(rec).Attach(TokenPair{Access: "a", Refresh: "r"})
	got := rec.Result().Cookies()
	if len(got) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(got))
	}
	byName := map[string]*http.Cookie{}
	for _, c := range got {
		byName[c.Name] = c
		if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Secure {
			t.Fatalf("unexpected attributes on %s: %+v", c.Name, c)
		}
	}
	if byName[AccessCookie].Value != "a" || byName[AccessCookie].MaxAge != 900 {
		t.Fatalf("access cookie: %+v", byName[AccessCookie])
	}
	if byName[RefreshCookie].Value != "r" || byName[RefreshCookie].MaxAge != 604800 {
		t.Fatalf("refresh cookie: %+v", byName[RefreshCookie])
	}

	secure := Cookies{Secure: true, AccessTTL: time.Minute, RefreshTTL: time.Hour}
	rec = httptest.NewRecorder()
	secure.For(rec).Clear()
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 || c.Value != "" || !c.Secure {
			t.Fatalf("expected cleared secure cookie, got %+v", c)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "r"})
	if cookies.RefreshToken(req) != "r" || cookies.AccessToken(req) != "" {
		t.Fatalf("cookie readers returned wrong values")
	}
}
