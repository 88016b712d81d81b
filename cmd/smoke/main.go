package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"userauth.dev/internal/ids"
	"userauth.dev/internal/obs"
)

type step struct {
	name   string
	method string
	path   string
	body   any
	want   int
}

func main() {
	addr := flag.String("addr", envOr("USERAUTH_SMOKE_ADDR", "http://localhost:8080"), "API base URL")
	flag.Parse()
	log := obs.Logger()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	email := "smoke-" + strings.ToLower(ids.New()) + "@example.com"
	creds := map[string]string{"email": email, "pwd": "Sm0ke!pass"}
	signup := map[string]string{"name": "Smoke", "email": email, "pwd": creds["pwd"]}

	steps := []step{
		{"signup", http.MethodPost, "/v1/users", signup, http.StatusCreated},
		{"me", http.MethodGet, "/v1/auth/me", nil, http.StatusOK},
		{"login", http.MethodPost, "/v1/auth/login", creds, http.StatusOK},
		{"refresh", http.MethodPost, "/v1/auth/refresh", nil, http.StatusOK},
		{"logout", http.MethodPost, "/v1/auth/logout", nil, http.StatusOK},
		{"refresh after logout", http.MethodPost, "/v1/auth/refresh", nil, http.StatusUnauthorized},
	}
	for _, s := range steps {
		code, err := call(ctx, client, strings.TrimRight(*addr, "/")+s.path, s.method, s.body)
		if err != nil {
			log.Error("smoke step failed", "step", s.name, "err", err)
			os.Exit(1)
		}
		if code != s.want {
			log.Error("smoke step unexpected status", "step", s.name, "status", code, "want", s.want)
			os.Exit(1)
		}
		log.Info("smoke step ok", "step", s.name, "status", code)
	}
	fmt.Println("smoke OK")
}

func call(ctx context.Context, client *http.Client, url, method string, body any) (int, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &payload)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
