// Command smoke walks the main portal endpoints against a running instance
// seeded in mock mode and reports per-endpoint pass/fail. It is a deployment
// check, not a test suite.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type check struct {
	Method     string
	Path       string
	Body       string
	Role       string
	WantStatus int
}

type result struct {
	Check    check
	Status   int
	Duration time.Duration
	Err      error
}

var checks = []check{
	{Method: http.MethodGet, Path: "/health", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/auth/me", Role: "vendor", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/vendor/100450", Role: "vendor", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/vendor/100450", Role: "approver", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/changerequest", Role: "vendor", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/changerequest/worklist", Role: "approver", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/changerequest/worklist", Role: "vendor", WantStatus: http.StatusForbidden},
	{Method: http.MethodGet, Path: "/api/v1/changerequest/stats", Role: "approver", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/changerequest/history", Role: "approver", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/changerequest/history/export?format=csv", Role: "approver", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/vendor/onboarding/pending", Role: "approver", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/invitation/list", Role: "admin", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/invitation/list", Role: "vendor", WantStatus: http.StatusForbidden},
	{Method: http.MethodGet, Path: "/api/v1/admin/sap/configuration", Role: "admin", WantStatus: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/invitation/validate/not-a-token", WantStatus: http.StatusOK},
}

var demoAccounts = map[string][2]string{
	"vendor":   {"vendor@acme-global.example.com", "vendor123"},
	"approver": {"approver@procure.example.com", "approver123"},
	"admin":    {"admin@procure.example.com", "admin123"},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	tokens := map[string]string{}
	for role, creds := range demoAccounts {
		token, err := login(client, base, creds[0], creds[1])
		if err != nil {
			log.Fatalf("login as %s failed: %v", role, err)
		}
		tokens[role] = token
	}

	var failed int
	results := make([]result, 0, len(checks))
	for _, chk := range checks {
		res := run(client, base, chk, tokens)
		if res.Err != nil || res.Status != chk.WantStatus {
			failed++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Failed checks: %d of %d\n", failed, len(checks))
	if failed > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, base, email, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := client.Post(strings.TrimRight(base, "/")+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("no access token in login response")
	}
	return envelope.Data.AccessToken, nil
}

func run(client *http.Client, base string, chk check, tokens map[string]string) result {
	res := result{Check: chk}

	var body io.Reader
	if chk.Body != "" {
		body = strings.NewReader(chk.Body)
	}
	req, err := http.NewRequest(chk.Method, strings.TrimRight(base, "/")+chk.Path, body)
	if err != nil {
		res.Err = err
		return res
	}
	if chk.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if chk.Role != "" {
		req.Header.Set("Authorization", "Bearer "+tokens[chk.Role])
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	res.Status = resp.StatusCode
	return res
}

func printReport(results []result) {
	fmt.Println("Smoke Check Report")
	fmt.Println("==================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if res.Status != res.Check.WantStatus {
			status = "FAIL"
		}
		role := res.Check.Role
		if role == "" {
			role = "public"
		}
		fmt.Printf("[%s] %s %s (%s)\n", status, res.Check.Method, res.Check.Path, role)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
		} else {
			fmt.Printf("  Status: %d, want %d (%s)\n", res.Status, res.Check.WantStatus, res.Duration)
		}
	}
}
