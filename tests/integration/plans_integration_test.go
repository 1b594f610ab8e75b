package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestPlanEndpointAllowanceGuard runs against a live daytrip-api started with DAYTRIP_DB_DSN.
// It seeds a client with one remaining plan, expects the first POST /api/plans to succeed
// and the second to be rejected with 429.
func TestPlanEndpointAllowanceGuard(t *testing.T) {
	loadDotEnv(t)

	baseURL := strings.TrimRight(os.Getenv("DAYTRIP_API_BASE_URL"), "/")
	if baseURL == "" {
		t.Skip("DAYTRIP_API_BASE_URL not set; skipping live API test")
	}
	dsn := firstNonEmpty(os.Getenv("DAYTRIP_TEST_DSN"), os.Getenv("DAYTRIP_DB_DSN"))
	if dsn == "" {
		t.Skip("DAYTRIP_TEST_DSN not set; skipping live API test")
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, usedDSN := mustConnectDB(t, ctx, dsn)
	t.Cleanup(func() { db.Close() })
	t.Logf("using postgres dsn: %s", redactedDSN(usedDSN))

	clientID := fmt.Sprintf("it-%d", time.Now().UnixNano())
	if _, err := db.Exec(ctx, `
		INSERT INTO plan_usage (client_id, plans_remaining, last_reset_month)
		VALUES ($1, 1, $2)
		ON CONFLICT (client_id) DO UPDATE SET
			plans_remaining = EXCLUDED.plans_remaining,
			last_reset_month = EXCLUDED.last_reset_month
	`, clientID, time.Now().UTC().Format("2006-01")); err != nil {
		t.Fatalf("seed plan_usage: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		_, _ = db.Exec(cleanupCtx, "DELETE FROM plan_usage WHERE client_id = $1", clientID)
	})

	waitForAPIReady(t, client, baseURL)

	status1, body1 := callPlans(t, client, baseURL, clientID, "Kamakura", "train")
	if status1 != http.StatusOK {
		t.Fatalf("first call: expected %d, got %d, body=%s", http.StatusOK, status1, string(body1))
	}
	var okResp struct {
		RunID     string `json:"run_id"`
		Itinerary string `json:"itinerary"`
	}
	if err := json.Unmarshal(body1, &okResp); err != nil {
		t.Fatalf("first call: unmarshal response: %v, raw=%s", err, string(body1))
	}
	if strings.TrimSpace(okResp.Itinerary) == "" {
		t.Fatalf("first call: expected non-empty itinerary, raw=%s", string(body1))
	}
	t.Logf("run %s itinerary:\n%s", okResp.RunID, okResp.Itinerary)

	status2, body2 := callPlans(t, client, baseURL, clientID, "Kamakura", "train")
	if status2 != http.StatusTooManyRequests {
		t.Fatalf("second call: expected %d, got %d, body=%s", http.StatusTooManyRequests, status2, string(body2))
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT plans_remaining FROM plan_usage WHERE client_id = $1", clientID).Scan(&remaining); err != nil {
		t.Fatalf("query remaining plans: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected plans_remaining=0 after 2 calls, got %d", remaining)
	}
}

func callPlans(t *testing.T, client *http.Client, baseURL, clientID, city, mode string) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"city": city, "mode": mode})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/plans", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("call /api/plans: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp.StatusCode, body
}

func mustConnectDB(t *testing.T, parent context.Context, primaryDSN string) (*pgxpool.Pool, string) {
	t.Helper()

	candidates := uniqueNonEmpty(
		primaryDSN,
		strings.TrimSpace(os.Getenv("DAYTRIP_TEST_DSN")),
		strings.TrimSpace(os.Getenv("DAYTRIP_DB_DSN")),
	)

	var errs []string
	for _, dsn := range candidates {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		db, err := pgxpool.New(ctx, dsn)
		if err != nil {
			cancel()
			errs = append(errs, fmt.Sprintf("%s -> new pool: %v", redactedDSN(dsn), err))
			continue
		}
		if err := db.Ping(ctx); err != nil {
			cancel()
			db.Close()
			errs = append(errs, fmt.Sprintf("%s -> ping: %v", redactedDSN(dsn), err))
			continue
		}
		cancel()
		return db, dsn
	}

	t.Fatalf(
		"cannot connect to postgres. tried DSNs:\n- %s\nhint: start postgres and point DAYTRIP_TEST_DSN at it",
		strings.Join(errs, "\n- "),
	)
	return nil, ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func uniqueNonEmpty(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func redactedDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || at <= scheme+3 {
		return dsn
	}
	return dsn[:scheme+3] + "***:***" + dsn[at:]
}

func waitForAPIReady(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/health", nil)
		if err == nil {
			resp, err := client.Do(req)
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("api not ready: GET %s/health did not return 200 in time", baseURL)
}

func loadDotEnv(t *testing.T) {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	path := ""
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if path == "" {
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.TrimSpace(parts[0])
		v := strings.TrimSpace(parts[1])
		if k == "" {
			continue
		}
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		_ = os.Setenv(k, v)
	}
}
