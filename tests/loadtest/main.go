package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"
)

// The load test only touches endpoints that never reach the inference
// service, so it can run against a server with a real API key.

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8080", "server base URL")
	numWorkers   = flag.Int("workers", 50, "concurrent workers")
	numUsers     = flag.Int("users", 100, "accounts to register before the run")
	testDuration = flag.Duration("duration", 10*time.Second, "length of each phase")
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.Parse()

	fmt.Println("=== Falci Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Users: %d\n\n", *numWorkers, *testDuration, *numUsers)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			drain(resp)
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Registering accounts (POST /auth/register) ---")
	tokens := registerUsers(*numUsers)
	if len(tokens) == 0 {
		fmt.Println("FAILED: no account could be registered")
		return
	}
	fmt.Printf("  %d sessions ready\n", len(tokens))

	fmt.Println("\n--- Phase 2: Read-heavy load ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		token := tokens[rng.Intn(len(tokens))]
		r := rng.Float64()
		switch {
		case r < 0.35:
			return doGet("/history", token)
		case r < 0.55:
			return doGet("/profile", token)
		case r < 0.75:
			return doGet("/reading?kind="+kinds[rng.Intn(len(kinds))], token)
		case r < 0.95:
			return doGet("/chat", token)
		default:
			return doGet("/health", "")
		}
	})

	fmt.Println("\n--- Phase 3: Login churn (20% login, 80% GET) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		i := rng.Intn(len(tokens))
		if rng.Float64() < 0.20 {
			return doLogin(i)
		}
		return doGet("/history", tokens[i])
	})
}

var kinds = []string{"coffee", "palm"}

func email(i int) string {
	return fmt.Sprintf("load_%d@example.com", i)
}

func registerUsers(n int) []string {
	tokens := make([]string, 0, n)
	for i := 0; i < n; i++ {
		body, _ := json.Marshal(map[string]string{
			"name":     fmt.Sprintf("Yük %d", i),
			"email":    email(i),
			"password": "load-test",
		})
		resp, err := httpClient.Post(*baseURL+"/auth/register", "application/json", bytes.NewReader(body))
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusConflict {
			drain(resp)
			if token, ok := login(i); ok {
				tokens = append(tokens, token)
			}
			continue
		}
		if token, ok := readToken(resp); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func login(i int) (string, bool) {
	body, _ := json.Marshal(map[string]string{"email": email(i), "password": "load-test"})
	resp, err := httpClient.Post(*baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	return readToken(resp)
}

func readToken(resp *http.Response) (string, bool) {
	defer func() { _ = resp.Body.Close() }()
	var payload struct {
		Token string `json:"token"`
	}
	if resp.StatusCode >= 300 || json.NewDecoder(resp.Body).Decode(&payload) != nil {
		return "", false
	}
	return payload.Token, payload.Token != ""
}

// doLogin replaces the account's session, so later requests with the old
// token are expected to fail with 401 until the worker picks a fresh one.
func doLogin(i int) result {
	start := time.Now()
	_, ok := login(i)
	return result{"POST /auth/login", http.StatusOK, time.Since(start), !ok}
}

func doGet(path, token string) result {
	endpoint := "GET " + strings.SplitN(path, "?", 2)[0]
	req, _ := http.NewRequest(http.MethodGet, *baseURL+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	drain(resp)
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
