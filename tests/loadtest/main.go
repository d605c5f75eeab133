package main

import (
	"bytes"
	"encoding/json"
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
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 200
	numRepos     = 20
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

var deliverySeq atomic.Int64

func main() {
	fmt.Println("=== CHD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Users: %d | Repos: %d\n\n", numUsers, numRepos)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/leaderboard")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 0: create and link users
	fmt.Println("\n--- Phase 0: Seeding users ---")
	for i := 0; i < numUsers; i++ {
		userID := fmt.Sprintf("user-%d", i)
		body, _ := json.Marshal(map[string]any{
			"id":           userID,
			"display_name": fmt.Sprintf("User %d", i),
			"email":        fmt.Sprintf("user%d@example.com", i),
		})
		resp, err := httpClient.Post(baseURL+"/users", "application/json", bytes.NewReader(body))
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		link, _ := json.Marshal(map[string]any{
			"provider": "github",
			"login":    fmt.Sprintf("dev-%d", i),
			"user_id":  userID,
		})
		resp, err = httpClient.Post(baseURL+"/accounts", "application/json", bytes.NewReader(link))
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}
	fmt.Printf("Seeded %d users\n", numUsers)

	// Phase 1: webhook-only load
	fmt.Println("\n--- Phase 1: Webhook ingest (POST /webhook) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doWebhook(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (60% webhook, 40% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doWebhook(rng)
		case r < 0.75:
			return doGetLeaderboard()
		case r < 0.85:
			return doGetUser(rng)
		case r < 0.95:
			return doGetActivities(rng)
		default:
			return doGetHistory(rng)
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% webhook, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doWebhook(rng)
		case r < 0.45:
			return doGetLeaderboard()
		case r < 0.70:
			return doGetUser(rng)
		case r < 0.90:
			return doGetActivities(rng)
		default:
			return doGetHistory(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
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

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doWebhook(rng *rand.Rand) result {
	repo := fmt.Sprintf("acme/repo-%d", rng.Intn(numRepos))
	login := fmt.Sprintf("dev-%d", rng.Intn(numUsers))
	commits := make([]any, rng.Intn(4)+1)
	for i := range commits {
		commits[i] = map[string]any{"id": fmt.Sprintf("c%d", i)}
	}

	body := map[string]any{
		"ref":        "refs/heads/main",
		"repository": map[string]any{"full_name": repo},
		"sender":     map[string]any{"login": login},
		"commits":    commits,
	}

	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/webhook?provider=github", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", fmt.Sprintf("load-%d", deliverySeq.Add(1)))

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /webhook", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /webhook", resp.StatusCode, lat, resp.StatusCode != 202}
}

func doGetLeaderboard() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/leaderboard")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /leaderboard", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /leaderboard", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetUser(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/user?id=user-%d", baseURL, rng.Intn(numUsers))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /user", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /user", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetActivities(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/activities?id=user-%d&limit=20", baseURL, rng.Intn(numUsers))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /activities", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /activities", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetHistory(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/history?id=user-%d&limit=20", baseURL, rng.Intn(numUsers))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /history", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /history", resp.StatusCode, lat, resp.StatusCode != 200}
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
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
