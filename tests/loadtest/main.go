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
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numRecords   = 500
	batchSize    = 10
)

var customers = []string{"acme", "globex", "initech", "umbrella", "stark"}

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
	fmt.Println("=== Billing Record Store Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Records: %d\n\n", numWorkers, testDuration, numRecords)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
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

	// Phase 1: Seed records
	fmt.Println("\n--- Phase 1: Seeding records (POST /billing/records) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doCreate(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (40% POST, 60% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doCreate(rng)
		case r < 0.40:
			return doUpdate(rng)
		case r < 0.70:
			return doGet(rng)
		case r < 0.85:
			return doList(rng)
		case r < 0.95:
			return doBatch(rng)
		default:
			return doStats()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (5% POST, 95% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doCreate(rng)
		case r < 0.55:
			return doGet(rng)
		case r < 0.75:
			return doList(rng)
		case r < 0.90:
			return doBatch(rng)
		default:
			return doStats()
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

	fmt.Printf("\n  %-32s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

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

		fmt.Printf("  %-32s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, avg, p50, p95, p99)
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func recordID(rng *rand.Rand) string {
	return fmt.Sprintf("load-%d", rng.Intn(numRecords)+1)
}

func doCreate(rng *rand.Rand) result {
	body := map[string]interface{}{
		"id":       recordID(rng),
		"customer": customers[rng.Intn(len(customers))],
		"amount":   float64(rng.Intn(100000)) / 100,
		"currency": "USD",
		"items":    rng.Intn(20) + 1,
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/billing/records", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /billing/records", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// 409 means the id was already seeded; that is expected under load.
	ok := resp.StatusCode == 201 || resp.StatusCode == 409
	return result{"POST /billing/records", resp.StatusCode, lat, !ok}
}

func doGet(rng *rand.Rand) result {
	url := baseURL + "/billing/records/" + recordID(rng)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /billing/records/{id}", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == 200 || resp.StatusCode == 404
	return result{"GET /billing/records/{id}", resp.StatusCode, lat, !ok}
}

func doUpdate(rng *rand.Rand) result {
	body := map[string]interface{}{
		"amount": float64(rng.Intn(100000)) / 100,
	}
	data, _ := json.Marshal(body)
	url := baseURL + "/billing/records/" + recordID(rng)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"PUT /billing/records/{id}", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == 200 || resp.StatusCode == 404
	return result{"PUT /billing/records/{id}", resp.StatusCode, lat, !ok}
}

func doList(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/billing/records?limit=%d&offset=%d", baseURL, 20, rng.Intn(10)*20)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /billing/records", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /billing/records", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doBatch(rng *rand.Rand) result {
	ids := make([]string, batchSize)
	for i := range ids {
		ids[i] = recordID(rng)
	}
	data, _ := json.Marshal(map[string]interface{}{"ids": ids})

	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/billing/records/batch", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /billing/records/batch", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /billing/records/batch", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doStats() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/billing/archive/stats")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /billing/archive/stats", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /billing/archive/stats", resp.StatusCode, lat, resp.StatusCode != 200}
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
