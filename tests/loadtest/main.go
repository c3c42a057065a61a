package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 20
	testDuration = 10 * time.Second
)

var (
	guilds  = []string{"112233445566778899", "998877665544332211", "123456789012345678"}
	systems = []string{"Jita", "Amarr", "Tama", "Amamake", "Rancer", "J123456"}
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
	fmt.Println("=== GuildStore Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Guilds: %d\n\n", len(guilds))

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

	// Phase 1: Seed intel
	fmt.Println("\n--- Phase 1: Seeding intel (POST /intel) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doReport(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% other) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doReport(rng)
		case r < 0.75:
			return doList(rng)
		case r < 0.85:
			return doListWindow(rng)
		case r < 0.95:
			return doDeleteMissing(rng)
		default:
			return doGetTypes()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doReport(rng)
		case r < 0.70:
			return doList(rng)
		case r < 0.85:
			return doListWindow(rng)
		default:
			return doGetTypes()
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
	fmt.Println("  " + repeat("-", 88))

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
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func do(req *http.Request, endpoint string, want int) result {
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func randomGuild(rng *rand.Rand) string {
	return guilds[rng.Intn(len(guilds))]
}

func randomReport(rng *rand.Rand) (string, map[string]interface{}) {
	system := systems[rng.Intn(len(systems))]
	switch rng.Intn(4) {
	case 0:
		return "rift", map[string]interface{}{"system": system, "riftType": "wandering", "signature": fmt.Sprintf("SIG-%03d", rng.Intn(1000))}
	case 1:
		return "ore", map[string]interface{}{"system": system, "ore": "veldspar", "volume": rng.Intn(100000) + 1}
	case 2:
		return "fleet", map[string]interface{}{"location": system, "size": rng.Intn(250) + 1, "hostile": rng.Intn(2) == 0}
	default:
		return "site", map[string]interface{}{"system": system, "siteName": "Blood Raider Hideout", "siteType": "combat"}
	}
}

func doReport(rng *rand.Rand) result {
	kind, body := randomReport(rng)
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/intel?guild=%s&type=%s", baseURL, randomGuild(rng), kind)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return do(req, "POST /intel", http.StatusCreated)
}

func doList(rng *rand.Rand) result {
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/intel?guild=%s", baseURL, randomGuild(rng)), nil)
	return do(req, "GET /intel", http.StatusOK)
}

func doListWindow(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/intel?guild=%s&maxAge=%dh", baseURL, randomGuild(rng), rng.Intn(168)+1)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	return do(req, "GET /intel?maxAge", http.StatusOK)
}

func doDeleteMissing(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/intel?guild=%s&id=ore-missing%d", baseURL, randomGuild(rng), rng.Intn(1000))
	req, _ := http.NewRequest(http.MethodDelete, url, nil)
	return do(req, "DELETE /intel", http.StatusNotFound)
}

func doGetTypes() result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/types", nil)
	return do(req, "GET /types", http.StatusOK)
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

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
