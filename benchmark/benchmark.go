package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cookedfr/cookedfr/internal/schema"
)

type BenchmarkClient struct {
	baseURL   string
	path      string
	names     []string
	nameIndex uint64
	client    *http.Client
}

type runResult struct {
	duration     time.Duration
	success      bool
	statusCode   int
	err          error
	firstByte    time.Duration
	emptyFortune bool
}

func newBenchmarkClient(baseURL, path string, names []string) *BenchmarkClient {
	return &BenchmarkClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		names:   names,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *BenchmarkClient) nextName() string {
	idx := atomic.AddUint64(&c.nameIndex, 1)
	return c.names[(idx-1)%uint64(len(c.names))]
}

func (c *BenchmarkClient) Do(ctx context.Context) runResult {
	start := time.Now()

	body, err := json.Marshal(schema.FortuneRequest{Name: c.nextName()})
	if err != nil {
		return runResult{err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return runResult{err: fmt.Errorf("build request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "cookedfr-benchmark/0.1")

	var firstByte time.Duration
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() {
			firstByte = time.Since(start)
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	resp, err := c.client.Do(req)
	if err != nil {
		return runResult{duration: time.Since(start), err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	success := err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300

	result := runResult{
		duration:   duration,
		success:    success,
		statusCode: resp.StatusCode,
		err:        err,
		firstByte:  firstByte,
	}

	if success {
		var out schema.FortuneResponse
		if json.Unmarshal(respBody, &out) != nil || out.Fortune == "" {
			result.emptyFortune = true
		}
	}

	return result
}

type summary struct {
	mu         sync.Mutex
	durations  []time.Duration
	firstBytes []time.Duration
	statuses   map[int]int
	total      int
	success    int
	transport  int
	empty      int
}

func (s *summary) add(result runResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if s.statuses == nil {
		s.statuses = make(map[int]int)
	}
	if result.statusCode != 0 {
		s.statuses[result.statusCode]++
	} else {
		s.transport++
	}
	if result.success {
		s.success++
		s.durations = append(s.durations, result.duration)
		if result.firstByte > 0 {
			s.firstBytes = append(s.firstBytes, result.firstByte)
		}
	}
	if result.emptyFortune {
		s.empty++
	}
}

func percentile(values []time.Duration, p float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	rank := p * float64(len(values)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(values) {
		return values[lower]
	}
	weight := rank - float64(lower)
	return time.Duration(float64(values[lower])*(1-weight) + float64(values[upper])*weight)
}

func average(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	var total time.Duration
	for _, v := range values {
		total += v
	}
	return total / time.Duration(len(values))
}

// loadNames reads a JSON array of names.
func loadNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s contains no names", path)
	}
	return names, nil
}

// run sends count requests (or loops until ctx ends) with at most concurrency in flight.
func run(ctx context.Context, client *BenchmarkClient, count, concurrency int, loop bool, sum *summary) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; loop || i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := client.Do(ctx)
			sum.add(res)
			if res.err != nil && ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "request error: %v\n", res.err)
			}
			return nil
		})
	}

	return g.Wait()
}

func main() {
	baseURL := flag.String("base-url", "http://127.0.0.1:8080", "Benchmark target base URL")
	path := flag.String("path", "/api/fortune", "Relay path")
	count := flag.Int("count", 1, "Number of requests to send")
	concurrency := flag.Int("concurrency", 1, "Number of concurrent workers")
	name := flag.String("name", "Alex", "Name to request a fortune for")
	namesFile := flag.String("names", "", "Path to JSON array of names to rotate through")
	loop := flag.Bool("loop", false, "Send requests continuously until interrupted")
	flag.Parse()

	names := []string{*name}
	if *namesFile != "" {
		loaded, err := loadNames(*namesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load names: %v\n", err)
			os.Exit(1)
		}
		names = loaded
	}
	if *concurrency < 1 {
		*concurrency = 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := newBenchmarkClient(*baseURL, *path, names)

	var sum summary
	if err := run(ctx, client, *count, *concurrency, *loop, &sum); err != nil {
		fmt.Fprintf(os.Stderr, "benchmark error: %v\n", err)
	}

	fmt.Printf("Total requests: %d\n", sum.total)
	fmt.Printf("Success: %d, Failed: %d\n", sum.success, sum.total-sum.success)

	codes := make([]int, 0, len(sum.statuses))
	for code := range sum.statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Printf("  HTTP %d: %d\n", code, sum.statuses[code])
	}
	if sum.transport > 0 {
		fmt.Printf("  Transport errors: %d\n", sum.transport)
	}
	if sum.empty > 0 {
		fmt.Printf("  Empty fortunes: %d\n", sum.empty)
	}

	if len(sum.durations) > 0 {
		fmt.Printf("Average duration: %s\n", average(sum.durations))
		fmt.Printf("P50: %s\n", percentile(sum.durations, 0.50))
		fmt.Printf("P75: %s\n", percentile(sum.durations, 0.75))
		fmt.Printf("P90: %s\n", percentile(sum.durations, 0.90))
		fmt.Printf("P95: %s\n", percentile(sum.durations, 0.95))
	}
	if len(sum.firstBytes) > 0 {
		fmt.Printf("Avg time to first byte: %s\n", average(sum.firstBytes))
	}
}
