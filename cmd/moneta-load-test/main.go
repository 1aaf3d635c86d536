package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/grpcapi"
)

var flavors = []amount.Flavor{
	amount.FlavorUndefined,
	amount.FlavorPrecision,
	amount.FlavorFixedScale,
	amount.FlavorPerformance,
}

func main() {
	var target string
	var workers int
	var queries int
	var timeout time.Duration

	flag.StringVar(&target, "target", "127.0.0.1:9090", "amount registry gRPC address")
	flag.IntVar(&workers, "workers", 8, "Number of concurrent clients")
	flag.IntVar(&queries, "queries", 1000, "Queries per client")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline")
	flag.Parse()

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Error dialing %s: %v", target, err)
	}
	defer conn.Close()
	client := grpcapi.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	types, err := client.AmountTypes(ctx)
	if err != nil {
		log.Fatalf("Error listing amount types: %v", err)
	}

	fmt.Printf("Starting load test: %d workers x %d queries against %s (%d amount types)\n", workers, queries, target, len(types))

	var wg sync.WaitGroup
	var mu sync.Mutex
	latencies := make([]time.Duration, 0, workers*queries)
	resolved := map[amount.Type]int{}
	failures := 0
	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(id)))

			for j := 0; j < queries; j++ {
				required := randomContext(rng, types)
				queryStart := time.Now()
				got, err := client.QueryAmountType(ctx, &required)
				latency := time.Since(queryStart)

				mu.Lock()
				if err != nil {
					failures++
				} else {
					latencies = append(latencies, latency)
					resolved[got]++
				}
				mu.Unlock()

				if ctx.Err() != nil {
					return
				}
			}
		}(i)
	}

	wg.Wait()
	totalDuration := time.Since(start)

	if len(latencies) == 0 {
		fmt.Printf("Load test completed in %v. No queries resolved, %d failed.\n", totalDuration, failures)
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("Load test completed in %v: %d resolved, %d unresolved, %.0f queries/s\n",
		totalDuration, len(latencies), failures, float64(len(latencies)+failures)/totalDuration.Seconds())
	fmt.Printf("Latency p50=%v p95=%v p99=%v max=%v\n",
		percentile(latencies, 0.50), percentile(latencies, 0.95), percentile(latencies, 0.99), latencies[len(latencies)-1])
	for t, n := range resolved {
		fmt.Printf("  %-32s %d\n", t, n)
	}
}

// randomContext draws a requirement. One in four names a registered type.
func randomContext(rng *rand.Rand, types []amount.Type) amount.Context {
	c := amount.Context{
		Precision: rng.Intn(40),
		MaxScale:  rng.Intn(20) - 1,
		Flavor:    flavors[rng.Intn(len(flavors))],
	}
	if len(types) > 0 && rng.Intn(4) == 0 {
		c.AmountType = types[rng.Intn(len(types))]
	}
	return c
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
