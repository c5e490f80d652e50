package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mdutool/mdu/internal/pathutil"
)

func main() {
	dir := flag.String("dir", ".", "Directory to probe")
	limit := flag.Int("limit", 200000, "Max entries to sample (0 = all)")
	workers := flag.Int("workers", 8, "Concurrent lstat workers")
	recursive := flag.Bool("recursive", false, "Walk recursively and sample files/dirs")
	shuffle := flag.Bool("shuffle", false, "Shuffle sampled paths")
	sampleSeed := flag.Int64("seed", 0, "Shuffle seed (0 = time-based)")
	flag.Parse()

	var paths []string
	readDirDur := time.Duration(0)
	start := time.Now()
	if *recursive {
		var walk func(string) error
		var seen int
		walk = func(path string) error {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, de := range entries {
				if *limit > 0 && seen >= *limit {
					return nil
				}
				childPath := pathutil.Join(path, de.Name())
				paths = append(paths, childPath)
				seen++
				if de.IsDir() {
					if err := walk(childPath); err != nil {
						return err
					}
				}
			}
			return nil
		}
		if err := walk(*dir); err != nil {
			fmt.Fprintf(os.Stderr, "walk error: %v\n", err)
			os.Exit(1)
		}
		readDirDur = time.Since(start)
	} else {
		entries, err := os.ReadDir(*dir)
		readDirDur = time.Since(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "readdir error: %v\n", err)
			os.Exit(1)
		}
		if *limit > 0 && *limit < len(entries) {
			entries = entries[:*limit]
		}
		paths = make([]string, 0, len(entries))
		for _, de := range entries {
			paths = append(paths, pathutil.Join(*dir, de.Name()))
		}
	}

	if *shuffle && len(paths) > 1 {
		seed := *sampleSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(paths), func(i, j int) { paths[i], paths[j] = paths[j], paths[i] })
	}

	var idx int64
	var statCount int64
	var errCount int64
	var totalDur int64
	var totalBlocks int64

	start = time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n := int(atomic.AddInt64(&idx, 1)) - 1
				if n >= len(paths) {
					return
				}
				t0 := time.Now()
				info, err := os.Lstat(paths[n])
				atomic.AddInt64(&totalDur, time.Since(t0).Microseconds())
				atomic.AddInt64(&statCount, 1)
				if err != nil {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				if stat, ok := info.Sys().(*syscall.Stat_t); ok {
					atomic.AddInt64(&totalBlocks, stat.Blocks)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	avg := time.Duration(0)
	if statCount > 0 {
		avg = time.Duration(atomic.LoadInt64(&totalDur)/statCount) * time.Microsecond
	}

	fmt.Printf("dir=%s entries=%d workers=%d recursive=%t shuffle=%t\n", *dir, int(statCount), *workers, *recursive, *shuffle)
	fmt.Printf("readdir: %v\n", readDirDur)
	fmt.Printf("lstat:   calls=%d avg=%v total=%v errors=%d blocks=%d\n", statCount, avg, elapsed, errCount, totalBlocks)
	if elapsed.Seconds() > 0 {
		fmt.Printf("throughput: %.0f stats/sec\n", float64(statCount)/elapsed.Seconds())
	}
}
