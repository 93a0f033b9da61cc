// Maintenance tool for the glance image cache: inspect usage, prefetch
// URLs into the cache, or wipe it.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/glance/internal/config"
	"github.com/llehouerou/glance/internal/diskcache"
	"github.com/llehouerou/glance/internal/fetch"
	"github.com/llehouerou/glance/internal/state"
)

// recentsShown bounds the recents listing.
const recentsShown = 20

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cacheCfg := cfg.GetCacheConfig()

	cache, err := diskcache.Open(cacheCfg.Dir, cacheCfg.DiskBudget())
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer cache.Close()

	switch os.Args[1] {
	case "usage":
		fmt.Printf("%s of %s used\n",
			humanize.Bytes(uint64(cache.Usage())),         //nolint:gosec // usage is non-negative
			humanize.Bytes(uint64(cacheCfg.DiskBudget()))) //nolint:gosec // budget is positive

	case "clear":
		if err := cache.Clear(); err != nil {
			log.Fatalf("Failed to clear cache: %v", err)
		}
		log.Println("Cache cleared")

	case "prefetch":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		prefetch(cache, cfg, os.Args[2:])

	case "recents":
		recents()

	default:
		usage()
		os.Exit(2)
	}
}

func prefetch(cache *diskcache.Cache, cfg *config.Config, urls []string) {
	fetcher := fetch.NewHTTPFetcher(fetch.HTTPOptions{
		Client:    &http.Client{Timeout: cfg.HTTPTimeout()},
		Cache:     cache,
		UserAgent: cfg.HTTP.UserAgent,
		Log:       zerolog.Nop(),
	})

	for _, url := range urls {
		payload, err := fetcher.Fetch(context.Background(), url)
		if err != nil {
			log.Printf("  ERROR: %s: %v", url, err)
			continue
		}
		log.Printf("  %s: %s", url, humanize.Bytes(uint64(len(payload.Data))))
	}
}

func recents() {
	mgr, err := state.Open()
	if err != nil {
		log.Fatalf("Failed to open state: %v", err)
	}
	defer mgr.Close()

	list, err := mgr.ListRecents(recentsShown)
	if err != nil {
		log.Fatalf("Failed to list recents: %v", err)
	}
	fmt.Print(formatRecents(list))
}

func formatRecents(list []state.Recent) string {
	if len(list) == 0 {
		return "No recently viewed images\n"
	}

	var b strings.Builder
	for _, r := range list {
		fmt.Fprintf(&b, "%-20s %s\n", humanize.Time(r.ViewedAt), r.Path)
	}
	return b.String()
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: glance-cache <command>

Commands:
  usage              show cache size against its budget
  clear              delete all cached images
  prefetch <url>...  fetch URLs into the cache
  recents            list recently viewed images
`)
}
