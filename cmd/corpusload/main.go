package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/jayantmadugula/corpus-parsing-scripts/service"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "convert":
		convertCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: corpusload <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  convert  Convert a raw dataset into a SQLite corpus store")
	fmt.Fprintln(os.Stderr, "  stats    Show row counts for a corpus store")
	fmt.Fprintln(os.Stderr, "  check    Audit a corpus store for integrity defects")
	fmt.Fprintf(os.Stderr, "Datasets: %s\n", strings.Join(service.Names(), "|"))
}

func convertCmd(args []string) {
	flags := flag.NewFlagSet("convert", flag.ExitOnError)
	dataset := flags.String("dataset", "", "dataset name (required unless --all)")
	inputPath := flags.String("path", "", "raw dataset directory or file (required without config)")
	dbPath := flags.String("db", "", "destination SQLite database path")
	configPath := flags.String("config", "", "config yaml with datasets (optional)")
	all := flags.Bool("all", false, "convert every dataset in config (requires --config)")
	progress := flags.Bool("progress", false, "show conversion progress")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("convert", *debugSleep)

	specs, err := service.ResolveDatasets(service.ResolveRequest{
		Dataset:     *dataset,
		InputPath:   *inputPath,
		DBPath:      *dbPath,
		ConfigPath:  *configPath,
		All:         *all,
		RequirePath: true,
	})
	if err != nil {
		log.Fatalf("resolve datasets: %v", err)
	}

	svc := service.New()
	for _, spec := range specs {
		result, err := svc.Convert(ctx, service.ConvertRequest{
			Dataset:   spec.Name,
			InputPath: spec.Path,
			DBPath:    spec.DBPath,
			Logf:      log.Printf,
			Progress:  progressPrinter(*progress),
		})
		if err != nil {
			log.Fatalf("convert %s: %v", spec.Name, err)
		}
		if *progress {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Printf("dataset=%s db=%s assets=%d documents=%d segments=%d annotations=%d\n",
			result.Dataset, spec.DBPath, result.Assets, result.Documents, result.Segments, result.Annotations)
	}
}

func statsCmd(args []string) {
	flags := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath := flags.String("db", "", "SQLite database path (required unless --config)")
	dataset := flags.String("dataset", "", "dataset name (with --config)")
	configPath := flags.String("config", "", "config yaml with datasets (optional)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("stats", *debugSleep)

	dbPathVal := resolveDBPath(flags, *dbPath, *dataset, *configPath)
	result, err := service.New().Stats(ctx, service.StatsRequest{DBPath: dbPathVal})
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	fmt.Printf("dataset=%s documents=%d segments=%d annotations=%d origins=%d assets=%d\n",
		result.Dataset, result.Counts.Documents, result.Counts.Segments,
		result.Counts.Annotations, result.Counts.Origins, result.Counts.Assets)
	kinds := make([]string, 0, len(result.Counts.Kinds))
	for kind := range result.Counts.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("kind=%s documents=%d\n", kind, result.Counts.Kinds[kind])
	}
}

func checkCmd(args []string) {
	flags := flag.NewFlagSet("check", flag.ExitOnError)
	dbPath := flags.String("db", "", "SQLite database path (required unless --config)")
	dataset := flags.String("dataset", "", "dataset name (with --config)")
	configPath := flags.String("config", "", "config yaml with datasets (optional)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("check", *debugSleep)

	dbPathVal := resolveDBPath(flags, *dbPath, *dataset, *configPath)
	result, err := service.New().Check(ctx, service.CheckRequest{DBPath: dbPathVal})
	if err != nil {
		log.Fatalf("check: %v", err)
	}
	stats := result.Stats
	fmt.Printf("dataset=%s orphan_segments=%d orphan_annotations=%d non_contiguous_docs=%d unattributed_docs=%d\n",
		result.Dataset, stats.OrphanSegments, stats.OrphanAnnotations, stats.NonContiguousDocs, stats.UnattributedDocs)
	if !stats.Clean() {
		os.Exit(1)
	}
}

// resolveDBPath resolves the destination database: --db wins, otherwise the
// config is consulted for the named dataset.
func resolveDBPath(flags *flag.FlagSet, dbPath, dataset, configPath string) string {
	if dbPath != "" {
		return dbPath
	}
	if configPath == "" || dataset == "" {
		flags.Usage()
		os.Exit(2)
	}
	specs, err := service.ResolveDatasets(service.ResolveRequest{
		Dataset:    dataset,
		ConfigPath: configPath,
	})
	if err != nil {
		log.Fatalf("resolve datasets: %v", err)
	}
	return specs[0].DBPath
}

func progressPrinter(enabled bool) func(dataset string, documents int) {
	if !enabled {
		return nil
	}
	lastLen := 0
	return func(dataset string, documents int) {
		line := fmt.Sprintf("dataset=%s documents=%d", dataset, documents)
		if lastLen > len(line) {
			line = line + strings.Repeat(" ", lastLen-len(line))
		}
		lastLen = len(line)
		fmt.Fprintf(os.Stderr, "\r%s", line)
	}
}

func maybeDebugSleep(cmd string, seconds int) {
	if seconds <= 0 {
		seconds = debugSleepFromEnv()
	}
	if seconds <= 0 {
		return
	}
	log.Printf("debug: cmd=%s pid=%d sleep=%ds", cmd, os.Getpid(), seconds)
	time.Sleep(time.Duration(seconds) * time.Second)
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}

func debugSleepFromEnv() int {
	val := strings.TrimSpace(os.Getenv("CORPUSLOAD_DEBUG_SLEEP"))
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
