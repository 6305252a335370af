package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"lanbench/bench"
	"lanbench/echo"
)

const traceRuntime = false

func main() {
	// tracing for dev
	if traceRuntime {
		cleanup, err := startProfiling()

		if err != nil {
			log.Fatalf("Failed to start tracing - %v", err)
		}

		defer cleanup()
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "echo-server":
		runEchoServer(os.Args[2:])
	case "benchmark":
		runBenchmark(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  lanbench echo-server [--port n] [--status-port n]")
	fmt.Fprintln(os.Stderr, "  lanbench benchmark --files path [--files path ...] --ip addr [flags]")
}

// signalContext cancels on SIGINT/SIGTERM so both subcommands shut down
// cleanly on operator interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx, cancel
}

func runEchoServer(args []string) {
	fs := flag.NewFlagSet("echo-server", flag.ExitOnError)
	port := fs.Int("port", bench.DefaultEchoPort, "TCP port to listen on")
	statusPort := fs.Int("status-port", 0, "HTTP status endpoint port (0 disables)")
	_ = fs.Parse(args)

	srv, err := echo.Listen(*port)

	if err != nil {
		log.Fatalf("Failed to start echo server - %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if *statusPort > 0 {
		mux := http.NewServeMux()
		mux.HandleFunc("/status", echo.CreateStatusEndpoint(srv))

		go func() {
			addr := fmt.Sprintf(":%d", *statusPort)

			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Status endpoint stopped - %v", err)
			}
		}()
	}

	log.Printf("Echo server listening on %s", srv.Addr())

	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("Echo server failed - %v", err)
	}
}

func runBenchmark(args []string) {
	var files stringList

	fs := flag.NewFlagSet("benchmark", flag.ExitOnError)
	fs.Var(&files, "files", "target file to benchmark (repeatable)")
	ip := fs.String("ip", "", "echo server address for transfer trials")
	port := fs.Int("port", bench.DefaultEchoPort, "echo server port")
	repeats := fs.Int("repeats", bench.DefaultRepeats, "trials per (file, operation) pair, minimum 2")
	transcodeSeconds := fs.Float64("transcode-seconds", bench.DefaultTranscodeSeconds, "clip length handed to the transcoder")
	ffmpeg := fs.String("ffmpeg", bench.DefaultFFmpegPath, "transcoder binary")
	ops := fs.String("ops", "", "comma-separated operations to run (default read,transcode,transfer)")
	configPath := fs.String("config", "", "TOML config file; flags override its values")
	statusURL := fs.String("status-url", "", "echo server status endpoint for drain verification")
	_ = fs.Parse(args)

	var cfg bench.Config

	if *configPath != "" {
		loaded, err := bench.LoadConfig(*configPath)

		if err != nil {
			log.Fatalf("Invalid config - %v", err)
		}

		cfg = *loaded
	}

	// explicit flags win over the config file
	var flagErr error

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "files":
			cfg.Files = files
		case "ip":
			cfg.RemoteIP = *ip
		case "port":
			cfg.EchoPort = *port
		case "repeats":
			cfg.Repeats = *repeats
		case "transcode-seconds":
			cfg.TranscodeSeconds = *transcodeSeconds
		case "ffmpeg":
			cfg.FFmpegPath = *ffmpeg
		case "status-url":
			cfg.StatusURL = *statusURL
		case "ops":
			parsed, err := bench.ParseOperations(*ops)

			if err != nil {
				flagErr = err
				return
			}

			cfg.Operations = parsed
		}
	})

	if flagErr != nil {
		log.Fatalf("Invalid input - %v", flagErr)
	}

	cfg.Renderer = renderTable

	service, err := bench.NewService(cfg)

	if err != nil {
		log.Fatalf("Invalid input - %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := service.Run(ctx); err != nil {
		log.Fatalf("Benchmark failed - %v", err)
	}
}

// stringList makes --files repeatable.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
