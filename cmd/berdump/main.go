package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/asn1-runtime/codec"
	"github.com/wippyai/asn1-runtime/config"
	"github.com/wippyai/asn1-runtime/frame"
	"github.com/wippyai/asn1-runtime/metrics"
)

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath, "Path to TOML config (missing file uses defaults)")
		framing     = flag.String("framing", "", "Framing override: auto, ber, http, wais")
		hexInput    = flag.Bool("hex", false, "Input is hex text (whitespace ignored)")
		metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address")
		initConfig  = flag.Bool("init", false, "Write a config template to -config and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *initConfig {
		if err := config.WriteTemplate(*configPath, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *configPath)
		return
	}

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: berdump [-config berdump.toml] [-framing auto|ber|http|wais] [-hex] [file]")
		fmt.Fprintln(os.Stderr, "       berdump -i <file>  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       berdump -init      (write config template)")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *framing != "" {
		cfg.Frame.Framing = *framing
	}
	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	codec.SetLogger(logger.Named("codec"))
	frame.SetLogger(logger.Named("frame"))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Listen != "" {
		go serveMetrics(logger, cfg.Metrics.Listen, reg)
	}

	data, name, err := readInput(flag.Arg(0), *hexInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := newSession(cfg, m)
	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(name, data, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, name, data, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(logger *zap.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}

// readInput returns the bytes of path, or stdin when path is empty or "-".
func readInput(path string, hexText bool) ([]byte, string, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "" || path == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	if hexText {
		data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
		if err != nil {
			return nil, "", fmt.Errorf("decode hex: %w", err)
		}
	}
	return data, name, nil
}

func run(w io.Writer, name string, data []byte, s *session) error {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, _ = term.GetSize(int(f.Fd()))
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintf(bw, "Input: %s (%s, framing %s)\n", name, humanize.Bytes(uint64(len(data))), s.framing)
	units, err := s.split(data)
	for _, u := range units {
		fmt.Fprintf(bw, "\n%s\n", u.heading())
		for _, line := range strings.Split(strings.TrimRight(u.body, "\n"), "\n") {
			fmt.Fprintln(bw, clip(line, width))
		}
	}
	fmt.Fprintf(bw, "\n%s\n", s.summary(units))
	if err != nil {
		return fmt.Errorf("at offset %d: %w", s.consumed, err)
	}
	return nil
}

func clip(line string, width int) string {
	if width <= 0 || len(line) <= width {
		return line
	}
	if width <= 3 {
		return line[:width]
	}
	return line[:width-3] + "..."
}
