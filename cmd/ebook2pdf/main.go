package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/exec"
	"github.com/fwojciec/ebook2pdf/fontconfig"
	"github.com/fwojciec/ebook2pdf/fpdf"
	ebookhttp "github.com/fwojciec/ebook2pdf/http"
	"github.com/fwojciec/ebook2pdf/inkscape"
	"github.com/fwojciec/ebook2pdf/job"
	"github.com/fwojciec/ebook2pdf/pdfcpu"
	"github.com/fwojciec/ebook2pdf/rod"
	"github.com/fwojciec/ebook2pdf/session"
	ebookslog "github.com/fwojciec/ebook2pdf/slog"
	"github.com/fwojciec/ebook2pdf/websocket"
	"github.com/fwojciec/ebook2pdf/woff2"
	"github.com/fwojciec/ebook2pdf/yaml"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS,
	// in which case the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded from the --config file during Run.
	Config *ebook2pdf.Config

	// Listener, if set, is served instead of listening on the configured
	// port.
	Listener net.Listener

	// Runner, if set, replaces the production job pipeline.
	Runner ebook2pdf.JobRunner
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run parses args, loads the configuration and serves until ctx is done.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	exited := false
	parser, err := kong.New(cli,
		kong.Name("ebook2pdf"),
		kong.Description("Serve a web page that converts learninghub ebooks to PDF."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if exited {
		return nil
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(cli.Config, logger)
	if err != nil {
		return err
	}
	m.Config = cfg

	addr := cli.Addr
	if addr == "" {
		addr = ":" + strconv.Itoa(cfg.Port)
	}

	runner := m.Runner
	if runner == nil {
		runner = newRunner(cfg, logger)
	}

	jobs := websocket.NewHandler(runner, websocket.WithLogger(logger), websocket.WithMaxJobs(cfg.MaxJobs))
	server := &http.Server{
		Addr:              addr,
		Handler:           NewServer(cfg, jobs, logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ln := m.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := jobs.Wait(shutdownCtx); err != nil {
			return fmt.Errorf("waiting for websocket connections: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// loadConfig reads path, falling back to the defaults when it does not
// exist.
func loadConfig(path string, logger *slog.Logger) (*ebook2pdf.Config, error) {
	cfg, err := yaml.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("config file not found, using defaults", "path", path)
		return ebook2pdf.NewConfig(), nil
	} else if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner wires the production pipeline.
func newRunner(cfg *ebook2pdf.Config, logger *slog.Logger) *job.Runner {
	tool := ebookslog.NewLoggingTool(exec.NewRunner(), logger)
	launcher := rod.NewLoggingLauncher(rod.NewLauncher(), logger)
	acquirer := session.NewAcquirer(launcher,
		session.WithLoginURL(cfg.LoginURL),
		session.WithTimeout(cfg.SessionTimeout.Duration),
	)
	downloader := ebookhttp.NewDownloader(
		ebookhttp.WithTimeout(cfg.DownloadTimeout.Duration),
		ebookhttp.WithRate(cfg.DownloadRate),
	)

	return &job.Runner{
		Config:     cfg,
		Acquirer:   ebookslog.NewLoggingAcquirer(acquirer, logger),
		Downloader: ebookslog.NewLoggingDownloader(downloader, logger),
		Transcoder: woff2.NewTranscoder(tool),
		FontCache:  fontconfig.Default(tool, fontconfig.WithDir(cfg.FontDir)),
		Renderer:   inkscape.NewRenderer(tool),
		Assembler:  pdfcpu.NewAssembler(),
		Simulator:  fpdf.NewSimulator(),
		Logger:     logger,
	}
}
