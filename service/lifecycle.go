package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"webservers/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownGrace bounds the graceful shutdown of all listeners.
const DefaultShutdownGrace = 10 * time.Second

// errStoppedUnexpectedly is reported when a listener returns before shutdown was requested.
var errStoppedUnexpectedly = errors.New("stopped unexpectedly")

// Runnable is a listener owned by a binary.
type Runnable interface {
	// Name identifies the listener in logs and errors.
	Name() string
	// Run blocks until the listener fails or Shutdown is called. A graceful close returns nil.
	Run() error
	// Shutdown stops the listener, bounded by ctx.
	Shutdown(ctx context.Context) error
}

// RunUntilDone runs every runnable until ctx is cancelled or one of them fails, then shuts all of
// them down within grace. It returns the first failure, or nil after a requested shutdown.
//
// Called from cmd/ipfetch and cmd/patchserver with the signal context.
func RunUntilDone(ctx context.Context, grace time.Duration, logger log.Logger, runnables ...Runnable) error {
	logger = helpers.NilPanic(logger, "service.lifecycle.go: logger is required")
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runnables {
		r := r
		g.Go(func() error {
			level.Info(logger).Log("msg", "starting listener", "listener", r.Name())
			err := r.Run()
			if gctx.Err() != nil {
				return nil
			}
			if err == nil {
				err = errStoppedUnexpectedly
			}
			return fmt.Errorf("%s: %w", r.Name(), err)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		level.Info(logger).Log("msg", "shutting down listeners")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		for _, r := range runnables {
			if err := r.Shutdown(shutdownCtx); err != nil {
				level.Error(logger).Log("msg", "listener shutdown failed", "listener", r.Name(), "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}

// EchoRunnable serves an echo instance on addr, over TLS when both certificate files are set.
type EchoRunnable struct {
	name     string
	e        *echo.Echo
	addr     string
	certFile string
	keyFile  string
}

// NewEchoRunnable creates an EchoRunnable. Empty certFile and keyFile mean plain HTTP.
func NewEchoRunnable(name string, e *echo.Echo, addr, certFile, keyFile string) *EchoRunnable {
	return &EchoRunnable{
		name:     helpers.StrPanic(name, "service.lifecycle.go: name is required"),
		e:        helpers.NilPanic(e, "service.lifecycle.go: echo is required"),
		addr:     addr,
		certFile: certFile,
		keyFile:  keyFile,
	}
}

func (r *EchoRunnable) Name() string { return r.name }

func (r *EchoRunnable) Run() error {
	var err error
	if r.certFile != "" && r.keyFile != "" {
		err = r.e.StartTLS(r.addr, r.certFile, r.keyFile)
	} else {
		err = r.e.Start(r.addr)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (r *EchoRunnable) Shutdown(ctx context.Context) error {
	return r.e.Shutdown(ctx)
}

// HTTPRunnable serves a plain net/http server, such as the metrics listener.
type HTTPRunnable struct {
	name string
	srv  *http.Server
}

// NewHTTPRunnable creates an HTTPRunnable.
func NewHTTPRunnable(name string, srv *http.Server) *HTTPRunnable {
	return &HTTPRunnable{
		name: helpers.StrPanic(name, "service.lifecycle.go: name is required"),
		srv:  helpers.NilPanic(srv, "service.lifecycle.go: server is required"),
	}
}

func (r *HTTPRunnable) Name() string { return r.name }

func (r *HTTPRunnable) Run() error {
	if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *HTTPRunnable) Shutdown(ctx context.Context) error {
	return r.srv.Shutdown(ctx)
}
