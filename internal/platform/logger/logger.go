// Package logger wraps zerolog: one process-wide root logger, named children
// per component and request-scoped children carrying request and caller ids
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"notary/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // console or json
	Service     string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads <prefix>LOG_* through the raw reader, which does not log
func FromEnv(prefix string) Options {
	rc := raw.New().Prefix(prefix + "LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "debug"),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

// Logger is the logging type handed to components
type Logger = zerolog.Logger

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Get returns the root logger, initialising it from NOTARY_LOG_* on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv("NOTARY_"))
	return root.Load()
}

// Init builds the root logger; only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format != "json" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		fields := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok {
			fields = fields.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			fields = fields.Str("service", opt.Service)
		}
		for k, v := range opt.Fields {
			fields = fields.Str(k, v)
		}
		if opt.WithCaller {
			fields = fields.Caller()
		}

		log := fields.Logger()
		if opt.SampleEvery > 1 {
			log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&log)
	})
}

// parseLevel falls back to debug for anything zerolog does not know
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type requestKey struct{}

type requestFields struct {
	requestID string
	callerID  string
}

// WithRequest stores the request and caller ids for C; empty values keep
// whatever an outer layer already set
func WithRequest(ctx context.Context, reqID, callerID string) context.Context {
	f, _ := ctx.Value(requestKey{}).(requestFields)
	if reqID != "" {
		f.requestID = reqID
	}
	if callerID != "" {
		f.callerID = callerID
	}
	return context.WithValue(ctx, requestKey{}, f)
}

// C returns a child of the root logger carrying the ids stored on ctx
func C(ctx context.Context) *Logger {
	f, ok := ctx.Value(requestKey{}).(requestFields)
	if !ok {
		return Get()
	}
	b := Get().With()
	if f.requestID != "" {
		b = b.Str("request_id", f.requestID)
	}
	if f.callerID != "" {
		b = b.Str("caller_id", f.callerID)
	}
	l := b.Logger()
	return &l
}

// Named returns a child logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
