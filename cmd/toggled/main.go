// Command toggled is a small daemon showing how the toggle packages fit
// together. It declares two flag groups, seeds them from the environment, a
// config file and the command line, and serves an admin API and Prometheus
// metrics over HTTP.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/go-kit/toggle"
	"github.com/go-kit/toggle/admin"
	toggleprometheus "github.com/go-kit/toggle/prometheus"
	"github.com/go-kit/toggle/source"
)

// UX flags change what the daemon prints.
type UX uint8

const (
	JSONOutput    UX = 0b10000000
	VerboseOutput UX = 0b01000000
)

// Srv flags select a download strategy.
type Srv uint8

const (
	HTTP2Downloading      Srv = 0b10000000
	BitTorrentDownloading Srv = 0b01000000
)

func main() {
	fs := pflag.NewFlagSet("toggled", pflag.ExitOnError)
	var (
		httpAddr   = fs.String("http.addr", ":8080", "HTTP listen address for the admin API and metrics")
		configFile = fs.String("config", "", "config file with a features table; watched for changes")
		envPrefix  = fs.String("env.prefix", "TOGGLED", "prefix of the environment variables read at startup")
		logLevel   = fs.String("log.level", "info", "debug, info, warn or error")
		adminRate  = fs.Float64("admin.rate", 10, "maximum flag changes per second through the admin API, 0 for no limit")
	)

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	}

	ux := toggle.MustNew("ux",
		toggle.Def("JsonOutput", JSONOutput),
		toggle.Def("VerboseOutput", VerboseOutput),
	)
	srv := toggle.MustNew("srv",
		toggle.Def("Http2Downloading", HTTP2Downloading),
		toggle.Def("BitTorrentDownloading", BitTorrentDownloading),
	)
	reg, err := toggle.NewRegistry(ux, srv)
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}

	cli := source.AddFlag(fs, reg, "features", "comma-separated flags to set, e.g. ux.JsonOutput,-srv.Http2Downloading")
	fs.Parse(os.Args[1:])

	logger = level.NewFilter(logger, levelOption(*logLevel))

	// Environment first, then the config file, then the command line, so
	// each source overrides the one before it.
	env, err := source.Env(*envPrefix, reg, nil)
	if err == nil {
		err = reg.Apply(env)
	}
	if err != nil {
		level.Error(logger).Log("source", "env", "err", err)
		os.Exit(1)
	}

	var file *source.File
	if *configFile != "" {
		file = source.NewFile(*configFile, reg, logger)
		if err := file.Apply(); err != nil {
			level.Error(logger).Log("source", "file", "err", err)
			os.Exit(1)
		}
	}

	if err := cli.Apply(); err != nil {
		level.Error(logger).Log("source", "flags", "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log("ux", ux.Flags(), "srv", srv.Flags())
	switch {
	case srv.IsEnabled(HTTP2Downloading):
		level.Info(logger).Log("download", "http2")
	case srv.IsEnabled(BitTorrentDownloading):
		level.Info(logger).Log("download", "bittorrent")
	default:
		level.Info(logger).Log("download", "plain")
	}

	var s admin.Service
	{
		s = admin.NewService(reg)
		s = admin.LoggingMiddleware(level.Debug(log.With(logger, "component", "admin")))(s)
	}
	endpoints := admin.MakeServerEndpoints(s)
	if *adminRate > 0 {
		endpoints = admin.LimitWrites(endpoints, rate.NewLimiter(rate.Limit(*adminRate), int(*adminRate)+1))
	}

	stdprometheus.MustRegister(toggleprometheus.NewCollector(reg, "toggled"))

	mux := http.NewServeMux()
	mux.Handle("/groups/", admin.MakeHTTPHandler(endpoints, log.With(logger, "component", "HTTP")))
	mux.Handle("/metrics", promhttp.Handler())

	var g run.Group
	{
		ln, err := net.Listen("tcp", *httpAddr)
		if err != nil {
			level.Error(logger).Log("transport", "HTTP", "during", "Listen", "err", err)
			os.Exit(1)
		}
		g.Add(func() error {
			level.Info(logger).Log("transport", "HTTP", "addr", *httpAddr)
			return http.Serve(ln, mux)
		}, func(error) {
			ln.Close()
		})
	}
	if file != nil {
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return file.Run(ctx)
		}, func(error) {
			cancel()
		})
	}
	{
		st, err := source.NewSignalToggle(ux, "VerboseOutput", logger, syscall.SIGUSR1)
		if err != nil {
			level.Error(logger).Log("err", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return st.Run(ctx)
		}, func(error) {
			cancel()
		})
	}
	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))
	level.Info(logger).Log("exit", g.Run())
}

func levelOption(s string) level.Option {
	switch s {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
