package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/common/version"

	"jobboard-client/internal/apiclient"
	"jobboard-client/internal/app"
	"jobboard-client/internal/config"
)

const (
	exitOK = iota
	exitError
	exitReauthenticate
	exitUsage
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath, location string
	var showVersion, resume bool
	var seed []*http.Cookie

	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.StringVar(&configPath, "c", "", "path to the config file (shorthand)")
	flag.StringVar(&location, "location", "", "view the call is made from, remembered if re-authentication is needed")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.BoolVar(&resume, "resume", false, "complete a login and print the location to continue at")
	flag.Func("cookie", "session cookies to start from, as in a Cookie header (\"name=value; other=value\"); repeatable", func(v string) error {
		cookies, err := http.ParseCookie(v)
		if err != nil {
			return err
		}
		seed = append(seed, cookies...)
		return nil
	})
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -c config.yaml [-location /path] <method> <path> [json-body]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "       %s -c config.yaml -resume\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "       %s -c config.yaml -cookie \"session=...\"\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(version.Print("jobboard"))
		return exitOK
	}

	args := flag.Args()
	if !resume && len(seed) == 0 && (len(args) < 2 || len(args) > 3) {
		flag.Usage()
		return exitUsage
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitError
	}

	logger := app.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("Failed to start", "error", err)
		return exitError
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			logger.Error("Failed to close client store", "error", err)
		}
	}()

	a.StartDebugServer(stop)

	if len(seed) > 0 {
		a.SeedCookies(seed)
	}

	if resume {
		target, err := a.CompleteLogin(ctx)
		if err != nil {
			logger.Error("Failed to resume after login", "error", err)
			return exitError
		}
		fmt.Println(target)
		return exitOK
	}

	if len(args) == 0 && len(seed) > 0 {
		// only storing the seeded session
		return exitOK
	}
	if len(args) < 2 || len(args) > 3 {
		flag.Usage()
		return exitUsage
	}

	if location != "" {
		a.Visit(location)
	}

	var body []byte
	if len(args) == 3 {
		body = []byte(args[2])
	}

	err = a.Call(ctx, strings.ToUpper(args[0]), args[1], body)

	var respErr *apiclient.ResponseError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, apiclient.ErrAuthenticationFailed):
		logger.Warn("Not signed in", "error", err)
		return exitReauthenticate
	case errors.As(err, &respErr):
		fmt.Fprintln(os.Stderr, respErr.Error())
		return exitError
	default:
		logger.Error("Request failed", "error", err)
		return exitError
	}
}
