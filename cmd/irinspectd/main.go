// Command irinspectd serves one replayed IR program's analyzer state
// over gRPC: it replays a YAML scenario (the same format
// internal/irtest consumes) to completion, then serves queries against
// the resulting analyzer.Analyzer via internal/inspect until
// terminated.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/jsfuzz/irtypes/internal/analyzer"
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/inspect"
	"github.com/jsfuzz/irtypes/internal/irtest"
	"github.com/jsfuzz/irtypes/internal/obslog"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7700", "address to serve the Inspect gRPC service on")
	scenarioPath := flag.String("scenario", "", "YAML scenario to replay before serving (required)")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	flag.Parse()

	log := obslog.New(os.Stderr, obslog.ParseLevel(*logLevel))

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: irinspectd -scenario scenario.yaml [-addr host:port]")
		os.Exit(2)
	}

	an, err := replay(*scenarioPath)
	if err != nil {
		log.Error("replaying %s: %v", *scenarioPath, err)
		os.Exit(1)
	}
	log.Info("replayed %s", *scenarioPath)

	srv, err := inspect.New(an)
	if err != nil {
		log.Error("constructing inspect server: %v", err)
		os.Exit(1)
	}
	for _, m := range srv.DescribeMethods() {
		log.Info("%s", m)
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Error("listening on %s: %v", *addr, err)
		os.Exit(1)
	}

	gs := grpc.NewServer()
	srv.Register(gs)

	go func() {
		log.Info("serving Inspect on %s", *addr)
		if err := gs.Serve(lis); err != nil {
			log.Error("serve: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	gs.GracefulStop()
}

func replay(path string) (*analyzer.Analyzer, error) {
	scenario, err := irtest.Load(path)
	if err != nil {
		return nil, err
	}
	a := analyzer.New(env.NewStatic(), nil)
	for i, spec := range scenario.Instructions {
		inst, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: building: %w", i, err)
		}
		if err := a.Analyze(inst); err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, inst.Opcode, err)
		}
	}
	return a, nil
}
