/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowkit/ipfixd"
	"github.com/flowkit/ipfixd/publisher"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbosity     int
	debugParser   bool
	listenAddr    string
	publisherKind string
	elasticAddr   string
	elasticIndex  string
)

func main() {
	root := &cobra.Command{
		Use:   "ipfixd",
		Short: "Collects IPFIX flow records over UDP and forwards them to a publisher",
		RunE:  run,
	}

	root.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable): 0=info, 1=debug, 2+=trace")
	root.Flags().BoolVarP(&debugParser, "debug", "d", false, "log every decoded field before projecting it into a Flow")
	root.Flags().StringVarP(&listenAddr, "listen", "l", "0.0.0.0:2055", "UDP address to bind the collector to")
	root.Flags().StringVarP(&publisherKind, "publisher", "p", "console", "downstream sink: console or elastic")
	root.Flags().StringVar(&elasticAddr, "elastic-url", "http://localhost:9200", "elasticsearch node URL, used when --publisher=elastic")
	root.Flags().StringVar(&elasticIndex, "elastic-index", publisher.DefaultIndex, "elasticsearch index name, used when --publisher=elastic")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger(verbosity)
	ipfix.SetLogger(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ipfix.IntoContext(ctx, log)

	pub, err := newPublisher(log)
	if err != nil {
		return fmt.Errorf("building publisher %q: %w", publisherKind, err)
	}
	defer pub.Close(ctx)

	var parser ipfix.Parser[*ipfix.Flow] = ipfix.FlowParser{}
	if debugParser {
		parser = ipfix.DebugParser[*ipfix.Flow]{Inner: parser, Log: log}
	}
	session := ipfix.NewSession[*ipfix.Flow](parser, log)

	listener := ipfix.NewUDPListener(listenAddr)

	listenErrCh := make(chan error, 1)
	go func() {
		listenErrCh <- listener.Listen(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return <-listenErrCh
		case err := <-listenErrCh:
			if err != nil {
				log.Error(err, "udp listener exited")
			}
			return err
		case dgram, ok := <-listener.Messages():
			if !ok {
				return <-listenErrCh
			}
			handleDatagram(ctx, session, pub, log, dgram)
		}
	}
}

// newLogger builds the zap-backed logr.Logger the rest of the process
// logs through, at a level derived from the --verbose count: 0 -> info,
// 1 -> debug, 2+ -> trace (zap levels below Debug).
func newLogger(verbosity int) logr.Logger {
	zapLevel := zapcore.InfoLevel
	switch {
	case verbosity >= 2:
		zapLevel = zapcore.DebugLevel - 1
	case verbosity == 1:
		zapLevel = zapcore.DebugLevel
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	zapLog, err := zapConfig.Build()
	if err != nil {
		// Fall back to zap's example logger rather than fail startup
		// over a logging misconfiguration.
		zapLog = zap.NewExample()
	}
	return zapr.NewLogger(zapLog)
}

func newPublisher(log logr.Logger) (publisher.Publisher, error) {
	switch publisherKind {
	case "console", "":
		return publisher.NewConsole(log), nil
	case "elastic":
		return publisher.NewElastic(publisher.ElasticConfig{
			Addresses: []string{elasticAddr},
			Index:     elasticIndex,
		}, log)
	default:
		return nil, fmt.Errorf("unknown publisher kind %q, want console or elastic", publisherKind)
	}
}

func handleDatagram(ctx context.Context, session *ipfix.Session[*ipfix.Flow], pub publisher.Publisher, log logr.Logger, dgram ipfix.Datagram) {
	msg, err := ipfix.Parse(dgram.Payload)
	if err != nil {
		ipfix.ErrorsTotal.Inc()
		log.Error(err, "failed to parse datagram", "addr", dgram.Addr)
		return
	}
	ipfix.PacketsTotal.Inc()

	for _, flow := range session.Handle(ctx, msg) {
		ipfix.FlowsProjected.Inc()
		if err := pub.Publish(ctx, flow); err != nil {
			ipfix.PublishErrorsTotal.WithLabelValues(publisherKind).Inc()
			log.Error(err, "failed to publish flow")
		}
	}
}
