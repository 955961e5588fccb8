// Command ancsc is a demo ANCS client: it drives a Session against the
// simulated in-memory peer, printing every decoded event to stdout and
// exposing Prometheus metrics. The simulated peer is the only transport
// it wires up; any other transport setting exits with an error.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/nrfconnect/ancs-client/ancs"
	"github.com/nrfconnect/ancs-client/internal/config"
	"github.com/nrfconnect/ancs-client/internal/logging"
	"github.com/nrfconnect/ancs-client/transport/simulated"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML/JSON config file (optional)")
	logLevel := flag.String("log-level", "", "override log level (trace|debug|info|warn|error)")
	transportName := flag.String("transport", "", "override transport (simulated|tinygoble)")
	metricsAddr := flag.String("metrics-addr", "", "override the /metrics listen address")
	flag.Parse()

	v := viper.New()
	if *logLevel != "" {
		v.Set("log-level", *logLevel)
	}
	if *transportName != "" {
		v.Set("transport", *transportName)
	}
	if *metricsAddr != "" {
		v.Set("metrics-addr", *metricsAddr)
	}

	cfg, err := config.Load(v, *configFile)
	if err != nil {
		log.Fatalf("ancsc: loading config: %v", err)
	}

	logger, err := logging.New(logging.ParseLevel(cfg.LogLevel), logging.FileConfig{Path: cfg.LogFile})
	if err != nil {
		log.Fatalf("ancsc: building logger: %v", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	metrics := ancs.NewMetrics(reg)

	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			logger.Warn("ancsc", "metrics server stopped: %v", err)
		}
	}()

	handler := func(evt ancs.Event) {
		printEvent(evt)
	}

	switch cfg.Transport {
	case "simulated":
		runSimulated(cfg, handler, logger, metrics)
	default:
		fmt.Fprintf(os.Stderr, "ancsc: unsupported transport %q in this demo build\n", cfg.Transport)
		os.Exit(1)
	}
}

func runSimulated(cfg config.Config, handler ancs.EventHandler, logger *logging.Logger, metrics *ancs.Metrics) {
	simCfg := simulated.DefaultConfig()
	peer := simulated.NewPeer(simCfg, nil)

	session, err := ancs.NewSession(handler, peer, cfg.CPBufferLen,
		ancs.WithLogger(logger), ancs.WithMetrics(metrics))
	if err != nil {
		log.Fatalf("ancsc: creating session: %v", err)
	}
	peer.SetReceiver(session)

	var title, msg [32]byte
	if err := session.AttrAdd(ancs.AttrKindNotif, int(ancs.NotifAttrTitle), title[:]); err != nil {
		log.Fatalf("ancsc: registering title attribute: %v", err)
	}
	if err := session.AttrAdd(ancs.AttrKindNotif, int(ancs.NotifAttrMessage), msg[:]); err != nil {
		log.Fatalf("ancsc: registering message attribute: %v", err)
	}

	if _, err := session.HandlesAssign(simulated.Discovery{}); err != nil {
		log.Fatalf("ancsc: assigning handles: %v", err)
	}
	if err := session.NSEnable(); err != nil {
		log.Fatalf("ancsc: enabling notification source: %v", err)
	}
	if err := session.DSEnable(); err != nil {
		log.Fatalf("ancsc: enabling data source: %v", err)
	}

	logger.Info("ancsc", "listening on simulated transport, cp buffer=%d bytes", cfg.CPBufferLen)
	select {}
}

func printEvent(evt ancs.Event) {
	switch evt.Kind {
	case ancs.EventNotif:
		n := evt.Notification
		fmt.Printf("[notif] uid=%d event=%s category=%d count=%d\n", n.NotifUID, n.EventID, n.CategoryID, n.CategoryCount)
	case ancs.EventInvalidNotif:
		fmt.Println("[notif] rejected: malformed record")
	case ancs.EventNotifAttribute:
		a := evt.NotifAttr
		fmt.Printf("[attr]  uid=%d id=%d data=%q\n", a.NotifUID, a.AttrID, a.Data)
	case ancs.EventAppAttribute:
		a := evt.AppAttr
		fmt.Printf("[app]   app=%s id=%d data=%q\n", a.AppID, a.AttrID, a.Data)
	case ancs.EventProviderError:
		fmt.Printf("[error] provider status=%s\n", evt.ProviderError)
	}
}
