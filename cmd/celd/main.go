// Command celd is the CEL engine daemon: it dials a live Asterisk
// Manager Interface, feeds the event stream through internal/amisource
// into an internal/engine.Engine, and fans emitted records out to a
// registered internal/mqttbackend sink.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/halvard/celd/internal/ami"
	"github.com/halvard/celd/internal/amisource"
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/celconf"
	"github.com/halvard/celd/internal/daemonconf"
	"github.com/halvard/celd/internal/engine"
	"github.com/halvard/celd/internal/mqttbackend"
)

func main() {
	configPath := flag.String("config", "/etc/celd/celd.yaml", "Path to the daemon connection config file")
	flag.Parse()

	cfg, err := daemonconf.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	celSrc, err := celconf.Load(cfg.CELConfPath)
	if err != nil {
		log.Fatalf("loading cel config %s: %v", cfg.CELConfPath, err)
	}

	eng := engine.Init()
	if err := eng.Reload(celSrc.ToConfigSource()); err != nil {
		log.Fatalf("applying cel config: %v", err)
	}

	backend, err := mqttbackend.New(mqttbackend.Options{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         1,
	})
	if err != nil {
		log.Fatalf("connecting to MQTT: %v", err)
	}
	defer backend.Close()

	if err := eng.BackendRegister("mqtt", backend.Publish); err != nil {
		log.Fatalf("registering mqtt backend: %v", err)
	}

	log.Printf("connected to MQTT broker %s", cfg.MQTT.Broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	channelTopic := bus.NewTopic()
	eng.Subscribe(channelTopic)
	adapter := amisource.New(channelTopic)

	if err := run(ctx, &cfg.AMI, adapter); err != nil && ctx.Err() == nil {
		log.Fatalf("error: %v", err)
	}

	termCtx, termCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer termCancel()
	if err := eng.Term(termCtx); err != nil {
		log.Printf("engine did not drain cleanly: %v", err)
	}

	log.Println("shutdown complete")
}

func run(ctx context.Context, amiCfg *daemonconf.AMIConfig, adapter *amisource.Adapter) error {
	for {
		err := runSession(ctx, amiCfg, adapter)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Printf("AMI session error: %v, reconnecting in 5s", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func runSession(ctx context.Context, cfg *daemonconf.AMIConfig, adapter *amisource.Adapter) error {
	addr := cfg.Addr()
	log.Printf("connecting to AMI at %s", addr)

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("dial AMI: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	reader := bufio.NewReader(conn)

	banner, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading AMI banner: %w", err)
	}
	log.Printf("AMI banner: %s", strings.TrimSpace(banner))

	loginCmd := fmt.Sprintf("Action: Login\r\nUsername: %s\r\nSecret: %s\r\n\r\n", cfg.Username, cfg.Secret)
	if _, err := conn.Write([]byte(loginCmd)); err != nil {
		return fmt.Errorf("sending login: %w", err)
	}

	log.Println("AMI authenticated, processing events")

	parser := ami.NewParser(reader)
	for {
		evt, ok := parser.Next()
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("AMI connection closed")
		}
		adapter.Process(evt)
	}
}
