//go:build !rp2040

// Command powerctl runs the power module firmware against the host HAL and
// exposes it through an interactive shell and, optionally, an MQTT broker.
package main

import (
	"context"
	"flag"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"powermodule-go/bus"
	"powermodule-go/hostlink/console"
	"powermodule-go/hostlink/mqttbridge"
	"powermodule-go/services/config"
	"powermodule-go/services/hal"
	"powermodule-go/services/system"
	"powermodule-go/services/telemetry"
	"powermodule-go/setups"
)

var (
	brokerURL  string
	configPath string
	interval   = time.Second
	millivolts uint
	evalOnly   bool
	outputJSON bool
)

func init() {
	flag.StringVar(&brokerURL, "mqtt", brokerURL, "MQTT broker URL, e.g. mqtt://localhost:1883/powermodule")
	flag.StringVar(&configPath, "config", configPath, "JSON config file replacing the embedded host config.")
	flag.DurationVar(&interval, "interval", interval, "Telemetry interval.")
	flag.UintVar(&millivolts, "mv", millivolts, "Initial sensed voltage in millivolts.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print status in JSON.")
}

func flagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}

func connect(ctx context.Context, conn *bus.Connection, sink mqttbridge.LineSink) {
	opts, prefix, err := mqttbridge.ClientOptionsFromURL(brokerURL)
	if err != nil {
		glog.Fatalf("mqtt url %q: %v", brokerURL, err)
	}
	client := paho.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(mqttbridge.DefaultTimeout) {
		glog.Fatalf("mqtt connect: timed out")
	}
	if err := tok.Error(); err != nil {
		glog.Fatalf("mqtt connect: %v", err)
	}
	glog.Infof("mqtt connected to %s as %s", opts.Servers[0], opts.ClientID)

	b := mqttbridge.New(client, prefix)
	b.Commands = sink
	go func() {
		if err := b.Run(ctx, conn); err != nil && ctx.Err() == nil {
			glog.Errorf("mqtt bridge: %v", err)
		}
		client.Disconnect(250)
	}()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	plan := setups.Selected
	host := hal.NewHost()
	host.ADC(plan.ADC.Ref).Set(uint16(plan.ADC.RefMillivolts))

	sys, err := system.New(host, plan)
	if err != nil {
		glog.Fatalf("system: %v", err)
	}
	con := console.New(host, sys)
	con.OutputJSON = outputJSON
	con.SetMillivolts(uint32(millivolts))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sys.Start(ctx)

	b := bus.NewBus(8)
	cfg := config.NewConfigService()
	cfg.Path = configPath
	if err := cfg.Start(context.WithValue(ctx, config.CtxDeviceKey, "host"), b.NewConnection("config")); err != nil {
		glog.Fatalf("config: %v", err)
	}
	if flagSet("interval") {
		telemetry.PublishInterval(b.NewConnection("flags"), interval)
	}
	if err := telemetry.New(sys.Hub, interval).Start(ctx, b.NewConnection("telemetry")); err != nil {
		glog.Fatalf("telemetry: %v", err)
	}
	if brokerURL != "" {
		connect(ctx, b.NewConnection("mqtt"), con.Exchange)
	}

	sh := con.Shell()
	if args := flag.Args(); len(args) > 0 {
		if err := sh.Process(args...); err != nil {
			glog.Fatal(err)
		}
		return
	}
	if evalOnly {
		glog.Fatal("command expected")
	}
	sh.Run()
}
