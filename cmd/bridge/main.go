// Command bridge runs the Bluetooth to wired controller bridge.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/openretro/bridge"
	"github.com/openretro/bridge/adapter"
	"github.com/openretro/bridge/config"
	"github.com/openretro/bridge/hci/h4"
	"github.com/openretro/bridge/hci/socket"
	"github.com/openretro/bridge/host"
	"github.com/openretro/bridge/keystore"
	"github.com/openretro/bridge/sdp"
)

func main() {
	app := cli.NewApp()
	app.Name = "bridge"
	app.Usage = "pair Bluetooth controllers and present them on a wired bus"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to the YAML configuration",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "override the configured log level",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.String("level") != "" {
		level = c.String("level")
	}
	if level != "" {
		bridge.SetLogLevel(level)
	}
	log := bridge.GetLogger()

	sys, err := cfg.System()
	if err != nil {
		return err
	}
	mgr, err := adapter.NewManager(sys, log)
	if err != nil {
		return err
	}

	tr, err := openTransport(cfg, log)
	if err != nil {
		return err
	}

	keys := keystore.Open(cfg.StorageDir, log)
	cls := sdp.NewClassifier(cfg.DevicesFile, log)

	h := host.New(host.Config{Name: cfg.Name}, tr, mgr, keys, cls, log)
	h.Run()
	log.Infof("bridge up, target %s", sys)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	return h.Close()
}

func openTransport(cfg *config.Config, log bridge.Logger) (io.ReadWriteCloser, error) {
	switch cfg.Transport.Kind {
	case config.TransportUART:
		return h4.New(cfg.Transport.UARTPath, cfg.Transport.UARTBaud, log)
	case config.TransportHCI:
		return socket.New(cfg.Transport.HCIIndex)
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport.Kind)
}
