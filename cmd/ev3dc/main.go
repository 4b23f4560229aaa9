package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/display"
	"github.com/wippyai/ev3dc/internal/config"
	"github.com/wippyai/ev3dc/ops"
	"github.com/wippyai/ev3dc/reply"
	"github.com/wippyai/ev3dc/session"
	"github.com/wippyai/ev3dc/transport"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to "+config.FileName)
		device      = flag.String("device", "", "hidraw device node (overrides config)")
		dryRun      = flag.Bool("dry-run", false, "Answer commands in memory instead of a brick")
		capture     = flag.String("capture", "", "Record traffic to a CBOR capture file")
		logLevel    = flag.String("log", "", "Log level (overrides config)")
		info        = flag.Bool("info", false, "Print brick name, firmware, battery and attached devices")
		imageFile   = flag.String("image", "", "Draw a 178x128 PBM (P1) or PNG image")
		prevFile    = flag.String("prev", "", "Previous frame; only changed pixels are drawn")
		threshold   = flag.Uint("threshold", 128, "PNG luminance below which a pixel is set")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if !*info && *imageFile == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: ev3dc [-config file] [-device path] [-dry-run] [-capture file] -info")
		fmt.Fprintln(os.Stderr, "       ev3dc [...] -image <file> [-prev <file>]")
		fmt.Fprintln(os.Stderr, "       ev3dc [...] -i  (interactive mode)")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Device.Path = *device
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	session.SetLogger(log.Named("session"))
	transport.SetLogger(log.Named("transport"))

	client, err := connect(cfg, *dryRun, *capture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx := context.Background()
	switch {
	case *interactive:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			err = errors.New("interactive mode needs a terminal")
			break
		}
		err = runInteractive(client, cfg)
	case *info:
		err = runInfo(ctx, client, cfg)
	default:
		err = runImage(ctx, client, cfg, *imageFile, *prevFile, uint8(min(*threshold, 255)))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads path, or config.FileName in the working directory when
// it exists, or falls back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.FileName); err == nil {
		return config.Load(config.FileName)
	}
	return config.Default(), nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}

func connect(cfg *config.Config, dryRun bool, capture string) (*session.Client, error) {
	var (
		t   transport.Transport
		err error
	)
	if dryRun {
		t = transport.NewLoopback()
	} else {
		t, err = transport.OpenDevice(cfg.Device.Path)
		if err != nil {
			return nil, fmt.Errorf("brick %04x:%04x: %w", cfg.Device.VendorID, cfg.Device.ProductID, err)
		}
	}

	if capture != "" {
		f, err := os.Create(capture)
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("create capture: %w", err)
		}
		t = &closeBoth{Transport: transport.NewRecorder(t, f), extra: f}
	}
	return session.New(t, session.WithMaxPacket(cfg.Command.MaxPacket)), nil
}

// closeBoth closes the capture file after the transport.
type closeBoth struct {
	transport.Transport
	extra interface{ Close() error }
}

func (c *closeBoth) Close() error {
	err := c.Transport.Close()
	if cerr := c.extra.Close(); err == nil {
		err = cerr
	}
	return err
}

func newCommand(cfg *config.Config) *command.Command {
	cmd := command.New()
	cmd.ID = cfg.Command.ID
	return cmd
}

type query func(*command.Command) ([]byte, []command.DataType, error)

// ask runs one query command and returns its split reply memory.
func ask(ctx context.Context, c *session.Client, cfg *config.Config, q query) ([][]byte, error) {
	cmd := newCommand(cfg)
	code, layout, err := q(cmd)
	if err != nil {
		return nil, err
	}
	cmd.Bytecode = code
	rep, err := c.Exchange(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return reply.Split(rep.Memory(), layout...)
}

func runInfo(ctx context.Context, c *session.Client, cfg *config.Config) error {
	name, err := ask(ctx, c, cfg, ops.BrickName)
	if err != nil {
		return fmt.Errorf("brick name: %w", err)
	}
	fw, err := ask(ctx, c, cfg, ops.FirmwareVersion)
	if err != nil {
		return fmt.Errorf("firmware: %w", err)
	}
	bat, err := ask(ctx, c, cfg, ops.BatteryPercentage)
	if err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	devs, err := ask(ctx, c, cfg, ops.InputDeviceList)
	if err != nil {
		return fmt.Errorf("device list: %w", err)
	}
	ports, err := reply.PortTable(devs[0], 0)
	if err != nil {
		return err
	}

	fmt.Printf("Name:     %s\n", reply.ReadString(name[0]))
	fmt.Printf("Firmware: %s\n", reply.ReadString(fw[0]))
	fmt.Printf("Battery:  %d%%\n", bat[0][0])
	for i, label := range portLabels {
		fmt.Printf("Port %s:   %s\n", label, reply.DeviceName(ports[i]))
	}
	return nil
}

var portLabels = [8]string{"1", "2", "3", "4", "A", "B", "C", "D"}

func runImage(ctx context.Context, c *session.Client, cfg *config.Config, path, prevPath string, threshold uint8) error {
	next, err := loadBitmap(path, threshold)
	if err != nil {
		return err
	}

	var segs []display.Segment
	var frags [][]byte
	if prevPath == "" {
		segs, err = display.RunLength(next)
		frags = append(frags, ops.ClearScreen())
	} else {
		var prev display.Bitmap
		prev, err = loadBitmap(prevPath, threshold)
		if err != nil {
			return err
		}
		segs, err = display.Delta(prev, next)
	}
	if err != nil {
		return err
	}

	drawn, err := display.Printer(segs)
	if err != nil {
		return err
	}
	frags = append(frags, drawn...)

	if err := c.Draw(ctx, newCommand(cfg), frags, ops.UpdateScreen()); err != nil {
		return fmt.Errorf("draw %s: %w", path, err)
	}
	fmt.Printf("Drew %d segments from %s\n", len(segs), path)
	return nil
}
