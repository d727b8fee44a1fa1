package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/five82/gazer/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override gazer config path (optional)")
	prefsPath := flag.String("prefs", "", "override UI preferences path (optional)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, defaults to 2s)")
	address := flag.String("address", "", "headset address, overrides device.address")
	port := flag.Int("port", 0, "headset API port, overrides device.port")
	flag.Usage = usage
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Address:    *address,
		Port:       *port,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	var err error
	if flag.NArg() > 0 {
		err = app.RunCommand(ctx, opts, flag.Arg(0), os.Stdout)
	} else {
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gazer: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: gazer [flags] [%s]\n\n", strings.Join(app.Commands, "|"))
	fmt.Fprintln(out, "Without a command gazer opens the dashboard.")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}
