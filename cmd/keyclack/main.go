package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/cbegin/keyclack-go"
	"github.com/cbegin/keyclack-go/internal/audio"
	"github.com/cbegin/keyclack-go/internal/input"
)

const banner = `
╔════════════════════════════════════════════╗
║   KEYCLACK - MECHANICAL KEYBOARD SOUNDS    ║
╠════════════════════════════════════════════╣
║   Type anywhere - sounds will play!        ║
║   Press Ctrl+C here to stop                ║
╚════════════════════════════════════════════╝`

type options struct {
	input          string
	device         string
	output         string
	suppressRepeat bool
	maxPlaying     int
	seed           uint64
	verbose        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "evdev", "key source: evdev|tty")
	flag.StringVar(&opts.device, "device", "", "evdev node to read (default: auto-detect keyboard)")
	flag.StringVar(&opts.output, "output", audio.OutputEbiten, "audio output: ebiten|oto|paplay|none")
	flag.BoolVar(&opts.suppressRepeat, "suppress-repeat", false, "ignore auto-repeat from held keys")
	flag.IntVar(&opts.maxPlaying, "max-playing", audio.DefaultMaxInFlight, "maximum sounds playing at once")
	flag.Uint64Var(&opts.seed, "seed", 0, "random seed for sound variants (0 = random)")
	flag.BoolVar(&opts.verbose, "v", false, "log device and playback details to stderr")
	flag.Parse()

	logger := log.New(io.Discard, "keyclack: ", log.Ltime)
	if opts.verbose {
		logger.SetOutput(os.Stderr)
	}

	if err := run(opts, logger); err != nil {
		if errors.Is(err, input.ErrNoKeyboard) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			fmt.Fprintln(os.Stderr, "Make sure you have permission to read /dev/input/")
			fmt.Fprintln(os.Stderr, "Try: sudo usermod -aG input $USER  (then log out and back in)")
			fmt.Fprintln(os.Stderr, "Or run with sudo, or use -input=tty to click along with this terminal only")
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func run(opts options, logger *log.Logger) error {
	dev, err := audio.Open(opts.output)
	if err != nil {
		return err
	}
	engineOpts := []keyclack.Option{
		keyclack.WithDevice(dev),
		keyclack.WithSuppressRepeat(opts.suppressRepeat),
		keyclack.WithMaxInFlight(opts.maxPlaying),
	}
	if opts.seed != 0 {
		engineOpts = append(engineOpts, keyclack.WithSeed(opts.seed))
	}

	fmt.Println("Generating sounds...")
	start := time.Now()
	engine, err := keyclack.New(engineOpts...)
	if err != nil {
		_ = dev.Close()
		return err
	}
	defer engine.Close()
	logger.Printf("sound bank ready in %v (output %s)", time.Since(start).Round(time.Millisecond), opts.output)

	src, err := openSource(opts)
	if err != nil {
		return err
	}
	defer src.Close()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		writeBanner(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = engine.Run(ctx, src)

	st := engine.Stats()
	logger.Printf("dispatched press=%d release=%d space=%d ignored=%d", st.Dispatch.Press, st.Dispatch.Release, st.Dispatch.Space, st.Dispatch.Ignored)
	logger.Printf("playback played=%d dropped=%d failed=%d", st.Playback.Played, st.Playback.Dropped, st.Playback.Failed)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("\r\nStopped.")
	return nil
}

func openSource(opts options) (input.Source, error) {
	switch strings.ToLower(strings.TrimSpace(opts.input)) {
	case "tty":
		fmt.Println("Reading keys from this terminal...")
		return input.NewTTY(os.Stdin)
	case "evdev", "":
		fmt.Println("Finding keyboard...")
		var (
			kbd *input.Device
			err error
		)
		if opts.device != "" {
			kbd, err = openKeyboard(opts.device)
		} else {
			kbd, err = input.FindKeyboard()
		}
		if err != nil {
			return nil, err
		}
		fmt.Printf("Using: %s (%s)\n", kbd.Name, kbd.Path)
		return kbd, nil
	default:
		return nil, fmt.Errorf("invalid -input %q (expected evdev|tty)", opts.input)
	}
}

// openKeyboard opens an explicitly named node. Failures count as a missing
// keyboard so the permission advice is printed.
func openKeyboard(path string) (*input.Device, error) {
	kbd, err := input.OpenDevice(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", input.ErrNoKeyboard, err)
	}
	return kbd, nil
}

// writeBanner uses CRLF line endings; a raw-mode terminal does not return
// the carriage on a bare newline.
func writeBanner(w io.Writer) {
	fmt.Fprint(w, strings.ReplaceAll(banner, "\n", "\r\n")+"\r\n")
}
