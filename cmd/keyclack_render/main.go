package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/cbegin/keyclack-go"
	"github.com/cbegin/keyclack-go/internal/pool"
)

func main() {
	var (
		outDir  = flag.String("out", "keyclack-wav", "directory for the rendered WAV files")
		press   = flag.Int("press", pool.DefaultPressSize, "number of key-press variants")
		release = flag.Int("release", pool.DefaultReleaseSize, "number of key-release variants")
		seed    = flag.Uint64("seed", 0, "random seed (0 = random)")
	)
	flag.Parse()

	opts := []keyclack.Option{keyclack.WithPoolSizes(*press, *release)}
	if *seed != 0 {
		opts = append(opts, keyclack.WithSeed(*seed))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	paths, err := keyclack.ExportWAV(ctx, *outDir, opts...)
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}
