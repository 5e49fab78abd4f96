package keyclack

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	intpool "github.com/cbegin/keyclack-go/internal/pool"
	intvoice "github.com/cbegin/keyclack-go/internal/voice"
)

// RenderVariant synthesizes one buffer outside of any bank. Space ignores
// variation.
func RenderVariant(profile intvoice.Profile, variation float64, seed uint64) intvoice.Buffer {
	return intvoice.Render(profile, variation, newSeededRand(seed))
}

// EncodeWAVPCM16 wraps 16-bit samples in a canonical RIFF/WAVE header.
func EncodeWAVPCM16(samples []int16, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 16)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[44+i*2:], uint16(s))
	}
	return out
}

// ExportWAV builds a bank with the given options and writes every variant
// to dir as <profile><index>.wav. It returns the written paths in bank
// order. Device options are ignored.
func ExportWAV(ctx context.Context, dir string, opts ...Option) ([]string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	bank, err := intpool.BuildBank(cfg.sizes, cfg.rand())
	if err != nil {
		return nil, err
	}
	defer bank.Release()
	pools, err := bank.Pools()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range pools {
		for i, buf := range p.Variants {
			path := filepath.Join(dir, p.Profile.String()+strconv.Itoa(i)+".wav")
			paths = append(paths, path)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				wav := EncodeWAVPCM16(buf.Samples, intvoice.SampleRate, intvoice.Channels)
				if err := os.WriteFile(path, wav, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
