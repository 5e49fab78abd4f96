package keyclack

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	intvoice "github.com/cbegin/keyclack-go/internal/voice"
)

func TestEncodeWAVPCM16Header(t *testing.T) {
	samples := []int16{0, 1, -1, 32767}
	wav := EncodeWAVPCM16(samples, 44100, 1)
	if len(wav) != 44+8 {
		t.Fatalf("len = %d, want 52", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad chunk ids")
	}
	for _, tc := range []struct {
		name string
		got  uint32
		want uint32
	}{
		{"chunk size", binary.LittleEndian.Uint32(wav[4:]), 44},
		{"format", uint32(binary.LittleEndian.Uint16(wav[20:])), 1},
		{"channels", uint32(binary.LittleEndian.Uint16(wav[22:])), 1},
		{"rate", binary.LittleEndian.Uint32(wav[24:]), 44100},
		{"byte rate", binary.LittleEndian.Uint32(wav[28:]), 88200},
		{"bits", uint32(binary.LittleEndian.Uint16(wav[34:])), 16},
		{"data size", binary.LittleEndian.Uint32(wav[40:]), 8},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
	if got := int16(binary.LittleEndian.Uint16(wav[48:])); got != -1 {
		t.Fatalf("third sample = %d, want -1", got)
	}
}

func TestRenderVariantReproducible(t *testing.T) {
	a := RenderVariant(intvoice.Press, 0.3, 9)
	b := RenderVariant(intvoice.Press, 0.3, 9)
	if len(a.Samples) != 3528 {
		t.Fatalf("len = %d, want 3528", len(a.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs", i)
		}
	}
}

func TestExportWAV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bank")
	paths, err := ExportWAV(context.Background(), dir, WithSeed(5), WithPoolSizes(2, 1))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := []string{"press0.wav", "press1.wav", "release0.wav", "space0.wav"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Fatalf("path %d = %s, want %s", i, paths[i], name)
		}
		info, err := os.Stat(paths[i])
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Size() <= 44 {
			t.Fatalf("%s has no audio data", name)
		}
	}
	space, err := os.ReadFile(filepath.Join(dir, "space0.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(space[40:]); got != 5292*2 {
		t.Fatalf("space data size = %d, want %d", got, 5292*2)
	}
}

func TestExportWAVCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExportWAV(ctx, t.TempDir(), WithSeed(1), WithPoolSizes(1, 1)); err == nil {
		t.Fatalf("expected error from canceled export")
	}
}
