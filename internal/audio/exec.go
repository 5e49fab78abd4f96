package audio

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/cbegin/keyclack-go/internal/voice"
)

// ExecDevice pipes raw PCM into an external player, one process per buffer.
type ExecDevice struct {
	Name string
	Args []string
	Env  []string // appended to the inherited environment when set
}

// NewPaplayDevice plays through the PulseAudio/PipeWire paplay client.
func NewPaplayDevice() *ExecDevice {
	return &ExecDevice{
		Name: "paplay",
		Args: []string{
			"--raw",
			"--format=s16le",
			"--rate=" + strconv.Itoa(voice.SampleRate),
			"--channels=" + strconv.Itoa(voice.Channels),
		},
	}
}

func (d *ExecDevice) Play(buf voice.Buffer) error {
	cmd := exec.Command(d.Name, d.Args...)
	cmd.Stdin = bytes.NewReader(buf.PCM16LE())
	if len(d.Env) > 0 {
		cmd.Env = append(cmd.Environ(), d.Env...)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	return nil
}

func (d *ExecDevice) Close() error { return nil }
