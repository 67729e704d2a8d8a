package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// convertAudio resamples audio to 16-bit mono 16 kHz PCM with ffmpeg.
func convertAudio(ctx context.Context, audio []byte) ([]byte, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found in system PATH: %v", err)
	}

	in, err := os.CreateTemp("", "audio-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(in.Name())
	defer in.Close()
	if _, err := in.Write(audio); err != nil {
		return nil, err
	}

	out, err := os.CreateTemp("", "converted-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(out.Name())
	out.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", in.Name(),
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		out.Name(),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %s", stderr.String())
	}
	return os.ReadFile(out.Name())
}
