package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	MaxDuration  = 60 * time.Second
	MaxFileSize  = 5 * 1024 * 1024
	SampleRateHz = 16000

	wavHeaderLen  = 44
	formatPCM     = 1
	bitsPerSample = 16
)

var ErrUnsupportedAudio = errors.New("unsupported audio")

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < wavHeaderLen {
		return nil, fmt.Errorf("%w: invalid WAV header length", ErrUnsupportedAudio)
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data[:wavHeaderLen]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnsupportedAudio)
	}
	return &header, nil
}

// recognizable reports whether the recognizer can take the audio as is:
// 16-bit PCM, mono, 16 kHz.
func (h *waveHeader) recognizable() bool {
	return h.AudioFormat == formatPCM &&
		h.NumChannels == 1 &&
		h.SampleRate == SampleRateHz &&
		h.BitsPerSample == bitsPerSample
}

func (h *waveHeader) duration() time.Duration {
	if h.ByteRate == 0 {
		return 0
	}
	return time.Duration(float64(h.DataSize) / float64(h.ByteRate) * float64(time.Second))
}

// checkWAV validates size, header and length of an upload.
func checkWAV(data []byte) (*waveHeader, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrUnsupportedAudio, MaxFileSize)
	}
	header, err := parseWaveHeader(data)
	if err != nil {
		return nil, err
	}
	if d := header.duration(); d > MaxDuration {
		return nil, fmt.Errorf("%w: audio is %s long, limit is %s", ErrUnsupportedAudio, d.Round(time.Second), MaxDuration)
	}
	return header, nil
}
