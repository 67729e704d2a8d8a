// Package speech turns a spoken order into text for the agent pipeline.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	gax "github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const DefaultLanguage = "en-US"

var ErrNoSpeech = errors.New("no speech recognized")

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// recognizer is the part of the Google client we call.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

var _ recognizer = (*speech.Client)(nil)

type GoogleTranscriber struct {
	client  recognizer
	closer  func() error
	convert func(ctx context.Context, audio []byte) ([]byte, error)
	logger  *zap.Logger
}

func NewGoogleTranscriber(ctx context.Context, credentialsFile string, logger *zap.Logger) (*GoogleTranscriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleTranscriber{client: client, closer: client.Close, convert: convertAudio, logger: logger}, nil
}

func (g *GoogleTranscriber) log() *zap.Logger {
	if g.logger == nil {
		return zap.NewNop()
	}
	return g.logger
}

func (g *GoogleTranscriber) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

// Transcribe accepts a WAV upload. Audio that is not already 16-bit mono
// 16 kHz PCM goes through ffmpeg first.
func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	header, err := checkWAV(audio)
	if err != nil {
		return "", err
	}
	if !header.recognizable() {
		g.log().Debug("Converting audio",
			zap.Uint16("channels", header.NumChannels), zap.Uint32("sample_rate", header.SampleRate))
		if audio, err = g.convert(ctx, audio); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
		}
	}
	if language == "" {
		language = DefaultLanguage
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   SampleRateHz,
			LanguageCode:      language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	transcript := joinTranscript(resp)
	if transcript == "" {
		return "", ErrNoSpeech
	}
	return transcript, nil
}

// joinTranscript keeps the top alternative of each result.
func joinTranscript(resp *speechpb.RecognizeResponse) string {
	var parts []string
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
