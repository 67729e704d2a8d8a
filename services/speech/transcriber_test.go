package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wavBytes(t *testing.T, channels uint16, rate uint32, dataSize uint32) []byte {
	t.Helper()
	blockAlign := channels * 2
	h := waveHeader{
		RiffTag:       [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      36 + dataSize,
		WaveTag:       [4]byte{'W', 'A', 'V', 'E'},
		FmtTag:        [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   formatPCM,
		NumChannels:   channels,
		SampleRate:    rate,
		ByteRate:      rate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: 16,
		DataTag:       [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

type fakeRecognizer struct {
	req  *speechpb.RecognizeRequest
	resp *speechpb.RecognizeResponse
	err  error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestGoogleClientSatisfiesRecognizer(t *testing.T) {
	var client recognizer = (*speechapi.Client)(nil)
	assert.Nil(t, client.(*speechapi.Client))
}

func result(alts ...string) *speechpb.SpeechRecognitionResult {
	r := &speechpb.SpeechRecognitionResult{}
	for _, a := range alts {
		r.Alternatives = append(r.Alternatives, &speechpb.SpeechRecognitionAlternative{Transcript: a})
	}
	return r
}

func TestParseWaveHeader(t *testing.T) {
	h, err := parseWaveHeader(wavBytes(t, 1, 16000, 32000))
	require.NoError(t, err)
	assert.True(t, h.recognizable())
	assert.Equal(t, "1s", h.duration().String())

	h, err = parseWaveHeader(wavBytes(t, 2, 44100, 0))
	require.NoError(t, err)
	assert.False(t, h.recognizable())

	_, err = parseWaveHeader([]byte("RIFF"))
	assert.ErrorIs(t, err, ErrUnsupportedAudio)

	notWav := wavBytes(t, 1, 16000, 0)
	copy(notWav[8:12], "AVI ")
	_, err = parseWaveHeader(notWav)
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
}

func TestCheckWAV_RejectsLongAudio(t *testing.T) {
	// 61 seconds at 8 kHz mono keeps the test payload under the size cap.
	data := wavBytes(t, 1, 8000, 8000*2*61)
	_, err := checkWAV(data)
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
}

func TestTranscribe(t *testing.T) {
	rec := &fakeRecognizer{resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
		result("add two masala tea", "at two masala tea"),
		result(" and one dosa "),
		result(),
	}}}
	g := &GoogleTranscriber{client: rec, convert: func(ctx context.Context, audio []byte) ([]byte, error) {
		t.Fatal("recognizable audio must not be converted")
		return nil, nil
	}}

	text, err := g.Transcribe(context.Background(), wavBytes(t, 1, 16000, 3200), "")
	require.NoError(t, err)
	assert.Equal(t, "add two masala tea and one dosa", text)
	assert.Equal(t, DefaultLanguage, rec.req.Config.LanguageCode)
	assert.Equal(t, int32(SampleRateHz), rec.req.Config.SampleRateHertz)
}

func TestTranscribe_ConvertsOtherFormats(t *testing.T) {
	converted := wavBytes(t, 1, 16000, 100)
	rec := &fakeRecognizer{resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{result("hello")}}}
	called := false
	g := &GoogleTranscriber{client: rec, convert: func(ctx context.Context, audio []byte) ([]byte, error) {
		called = true
		return converted, nil
	}}

	_, err := g.Transcribe(context.Background(), wavBytes(t, 2, 44100, 400), "hi-IN")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, converted, rec.req.Audio.GetContent())
	assert.Equal(t, "hi-IN", rec.req.Config.LanguageCode)
}

func TestTranscribe_Failures(t *testing.T) {
	g := &GoogleTranscriber{client: &fakeRecognizer{resp: &speechpb.RecognizeResponse{}}}
	_, err := g.Transcribe(context.Background(), wavBytes(t, 1, 16000, 100), "en-US")
	assert.ErrorIs(t, err, ErrNoSpeech)

	g = &GoogleTranscriber{client: &fakeRecognizer{err: errors.New("quota exceeded")}}
	_, err = g.Transcribe(context.Background(), wavBytes(t, 1, 16000, 100), "en-US")
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = g.Transcribe(context.Background(), []byte("not audio"), "en-US")
	assert.ErrorIs(t, err, ErrUnsupportedAudio)
}
