package audio

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePCM(frames int) []byte {
	pcm := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(i*37-1000)))
	}
	return pcm
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pcm := samplePCM(2400)

	wav, err := EncodeWAV(pcm, DefaultFormat)
	require.NoError(t, err)
	require.Len(t, wav, headerSize+len(pcm))

	got, f, err := DecodeWAV(wav)
	require.NoError(t, err)
	if diff := cmp.Diff(pcm, got); diff != "" {
		t.Fatalf("pcm mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, DefaultFormat, f)
}

func TestEncodeWAVHeader(t *testing.T) {
	pcm := samplePCM(10)
	wav, err := EncodeWAV(pcm, DefaultFormat)
	require.NoError(t, err)

	le := binary.LittleEndian
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), le.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), le.Uint16(wav[20:22]), "PCM")
	assert.Equal(t, uint16(1), le.Uint16(wav[22:24]), "channels")
	assert.Equal(t, uint32(24000), le.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(48000), le.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), le.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), le.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), le.Uint32(wav[40:44]))
}

func TestEncodeWAVRejects(t *testing.T) {
	_, err := EncodeWAV(nil, DefaultFormat)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = EncodeWAV([]byte{1}, DefaultFormat)
	assert.ErrorIs(t, err, ErrEmptyPayload, "less than one frame")

	_, err = EncodeWAV([]byte{1, 2}, Format{})
	assert.Error(t, err)
}

func TestEncodeWAVDropsPartialFrame(t *testing.T) {
	wav, err := EncodeWAV([]byte{1, 2, 3}, DefaultFormat)
	require.NoError(t, err)
	require.Len(t, wav, 46)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(wav[40:44]), "data size")
	assert.Equal(t, uint32(38), binary.LittleEndian.Uint32(wav[4:8]), "riff size")

	pcm, _, err := DecodeWAV(wav)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, pcm)
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	pcm := samplePCM(4)
	wav, err := EncodeWAV(pcm, DefaultFormat)
	require.NoError(t, err)

	// insert a LIST chunk with an odd size (padded) between fmt and data
	list := []byte("LIST\x03\x00\x00\x00abc\x00")
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	got, _, err := DecodeWAV(withList)
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	_, _, err := DecodeWAV([]byte("hello world, not audio"))
	assert.ErrorIs(t, err, ErrNotWAV)

	wav, err := EncodeWAV(samplePCM(4), DefaultFormat)
	require.NoError(t, err)
	_, _, err = DecodeWAV(wav[:len(wav)-2])
	assert.ErrorIs(t, err, ErrNotWAV)
}

func TestWAVDataURI(t *testing.T) {
	pcm := samplePCM(8)
	uri, err := WAVDataURI(pcm, DefaultFormat)
	require.NoError(t, err)

	const prefix = "data:audio/wav;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)

	got, _, err := DecodeWAV(raw)
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
}

func TestFormatFromMIME(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: DefaultFormat},
		{in: "audio/L16;codec=pcm;rate=24000", want: DefaultFormat},
		{in: "audio/L16;rate=16000", want: Format{Channels: 1, SampleRate: 16000, SampleWidth: 2}},
		{in: "audio/pcm;rate=48000;channels=2", want: Format{Channels: 2, SampleRate: 48000, SampleWidth: 2}},
		{in: "audio/mpeg", wantErr: true},
		{in: "audio/L16;rate=fast", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatFromMIME(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
