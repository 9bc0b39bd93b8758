// Package audio wraps raw PCM speech samples in a WAV container for playback
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
)

const headerSize = 44

// Format describes uncompressed PCM audio
type Format struct {
	Channels    int
	SampleRate  int
	SampleWidth int // bytes per sample
}

// DefaultFormat is what the speech model produces: 16-bit mono at 24 kHz
var DefaultFormat = Format{Channels: 1, SampleRate: 24000, SampleWidth: 2}

var (
	ErrEmptyPayload = errors.New("audio payload is empty")
	ErrNotWAV       = errors.New("not a PCM WAV container")
)

// FrameSize is the number of bytes holding one sample for every channel
func (f Format) FrameSize() int { return f.Channels * f.SampleWidth }

func (f Format) byteRate() int { return f.SampleRate * f.FrameSize() }

func (f Format) validate() error {
	if f.Channels < 1 || f.SampleRate < 1 || f.SampleWidth < 1 {
		return fmt.Errorf("invalid audio format %+v", f)
	}
	return nil
}

// EncodeWAV returns a canonical RIFF/WAVE file: a 44-byte header followed by
// the PCM bytes. A trailing partial frame is dropped
func EncodeWAV(pcm []byte, f Format) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	pcm = pcm[:len(pcm)-len(pcm)%f.FrameSize()]
	if len(pcm) == 0 {
		return nil, ErrEmptyPayload
	}

	out := make([]byte, headerSize+len(pcm))
	le := binary.LittleEndian

	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16) // PCM fmt chunk size
	le.PutUint16(out[20:22], 1)  // PCM
	le.PutUint16(out[22:24], uint16(f.Channels))
	le.PutUint32(out[24:28], uint32(f.SampleRate))
	le.PutUint32(out[28:32], uint32(f.byteRate()))
	le.PutUint16(out[32:34], uint16(f.FrameSize()))
	le.PutUint16(out[34:36], uint16(f.SampleWidth*8))

	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[headerSize:], pcm)

	return out, nil
}

// DecodeWAV returns the PCM samples and format of a WAV file. Chunks other
// than "fmt " and "data" are skipped
func DecodeWAV(data []byte) ([]byte, Format, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, Format{}, ErrNotWAV
	}
	le := binary.LittleEndian

	var (
		f       Format
		haveFmt bool
	)
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(le.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, Format{}, fmt.Errorf("%w: chunk %q overruns file", ErrNotWAV, id)
		}
		switch id {
		case "fmt ":
			if size < 16 || le.Uint16(data[body:]) != 1 {
				return nil, Format{}, fmt.Errorf("%w: unsupported fmt chunk", ErrNotWAV)
			}
			f = Format{
				Channels:    int(le.Uint16(data[body+2:])),
				SampleRate:  int(le.Uint32(data[body+4:])),
				SampleWidth: int(le.Uint16(data[body+14:])) / 8,
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, Format{}, fmt.Errorf("%w: data before fmt", ErrNotWAV)
			}
			pcm := make([]byte, size)
			copy(pcm, data[body:body+size])
			return pcm, f, nil
		}
		// chunks are word aligned
		off = body + size + size%2
	}
	return nil, Format{}, fmt.Errorf("%w: no data chunk", ErrNotWAV)
}

// DataURI encodes bytes as a data: URI with the given MIME type
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// WAVDataURI wraps pcm in a WAV container and returns it as a data URI
func WAVDataURI(pcm []byte, f Format) (string, error) {
	wav, err := EncodeWAV(pcm, f)
	if err != nil {
		return "", err
	}
	return DataURI("audio/wav", wav), nil
}

// FormatFromMIME reads PCM parameters from a MIME type such as
// "audio/L16;codec=pcm;rate=24000". Missing parameters keep their defaults
func FormatFromMIME(mimeType string) (Format, error) {
	f := DefaultFormat
	if mimeType == "" {
		return f, nil
	}
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return Format{}, fmt.Errorf("invalid audio MIME type %q: %w", mimeType, err)
	}
	switch strings.ToLower(mediaType) {
	case "audio/l16", "audio/pcm", "audio/raw":
	default:
		return Format{}, fmt.Errorf("unsupported audio MIME type %q", mediaType)
	}
	if v, ok := params["rate"]; ok {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return Format{}, fmt.Errorf("invalid sample rate %q", v)
		}
		f.SampleRate = rate
	}
	if v, ok := params["channels"]; ok {
		ch, err := strconv.Atoi(v)
		if err != nil || ch <= 0 {
			return Format{}, fmt.Errorf("invalid channel count %q", v)
		}
		f.Channels = ch
	}
	return f, nil
}
