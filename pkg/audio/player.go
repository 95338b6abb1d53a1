package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton. oto allows one context per process, so the
// first WAV played fixes the sample rate and channel count.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioFormat  wavFormat
	globalAudioErr     error
)

var (
	ErrInvalidWAV       = errors.New("invalid WAV data")
	ErrFormatMismatch   = errors.New("WAV format differs from the open audio context")
	ErrAudioUnavailable = errors.New("audio context unavailable")
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// initAudioContext initializes the global audio context once
func initAudioContext(format wavFormat) error {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioErr = fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		globalAudioFormat = format
	})

	if globalAudioErr != nil {
		return globalAudioErr
	}
	if globalAudioFormat.SampleRate != format.SampleRate || globalAudioFormat.Channels != format.Channels {
		return ErrFormatMismatch
	}
	return nil
}

// PlayWAV plays 16-bit PCM WAV data, looping it until duration has elapsed or
// ctx is cancelled. It blocks for the whole alert.
func PlayWAV(ctx context.Context, wavData []byte, duration time.Duration) error {
	format, audioData, err := parseWAV(wavData)
	if err != nil {
		return err
	}
	if format.BitDepth != 16 {
		return fmt.Errorf("%w: %d-bit samples are not supported", ErrInvalidWAV, format.BitDepth)
	}
	if err := initAudioContext(format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	for {
		player := globalAudioCtx.NewPlayer(bytes.NewReader(audioData))
		player.Play()

		for player.IsPlaying() {
			select {
			case <-ctx.Done():
				player.Pause()
				return player.Close()
			case <-time.After(10 * time.Millisecond):
			}
		}

		if err := player.Close(); err != nil {
			return err
		}

		// Sound shorter than the alert: start it again
		if ctx.Err() != nil {
			return nil
		}
	}
}

// parseWAV parses a WAV file and returns the format and audio data
func parseWAV(data []byte) (wavFormat, []byte, error) {
	var format wavFormat
	reader := bytes.NewReader(data)

	header := make([]byte, 12)
	if _, err := io.ReadFull(reader, header); err != nil {
		return format, nil, fmt.Errorf("%w: short header", ErrInvalidWAV)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return format, nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidWAV)
	}

	haveFormat := false
	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			return format, nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return format, nil, fmt.Errorf("%w: truncated chunk", ErrInvalidWAV)
		}

		switch string(chunkID) {
		case "fmt ":
			if chunkSize < 16 {
				return format, nil, fmt.Errorf("%w: fmt chunk too small", ErrInvalidWAV)
			}
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return format, nil, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidWAV)
			}
			if fmtChunk.NumChannels == 0 || fmtChunk.SampleRate == 0 {
				return format, nil, fmt.Errorf("%w: zero channels or sample rate", ErrInvalidWAV)
			}
			format = wavFormat{
				SampleRate: int(fmtChunk.SampleRate),
				Channels:   int(fmtChunk.NumChannels),
				BitDepth:   int(fmtChunk.BitsPerSample),
			}
			haveFormat = true

			// Skip any extra format bytes
			if _, err := reader.Seek(int64(chunkSize-16), io.SeekCurrent); err != nil {
				return format, nil, err
			}
		case "data":
			if !haveFormat {
				return format, nil, fmt.Errorf("%w: data before fmt chunk", ErrInvalidWAV)
			}
			size := int(chunkSize)
			if size > reader.Len() {
				size = reader.Len()
			}
			if size == 0 {
				return format, nil, fmt.Errorf("%w: empty data chunk", ErrInvalidWAV)
			}
			audioData := make([]byte, size)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return format, nil, err
			}
			return format, audioData, nil
		default:
			// Skip unknown chunk
			if _, err := reader.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return format, nil, err
			}
		}
	}
}
