package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV builds a PCM WAV with a LIST chunk before the data
func makeWAV(sampleRate, channels, bits, dataLen int) []byte {
	var buf bytes.Buffer
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	list := []byte("INFOtest")
	buf.WriteString("RIFF")
	w(uint32(4 + 8 + 16 + 8 + len(list) + 8 + dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1))
	w(uint16(channels))
	w(uint32(sampleRate))
	w(uint32(sampleRate * channels * bits / 8))
	w(uint16(channels * bits / 8))
	w(uint16(bits))

	buf.WriteString("LIST")
	w(uint32(len(list)))
	buf.Write(list)

	buf.WriteString("data")
	w(uint32(dataLen))
	for i := 0; i < dataLen; i++ {
		buf.WriteByte(byte(i))
	}
	return buf.Bytes()
}

func TestParseWAV(t *testing.T) {
	format, data, err := parseWAV(makeWAV(44100, 2, 16, 32))
	require.NoError(t, err)
	assert.Equal(t, wavFormat{SampleRate: 44100, Channels: 2, BitDepth: 16}, format)
	assert.Len(t, data, 32)
	assert.Equal(t, byte(31), data[31])
}

func TestParseWAV_TruncatedData(t *testing.T) {
	wav := makeWAV(8000, 1, 16, 32)
	_, data, err := parseWAV(wav[:len(wav)-10])
	require.NoError(t, err)
	assert.Len(t, data, 22)
}

func TestParseWAV_Invalid(t *testing.T) {
	cases := map[string][]byte{
		"empty":    nil,
		"not riff": []byte("OggS0000WAVEfmt "),
		"no data":  makeWAV(8000, 1, 16, 0)[:36],

		"empty data chunk": makeWAV(8000, 1, 16, 0),
		"zero channels":    makeWAV(8000, 0, 16, 32),
		"zero sample rate": makeWAV(0, 1, 16, 32),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseWAV(in)
			assert.ErrorIs(t, err, ErrInvalidWAV)
		})
	}
}
