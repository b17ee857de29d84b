package audio

import (
	"encoding/binary"
	"io"
	"math"
)

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	FmtID         [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataID        [4]byte
	DataSize      uint32
}

// WriteWAV writes samples in [-1, 1] as 16-bit mono PCM.
func WriteWAV(w io.Writer, samples []float32, rate int) error {
	dataSize := uint32(len(samples) * 2)
	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(rate),
		ByteRate:      uint32(rate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		pcm[i] = int16(math.Round(v * math.MaxInt16))
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}
