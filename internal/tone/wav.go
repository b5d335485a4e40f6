package tone

import (
	"encoding/binary"
	"io"
	"math"
)

const bitsPerSample = 16

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// WriteWAV encodes mono samples in [-1, 1] as 16-bit PCM WAV
func WriteWAV(w io.Writer, samples []float64, sampleRate int) error {
	dataSize := uint32(len(samples) * bitsPerSample / 8)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * bitsPerSample / 8),
		BlockAlign:    bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		pcm[i] = int16(math.Round(s * math.MaxInt16))
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}
