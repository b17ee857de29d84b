package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func probeSine(n int, rate float64) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = 2 * math.Sin(2*math.Pi*1.5*float64(i)/rate)
	}
	return vals
}

func TestSonifyLength(t *testing.T) {
	probe := probeSine(120, 60)
	out := DefaultVoice().Sonify(probe, 60)
	if len(out) != 2*SampleRate {
		t.Fatalf("expected %d samples, got %d", 2*SampleRate, len(out))
	}
	for i, s := range out {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
}

func TestSonifyFlatProbeStillSounds(t *testing.T) {
	out := DefaultVoice().Sonify(make([]float64, 30), 60)
	energy := 0.0
	for _, s := range out {
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		t.Error("expected an audible base tone for a flat probe")
	}
}

func TestSonifyEmpty(t *testing.T) {
	if out := DefaultVoice().Sonify(nil, 60); out != nil {
		t.Errorf("expected nil, got %d samples", len(out))
	}
	if out := DefaultVoice().Sonify([]float64{1}, 0); out != nil {
		t.Errorf("expected nil for zero rate, got %d samples", len(out))
	}
}

func TestLargerDisplacementIsLouder(t *testing.T) {
	rms := func(out []float32) float64 {
		sum := 0.0
		for _, s := range out {
			sum += float64(s) * float64(s)
		}
		return math.Sqrt(sum / float64(len(out)))
	}
	quiet := make([]float64, 60)
	loud := make([]float64, 60)
	for i := range loud {
		loud[i] = 1
	}
	v := Voice{Base: BaseFreq, Octaves: 0, Scale: 1}
	if rms(v.Sonify(loud, 60)) <= rms(v.Sonify(quiet, 60)) {
		t.Error("expected full displacement to be louder than rest")
	}
}

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	samples := []float32{0, 1, -1, 0.5}
	if err := WriteWAV(&buf, samples, SampleRate); err != nil {
		t.Fatal(err)
	}

	b := buf.Bytes()
	if len(b) != 44+2*len(samples) {
		t.Fatalf("unexpected size %d", len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Fatalf("bad header %q", b[:44])
	}
	if got := binary.LittleEndian.Uint32(b[24:28]); got != SampleRate {
		t.Errorf("sample rate %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != 8 {
		t.Errorf("data size %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(b[46:48])); got != math.MaxInt16 {
		t.Errorf("full scale sample %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(b[48:50])); got != -math.MaxInt16 {
		t.Errorf("negative full scale sample %d", got)
	}
}
