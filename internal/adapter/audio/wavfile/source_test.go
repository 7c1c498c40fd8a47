package wavfile

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/testutil"
)

// captureSink records every delivered snapshot.
type captureSink struct {
	mu        sync.Mutex
	snapshots []domain.AudioData
}

func (c *captureSink) UpdateAudioData(data domain.AudioData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots = append(c.snapshots, data)
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snapshots)
}

func (c *captureSink) last() domain.AudioData {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snapshots) == 0 {
		return domain.AudioData{}
	}
	return c.snapshots[len(c.snapshots)-1]
}

// writeSineWAV encodes a short 16-bit mono sine file.
func writeSineWAV(t *testing.T, freq float64, samples int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 44100, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: 44100},
		Data:   make([]int, samples),
	}
	for i := range buf.Data {
		buf.Data[i] = int(math.Sin(2*math.Pi*freq*float64(i)/44100) * 20000)
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

// writeZeroDepthWAV hand-assembles RIFF/WAVE headers declaring zero bits
// per sample.
func writeZeroDepthWAV(t *testing.T) string {
	t.Helper()

	var b []byte
	u16 := func(v uint16) { b = binary.LittleEndian.AppendUint16(b, v) }
	u32 := func(v uint32) { b = binary.LittleEndian.AppendUint32(b, v) }

	b = append(b, "RIFF"...)
	u32(36)
	b = append(b, "WAVE"...)
	b = append(b, "fmt "...)
	u32(16)
	u16(1)     // PCM
	u16(1)     // mono
	u32(44100) // sample rate
	u32(0)     // byte rate
	u16(0)     // block align
	u16(0)     // bits per sample
	b = append(b, "data"...)
	u32(0)

	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestOpen_RejectsMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.wav"))

	require.Error(t, err)
	var srcErr *domain.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "open", srcErr.Op)
}

func TestOpen_RejectsNonWAVContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	_, err := Open(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestOpen_RejectsZeroBitDepth(t *testing.T) {
	_, err := Open(writeZeroDepthWAV(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestSource_DeliversAnalyzedBlocks(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	source, err := Open(writeSineWAV(t, 1000, 3000))
	require.NoError(t, err)

	info := source.Info()
	assert.Equal(t, "wav", info.Kind)
	assert.Equal(t, 44100, info.SampleRate)

	sink := &captureSink{}
	require.NoError(t, source.Start(sink))
	assert.ErrorIs(t, source.Start(sink), domain.ErrSourceRunning)

	// The file holds under two full blocks, so a third snapshot can only
	// come from the rewind-and-loop path.
	assert.Eventually(t, func() bool {
		return sink.count() >= 3
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, source.Stop())
	assert.ErrorIs(t, source.Stop(), domain.ErrSourceStopped)

	// A 1 kHz tone lands in the mid band.
	last := sink.last()
	assert.Greater(t, last.Mid, last.Low)
	assert.Greater(t, last.Mid, last.High)
}
