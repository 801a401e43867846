package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
)

const sampleRate = beep.SampleRate(44100)

const (
	SOUND_COLLECT = "collect"
	SOUND_VICTORY = "victory"
	SOUND_START   = "start"
)

// tones stand in for missing wav files.
var tones = map[string][]tone{
	SOUND_COLLECT: {{880, 60 * time.Millisecond}, {1320, 90 * time.Millisecond}},
	SOUND_VICTORY: {{523, 120 * time.Millisecond}, {659, 120 * time.Millisecond}, {784, 120 * time.Millisecond}, {1046, 300 * time.Millisecond}},
	SOUND_START:   {{440, 80 * time.Millisecond}},
}

type tone struct {
	freq     float64
	duration time.Duration
}

// Sounds plays short effects through one mixer. Without an audio device
// every Play is a no-op.
type Sounds struct {
	mu          sync.Mutex
	buffers     map[string]*beep.Buffer
	mixer       *beep.Mixer
	Volume      float64
	initialized bool
}

func NewSounds(volume float64) *Sounds {
	return &Sounds{
		buffers: make(map[string]*beep.Buffer),
		mixer:   &beep.Mixer{},
		Volume:  volume,
	}
}

// Init opens the speaker and loads every effect. The speaker is opened in
// the background so a slow device does not hold the first frame.
func (s *Sounds) Init() {
	for name := range tones {
		s.buffers[name] = loadSound(name)
	}
	go func() {
		if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			log.Warnf("audio disabled: %v", err)
			return
		}
		speaker.Play(s.mixer)
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}()
}

func (s *Sounds) Play(name string) {
	s.mu.Lock()
	ready := s.initialized
	s.mu.Unlock()
	buf, found := s.buffers[name]
	if !ready || !found {
		return
	}
	v := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   s.Volume,
	}
	speaker.Lock()
	s.mixer.Add(v)
	speaker.Unlock()
}

// loadSound reads <name>.wav next to the binary, else synthesizes the tone.
func loadSound(name string) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	f, err := ebitenutil.OpenFile(name + ".wav")
	if err == nil {
		streamer, format, err := wav.Decode(f)
		if err == nil {
			buf.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
			streamer.Close()
			return buf
		}
		f.Close()
		log.Warnf("%s.wav: %v", name, err)
	}
	parts := make([]beep.Streamer, 0, len(tones[name]))
	for _, t := range tones[name] {
		parts = append(parts, newBlip(t.freq, t.duration))
	}
	buf.Append(beep.Seq(parts...))
	return buf
}

// blip is a sine with a linear fade out.
type blip struct {
	freq     float64
	phase    float64
	position int
	duration int
}

func newBlip(freq float64, d time.Duration) *blip {
	return &blip{freq: freq, duration: sampleRate.N(d)}
}

func (b *blip) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.position >= b.duration {
			return i, i > 0
		}
		env := 1 - float64(b.position)/float64(b.duration)
		val := 0.3 * env * math.Sin(2*math.Pi*b.phase)
		samples[i][0] = val
		samples[i][1] = val
		b.phase += b.freq / float64(sampleRate)
		b.phase -= math.Floor(b.phase)
		b.position++
	}
	return len(samples), true
}

func (b *blip) Err() error { return nil }
