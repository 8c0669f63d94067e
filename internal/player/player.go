// Package player builds playback sessions for activated leaves. A session
// owns the ordered track list of one leaf (an album directory or a single
// audio file) and drives the speaker through gopxl/beep.
package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/strumapp/strum/internal/catalog"
)

// Size is the viewport a session asks for: wide enough for its longest
// track title, tall enough for the track list plus the status rows.
type Size struct {
	Width  int
	Height int
}

const (
	minSessionWidth = 53
	sessionRate     = beep.SampleRate(44100)
)

// Track is one playable file within a session.
type Track struct {
	Title string
	Path  string
}

// Factory constructs playback sessions; activation, previous and
// random-retry flows all consume the same contract.
type Factory interface {
	Build(path string) (*Session, Size, error)
}

// Session is one playback run over a leaf's tracks.
type Session struct {
	Path   string
	Tracks []Track

	mu       sync.Mutex
	index    int
	ctrl     *beep.Ctrl
	playing  bool
	finished bool
}

// BeepFactory is the speaker-backed Factory.
type BeepFactory struct{}

var speakerOnce sync.Once

// Build collects the tracks under path: the file itself when path is an
// audio file, otherwise every audio file directly inside the directory in
// name order. Fails when nothing playable is found.
func (BeepFactory) Build(path string) (*Session, Size, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Size{}, fmt.Errorf("stat %q: %w", path, err)
	}

	var tracks []Track
	if info.IsDir() {
		children, err := os.ReadDir(path)
		if err != nil {
			return nil, Size{}, fmt.Errorf("read %q: %w", path, err)
		}
		for _, child := range children {
			if child.IsDir() || !catalog.IsAudioPath(child.Name()) {
				continue
			}
			tracks = append(tracks, Track{
				Title: trimTitle(child.Name()),
				Path:  filepath.Join(path, child.Name()),
			})
		}
	} else if catalog.IsAudioPath(path) {
		tracks = append(tracks, Track{Title: trimTitle(filepath.Base(path)), Path: path})
	}

	if len(tracks) == 0 {
		return nil, Size{}, fmt.Errorf("no playable audio in %q", path)
	}

	session := &Session{Path: path, Tracks: tracks}
	return session, sessionSize(tracks), nil
}

func sessionSize(tracks []Track) Size {
	width := minSessionWidth
	for _, track := range tracks {
		if w := len([]rune(track.Title)) + 6; w > width {
			width = w
		}
	}
	return Size{Width: width, Height: len(tracks) + 2}
}

func trimTitle(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Index returns the position of the current track.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Playing reports whether the session is actively streaming.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Finished reports whether the current track ran to its end; the UI tick
// advances to the next track when it sees this.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Play decodes the current track and hands it to the speaker, replacing
// whatever was streaming before.
func (s *Session) Play() error {
	s.mu.Lock()
	track := s.Tracks[s.index]
	s.mu.Unlock()

	streamer, format, err := decode(track.Path)
	if err != nil {
		return err
	}

	var initErr error
	speakerOnce.Do(func() {
		initErr = speaker.Init(sessionRate, sessionRate.N(time.Millisecond*100))
	})
	if initErr != nil {
		streamer.Close()
		return fmt.Errorf("init speaker: %w", initErr)
	}

	resampled := beep.Resample(4, format.SampleRate, sessionRate, streamer)
	ctrl := &beep.Ctrl{Streamer: beep.Seq(resampled, beep.Callback(func() {
		s.mu.Lock()
		s.finished = true
		s.playing = false
		s.mu.Unlock()
	}))}

	speaker.Clear()
	speaker.Play(ctrl)

	s.mu.Lock()
	s.ctrl = ctrl
	s.playing = true
	s.finished = false
	s.mu.Unlock()
	return nil
}

// Toggle pauses or resumes the current track.
func (s *Session) Toggle() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = !ctrl.Paused
	paused := ctrl.Paused
	speaker.Unlock()
	s.mu.Lock()
	s.playing = !paused
	s.mu.Unlock()
}

// Next advances to the following track, wrapping at the end.
func (s *Session) Next() error {
	s.mu.Lock()
	s.index = (s.index + 1) % len(s.Tracks)
	s.mu.Unlock()
	return s.Play()
}

// Prev steps back to the preceding track, wrapping at the start.
func (s *Session) Prev() error {
	s.mu.Lock()
	s.index = (s.index - 1 + len(s.Tracks)) % len(s.Tracks)
	s.mu.Unlock()
	return s.Play()
}

// Stop silences the speaker without discarding the session.
func (s *Session) Stop() {
	speaker.Clear()
	s.mu.Lock()
	s.playing = false
	s.ctrl = nil
	s.mu.Unlock()
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
}
