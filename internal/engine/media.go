package engine

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is a URL found in a completion that can be shown to the user.
type Media struct {
	Kind MediaKind
	URL  string
}

var (
	imageURL = regexp.MustCompile(`(?i)https://[^\s"'<>()\[\]]+\.(png|jpe?g|webp|svg|gif|tiff|bmp)`)
	videoURL = regexp.MustCompile(`(?i)https://[^\s"'<>()\[\]]+\.mp4`)
)

// ScanMedia returns the image and video URLs embedded in text, in order of
// appearance, without duplicates. Favicons are skipped.
func ScanMedia(text string) []Media {
	var out []Media
	seen := make(map[string]bool)
	add := func(kind MediaKind, url string) {
		if seen[url] {
			return
		}
		seen[url] = true
		out = append(out, Media{Kind: kind, URL: url})
	}
	for _, m := range imageURL.FindAllStringSubmatch(text, -1) {
		if strings.EqualFold(m[1], "png") && strings.Contains(strings.ToLower(m[0]), "favicon") {
			continue
		}
		add(MediaImage, m[0])
	}
	for _, url := range videoURL.FindAllString(text, -1) {
		add(MediaVideo, url)
	}
	return out
}

// MediaRenderer shows one media item to the user.
type MediaRenderer interface {
	Render(ctx context.Context, m Media) error
}

// MediaRendererFunc adapts a function to MediaRenderer.
type MediaRendererFunc func(ctx context.Context, m Media) error

func (f MediaRendererFunc) Render(ctx context.Context, m Media) error { return f(ctx, m) }

// RegistryRenderer renders media through the image and video tools.
type RegistryRenderer struct {
	Tools *ToolRegistry
}

func (r RegistryRenderer) Render(ctx context.Context, m Media) error {
	out := r.Tools.Dispatch(ctx, string(m.Kind), m.URL)
	if strings.HasPrefix(out, "ERROR:") {
		return fmt.Errorf("render %s: %s", m.URL, strings.TrimSpace(strings.TrimPrefix(out, "ERROR:")))
	}
	return nil
}

// DefaultMediaBuffer is the number of pending notifications a MediaSink holds.
const DefaultMediaBuffer = 16

// MediaSink feeds a renderer from a buffered channel on its own goroutine so
// the agent loop never waits for rendering.
type MediaSink struct {
	ch   chan Media
	wg   sync.WaitGroup
	once sync.Once
}

// NewMediaSink starts a goroutine rendering notifications until Close.
func NewMediaSink(ctx context.Context, r MediaRenderer, buffer int) *MediaSink {
	if buffer <= 0 {
		buffer = DefaultMediaBuffer
	}
	s := &MediaSink{ch: make(chan Media, buffer)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for m := range s.ch {
			if err := renderSafely(ctx, r, m); err != nil {
				log.Printf("⚠️  media: %v", err)
			}
		}
	}()
	return s
}

func renderSafely(ctx context.Context, r MediaRenderer, m Media) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render %s panicked: %v", m.URL, p)
		}
	}()
	return r.Render(ctx, m)
}

// Notify queues m without blocking. It reports false when the buffer is full.
func (s *MediaSink) Notify(m Media) (queued bool) {
	defer func() {
		// send on a closed sink
		if recover() != nil {
			queued = false
		}
	}()
	select {
	case s.ch <- m:
		return true
	default:
		return false
	}
}

// Close stops accepting notifications and waits for pending renders.
func (s *MediaSink) Close() {
	s.once.Do(func() { close(s.ch) })
	s.wg.Wait()
}
