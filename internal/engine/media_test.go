package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanMedia(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Media
	}{
		{"none", "no links here http://insecure.test/a.png", nil},
		{
			"images and video",
			"see https://a.test/x.JPG, https://a.test/y.webp and https://v.test/clip.mp4",
			[]Media{
				{MediaImage, "https://a.test/x.JPG"},
				{MediaImage, "https://a.test/y.webp"},
				{MediaVideo, "https://v.test/clip.mp4"},
			},
		},
		{"favicon png skipped", "https://site.test/favicon.png", nil},
		{"favicon ico-like svg kept", "https://site.test/favicon.svg", []Media{{MediaImage, "https://site.test/favicon.svg"}}},
		{
			"duplicates removed",
			"https://a.test/x.gif https://a.test/x.gif",
			[]Media{{MediaImage, "https://a.test/x.gif"}},
		},
		{"markdown image", "![cat](https://a.test/cat.jpeg)", []Media{{MediaImage, "https://a.test/cat.jpeg"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanMedia(tt.text))
		})
	}
}

func TestMediaSink_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	sink := NewMediaSink(context.Background(), MediaRendererFunc(func(context.Context, Media) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil
	}), 1)

	assert.True(t, sink.Notify(Media{MediaImage, "https://a.test/1.png"}))
	<-started // renderer is busy with the first item
	assert.True(t, sink.Notify(Media{MediaImage, "https://a.test/2.png"}))
	assert.False(t, sink.Notify(Media{MediaImage, "https://a.test/3.png"}))

	close(block)
	sink.Close()
	assert.False(t, sink.Notify(Media{MediaImage, "https://a.test/4.png"}), "closed sink")
}

func TestMediaSink_RendererFailuresAreContained(t *testing.T) {
	sink := NewMediaSink(context.Background(), MediaRendererFunc(func(_ context.Context, m Media) error {
		if m.Kind == MediaVideo {
			panic("player crashed")
		}
		return errors.New("no display")
	}), 0)
	sink.Notify(Media{MediaImage, "https://a.test/1.png"})
	sink.Notify(Media{MediaVideo, "https://a.test/1.mp4"})
	sink.Close()
}

func TestRegistryRenderer(t *testing.T) {
	reg := NewToolRegistry()
	var shown []string
	reg.Register(FuncTool{ToolName: "image", Fn: func(_ context.Context, url string) (string, error) {
		shown = append(shown, url)
		return "", nil
	}})

	r := RegistryRenderer{Tools: reg}
	assert.NoError(t, r.Render(context.Background(), Media{MediaImage, "https://a.test/1.png"}))
	assert.Error(t, r.Render(context.Background(), Media{MediaVideo, "https://a.test/1.mp4"}), "video tool missing")
	assert.Equal(t, []string{"https://a.test/1.png"}, shown)
}
