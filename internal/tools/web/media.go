package web

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

var mediaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d29922")).Underline(true)

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// Display shows image and video URLs: in the browser when GUI is set,
// otherwise as a highlighted link on the console.
type Display struct {
	GUI  bool
	Out  io.Writer
	Open func(url string) error
}

// Show renders one media URL and returns the observation text.
func (d *Display) Show(kind engine.MediaKind, url string) (string, error) {
	url = CleanURL(url)
	if url == "" {
		return "", fmt.Errorf("no URL given")
	}
	if d.GUI {
		open := d.Open
		if open == nil {
			open = OpenBrowser
		}
		if err := open(url); err != nil {
			return fmt.Sprintf("That URL returned an error: %v. Try again if you have more URLs.", err), nil
		}
		return fmt.Sprintf("The %s was displayed successfully in the browser.", kind), nil
	}
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	icon := "🖼 "
	if kind == engine.MediaVideo {
		icon = "🎞 "
	}
	fmt.Fprintf(out, "%s %s\n", icon, mediaStyle.Render(url))
	return fmt.Sprintf("The %s was displayed successfully in the terminal.", kind), nil
}

// NewImageTool returns the image tool.
func NewImageTool(d *Display) engine.Tool {
	return engine.FuncTool{
		ToolName: "image",
		Desc:     "A tool which allows you to retrieve and really display images from a web page in a text-based terminal. Prefer PNG and JPEG images. Input should be in the form of a URL.",
		Fn: func(ctx context.Context, input string) (string, error) {
			return d.Show(engine.MediaImage, input)
		},
	}
}

// NewVideoTool returns the video tool.
func NewVideoTool(d *Display) engine.Tool {
	return engine.FuncTool{
		ToolName: "video",
		Desc:     "A tool which allows you to retrieve and really display videos from a web page in a text-based terminal. Input should be in the form of a URL.",
		Fn: func(ctx context.Context, input string) (string, error) {
			return d.Show(engine.MediaVideo, input)
		},
	}
}
