package prompts

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// LoadDir applies every template file found in dir as an override.
// Missing files are skipped; it returns the IDs that were loaded.
func LoadDir(r *PromptRegistry, dir string) ([]string, error) {
	var loaded []string
	for file, id := range TemplateFiles {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return loaded, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		r.Override(id, string(data))
		loaded = append(loaded, id)
	}
	return loaded, nil
}

// TemplateWatcher reloads template overrides when their files change.
type TemplateWatcher struct {
	dir      string
	registry *PromptRegistry
	watcher  *fsnotify.Watcher
	onReload func(id string)
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewTemplateWatcher creates a watcher for dir. Call Start to begin watching.
func NewTemplateWatcher(r *PromptRegistry, dir string) (*TemplateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &TemplateWatcher{dir: dir, registry: r, watcher: w}, nil
}

// OnReload sets a callback invoked with the prompt ID after each reload.
func (tw *TemplateWatcher) OnReload(fn func(id string)) {
	tw.onReload = fn
}

// Start begins watching the template directory.
func (tw *TemplateWatcher) Start(ctx context.Context) error {
	if err := tw.watcher.Add(tw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", tw.dir, err)
	}
	ctx, tw.cancel = context.WithCancel(ctx)
	tw.wg.Add(1)
	go tw.eventLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (tw *TemplateWatcher) Stop() error {
	if tw.cancel != nil {
		tw.cancel()
	}
	tw.wg.Wait()
	return tw.watcher.Close()
}

func (tw *TemplateWatcher) eventLoop(ctx context.Context) {
	defer tw.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			tw.handleEvent(event)
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Template watcher error: %v", err)
		}
	}
}

func (tw *TemplateWatcher) handleEvent(event fsnotify.Event) {
	id, ok := TemplateFiles[filepath.Base(event.Name)]
	if !ok {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		tw.registry.Override(id, "")
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		data, err := os.ReadFile(event.Name)
		if err != nil {
			log.Printf("⚠️  Failed to reload template %s: %v", event.Name, err)
			return
		}
		tw.registry.Override(id, string(data))
	default:
		return
	}

	log.Printf("📝 Reloaded %s template", id)
	if tw.onReload != nil {
		tw.onReload(id)
	}
}
