// internal/catalog/watcher.go
package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"mcp-menu-planner/internal/models"
)

// FoodSink receives foods parsed from watched CSV files.
type FoodSink interface {
	UpsertFoods(ctx context.Context, foods []models.FoodItem) (int, error)
}

// Watcher imports every .csv file written or created in a directory.
type Watcher struct {
	dir     string
	sink    FoodSink
	watcher *fsnotify.Watcher
}

func NewWatcher(dir string, sink FoodSink) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, sink: sink, watcher: w}, nil
}

// LoadExisting imports the CSV files already present in the directory.
func (fw *Watcher) LoadExisting(ctx context.Context) error {
	entries, err := os.ReadDir(fw.dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fw.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isCSV(e.Name()) {
			continue
		}
		if err := fw.HandleFileChange(ctx, filepath.Join(fw.dir, e.Name())); err != nil {
			log.Printf("Error importing %s: %v", e.Name(), err)
		}
	}
	return nil
}

// Watch blocks until ctx is cancelled or the watcher is closed.
func (fw *Watcher) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isCSV(event.Name) {
				continue
			}
			log.Printf("Catalog file changed: %s", event.Name)
			if err := fw.HandleFileChange(ctx, event.Name); err != nil {
				log.Printf("Error importing %s: %v", event.Name, err)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// HandleFileChange parses one CSV file and upserts its foods.
func (fw *Watcher) HandleFileChange(ctx context.Context, path string) error {
	foods, err := ParseFoodsFile(path)
	if err != nil {
		return err
	}
	n, err := fw.sink.UpsertFoods(ctx, foods)
	if err != nil {
		return fmt.Errorf("failed to store foods from %s: %w", filepath.Base(path), err)
	}
	log.Printf("Imported %d foods from %s", n, filepath.Base(path))
	return nil
}

func (fw *Watcher) Close() error {
	return fw.watcher.Close()
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
