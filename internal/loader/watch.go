package loader

import (
	"context"
	"log"

	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a dataset table whenever its CSV file is created or written.
type Watcher struct {
	db      *database.DB
	watcher *fsnotify.Watcher

	// Reloaded receives the table name after every successful reload.
	// It may be nil.
	Reloaded chan<- string
}

// NewWatcher starts watching dir. Call Run to process events.
func NewWatcher(db *database.DB, dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{db: db, watcher: w}, nil
}

// Run processes file events until ctx is done, then stops the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			table, ok := TableForFile(event.Name)
			if !ok {
				continue
			}
			n, err := LoadTable(ctx, w.db, table, event.Name)
			if err != nil {
				log.Printf("Reloading %s failed: %v", table.Name, err)
				continue
			}
			log.Printf("Reloaded %d %s from %s", n, table.Name, event.Name)
			if w.Reloaded != nil {
				select {
				case w.Reloaded <- table.Name:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}
