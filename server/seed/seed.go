/*
 * Copyright 2026 The Couchkit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package seed imports documents from a directory into the store and keeps
// importing the files written to it.
package seed

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/pkg/document/tree"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/backend/database"
	"github.com/couchkit/couchkit/server/logging"
	"github.com/couchkit/couchkit/server/profiling/prometheus"
)

const documentExt = ".json"

var (
	// ErrInvalidSeedFile occurs when a file of the seed directory is not a
	// document.
	ErrInvalidSeedFile = errors.InvalidArgument("invalid seed file").WithCode("ErrInvalidSeedFile")
)

// Importer imports the seed directory into the backend.
type Importer struct {
	conf    *Config
	backend *backend.Backend
	logger  logging.Logger

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// New creates a new Importer.
func New(conf *Config, be *backend.Backend) *Importer {
	return &Importer{
		conf:    conf,
		backend: be,
		logger:  logging.New("seed"),
	}
}

// Start imports the whole directory and starts watching it when configured.
func (i *Importer) Start(ctx context.Context) error {
	if err := i.ImportAll(ctx); err != nil {
		return err
	}
	if !i.conf.Watch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	i.watcher = watcher

	if err := i.setupWatchers(); err != nil {
		_ = watcher.Close()
		return err
	}

	i.wg.Add(1)
	go i.watchFiles(ctx)

	i.logger.Infof("watching %s", i.conf.Dir)
	return nil
}

// Close stops watching the directory.
func (i *Importer) Close() error {
	if i.watcher == nil {
		return nil
	}
	err := i.watcher.Close()
	i.wg.Wait()
	return err
}

// ImportAll imports every document of the directory.
func (i *Importer) ImportAll(ctx context.Context) error {
	return filepath.Walk(i.conf.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, documentExt) {
			return nil
		}
		if err := i.ImportFile(ctx, path); err != nil {
			i.logger.Warnf("import %s: %v", path, err)
		}
		return nil
	})
}

// ImportFile imports the document of the given file. Files whose content is
// already the current revision of the document are skipped.
func (i *Importer) ImportFile(ctx context.Context, path string) error {
	db, id, err := i.keyOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("%s: not a JSON object: %w", path, ErrInvalidSeedFile)
	}
	for _, field := range []string{"_id", "_rev"} {
		if data, err = sjson.DeleteBytes(data, field); err != nil {
			return fmt.Errorf("strip %s of %s: %w", field, path, err)
		}
	}

	if _, err := i.backend.EnsureDatabase(ctx, db); err != nil {
		return err
	}

	rev := ""
	existing, err := i.backend.DB.FindDocInfo(ctx, db, id)
	switch {
	case err == nil:
		if sameBody(existing.Body, data) {
			return nil
		}
		rev = existing.Rev
	case errors.Is(err, database.ErrDocumentNotFound), errors.Is(err, database.ErrDocumentDeleted):
	default:
		return err
	}

	info, err := i.backend.DB.PutDocInfo(ctx, db, id, rev, data)
	if err != nil {
		return err
	}
	if i.backend.Metrics != nil {
		i.backend.Metrics.AddDocumentWrite(db, prometheus.WriteSeeded)
	}

	i.logger.Infof("seeded %s/%s at %s", db, id, info.Rev)
	return nil
}

// keyOf returns the database and the document id of a seed file. Ids are
// unescaped so that "_design%2Fapp.json" seeds "_design/app".
func (i *Importer) keyOf(path string) (string, string, error) {
	rel, err := filepath.Rel(i.conf.Dir, path)
	if err != nil {
		return "", "", fmt.Errorf("%s: %v: %w", path, err, ErrInvalidSeedFile)
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%s: not in a database directory: %w", path, ErrInvalidSeedFile)
	}

	db, err := key.NormalizeCollection(parts[0])
	if err != nil {
		return "", "", err
	}
	id, err := url.PathUnescape(strings.TrimSuffix(parts[1], documentExt))
	if err != nil {
		return "", "", fmt.Errorf("%s: %v: %w", path, err, ErrInvalidSeedFile)
	}
	if err := key.ValidateDocumentID(id); err != nil {
		return "", "", err
	}

	return db, id, nil
}

// setupWatchers adds the seed directory and its database directories to the
// watcher.
func (i *Importer) setupWatchers() error {
	return filepath.Walk(i.conf.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return i.watcher.Add(path)
		}
		return nil
	})
}

// watchFiles imports the files written to the directory until the watcher is
// closed.
func (i *Importer) watchFiles(ctx context.Context) {
	defer i.wg.Done()

	for {
		select {
		case event, ok := <-i.watcher.Events:
			if !ok {
				return
			}
			i.handleEvent(ctx, event)

		case err, ok := <-i.watcher.Errors:
			if !ok {
				return
			}
			i.logger.Warnf("watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (i *Importer) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := i.watcher.Add(event.Name); err != nil {
			i.logger.Warnf("watch %s: %v", event.Name, err)
		}
		return
	}

	if !strings.HasSuffix(event.Name, documentExt) {
		return
	}
	if err := i.ImportFile(ctx, event.Name); err != nil {
		i.logger.Warnf("import %s: %v", event.Name, err)
	}
}

func sameBody(a, b []byte) bool {
	left, err := tree.Decode(a)
	if err != nil {
		return false
	}
	right, err := tree.Decode(b)
	if err != nil {
		return false
	}
	return tree.Equal(left, right)
}
