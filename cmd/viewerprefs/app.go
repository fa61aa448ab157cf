package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CreativeUnicorns/viewerprefs"
	"github.com/CreativeUnicorns/viewerprefs/cookies"
	"github.com/CreativeUnicorns/viewerprefs/storage"
)

const (
	dbFile     = "viewerprefs.db"
	cookieFile = "cookies.json"
	cookieSite = "http://localhost/"
)

// app holds the backends opened for one command invocation.
type app struct {
	dataDir  string
	manager  *viewerprefs.Manager
	jar      *cookies.JarStore
	settings *viewerprefs.Settings
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "viewerprefs")
	}
	return ".viewerprefs"
}

func openApp(dataDir, viewerID string, logger viewerprefs.Logger) (*app, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	jar, err := cookies.NewJarStore(cookieSite)
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := jar.Load(filepath.Join(dataDir, cookieFile)); err != nil {
		store.Close()
		return nil, err
	}

	mgr := viewerprefs.New(
		viewerprefs.WithStorage(store),
		viewerprefs.WithLogger(logger),
	)
	return &app{
		dataDir:  dataDir,
		manager:  mgr,
		jar:      jar,
		settings: mgr.For(viewerID, jar),
	}, nil
}

// close persists the cookie jar and closes the store.
func (a *app) close() error {
	saveErr := a.jar.Save(filepath.Join(a.dataDir, cookieFile))
	closeErr := a.manager.Close()
	if saveErr != nil {
		return saveErr
	}
	return closeErr
}
