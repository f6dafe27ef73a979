package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lixenwraith/sage-audio/asset"
	"github.com/lixenwraith/sage-audio/audio"
	"github.com/lixenwraith/sage-audio/settings"
	"github.com/lixenwraith/sage-audio/status"
	"github.com/spf13/cobra"
)

// session bundles a SoundManager with the resources it was built from
type session struct {
	*audio.SoundManager
	config  *audio.Config
	metrics *status.Registry
	closers []func() error
}

func (s *session) Close() {
	s.SoundManager.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn("close failed", "err", err)
		}
	}
}

func loadConfig() (*audio.Config, error) {
	cfg, err := audio.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("audio config: %w", err)
	}
	return cfg, nil
}

func openStore() (settings.Store, func() error, error) {
	if settingsPath == "" {
		return settings.NewMemory(), func() error { return nil }, nil
	}
	st, err := settings.Open(settingsPath)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}

func openSource() (asset.Source, func() error, error) {
	if strings.EqualFold(filepath.Ext(assetPath), ".zip") {
		a, err := asset.OpenArchive(assetPath)
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil
	}
	return asset.NewDir(assetPath), func() error { return nil }, nil
}

// openSession builds a session on out; a nil out plays into a silent sink
func openSession(cmd *cobra.Command, cfg *audio.Config, out audio.Output) (*session, error) {
	store, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}
	src, closeSource, err := openSource()
	if err != nil {
		closeStore()
		return nil, err
	}

	metrics := status.NewRegistry()
	sm := audio.NewSoundManager(store, src, out,
		audio.WithConfig(cfg),
		audio.WithLogger(newLogger(cmd)),
		audio.WithStatus(metrics),
	)
	return &session{
		SoundManager: sm,
		config:       cfg,
		metrics:      metrics,
		closers:      []func() error{closeStore, closeSource},
	}, nil
}
