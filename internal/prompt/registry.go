// Package prompt holds the system prompts sent to the reasoning oracle.
// Built-in defaults can be overridden by a yaml file which is watched and
// hot-reloaded, so prompt tuning does not need a restart.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"choonbot/internal/logger"
)

type fileConfig struct {
	DecisionSystem   string `yaml:"decision_system"`
	ReflectionSystem string `yaml:"reflection_system"`
}

// Registry serves the current prompt set. Zero value serves the defaults.
type Registry struct {
	mu      sync.RWMutex
	current fileConfig

	path    string
	watcher *fsnotify.Watcher
}

// NewRegistry loads overrides from path when it is non-empty and starts a
// watcher that reloads on change. A missing or broken override file is a
// warning, never a startup failure: the defaults always work.
func NewRegistry(path string) *Registry {
	r := &Registry{path: strings.TrimSpace(path)}
	if r.path == "" {
		return r
	}
	if err := r.reload(); err != nil {
		logger.Warnf("prompt overrides not loaded (%s): %v", r.path, err)
	}
	if err := r.watch(); err != nil {
		logger.Warnf("prompt override watcher not started: %v", err)
	}
	return r
}

func (r *Registry) reload() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parsing prompt overrides failed: %w", err)
	}
	r.mu.Lock()
	r.current = cfg
	r.mu.Unlock()
	logger.Infof("prompt overrides loaded from %s", r.path)
	return nil
}

func (r *Registry) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(r.path); err != nil {
		watcher.Close()
		return err
	}
	r.watcher = watcher
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := r.reload(); err != nil {
					logger.Warnf("prompt override reload failed: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("prompt override watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Close stops the override watcher, if one is running.
func (r *Registry) Close() error {
	if r == nil || r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

// DecisionSystem returns the system prompt for the trading decision call.
func (r *Registry) DecisionSystem() string {
	if r != nil {
		r.mu.RLock()
		override := strings.TrimSpace(r.current.DecisionSystem)
		r.mu.RUnlock()
		if override != "" {
			return override
		}
	}
	return defaultDecisionSystem
}

// ReflectionSystem returns the system prompt for the retrospective call.
func (r *Registry) ReflectionSystem() string {
	if r != nil {
		r.mu.RLock()
		override := strings.TrimSpace(r.current.ReflectionSystem)
		r.mu.RUnlock()
		if override != "" {
			return override
		}
	}
	return defaultReflectionSystem
}
