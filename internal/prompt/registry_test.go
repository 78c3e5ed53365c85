package prompt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry("")
	defer r.Close()

	assert.Equal(t, defaultDecisionSystem, r.DecisionSystem())
	assert.Equal(t, defaultReflectionSystem, r.ReflectionSystem())
}

func TestRegistryOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(
		"decision_system: custom decision prompt\n"), 0o644))

	r := NewRegistry(path)
	defer r.Close()

	assert.Equal(t, "custom decision prompt", r.DecisionSystem())
	// Unset keys keep their defaults.
	assert.Equal(t, defaultReflectionSystem, r.ReflectionSystem())
}

func TestRegistryMissingFileFallsBack(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	defer r.Close()

	assert.Equal(t, defaultDecisionSystem, r.DecisionSystem())
}

func TestRegistryHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("decision_system: first\n"), 0o644))

	r := NewRegistry(path)
	defer r.Close()
	assert.Equal(t, "first", r.DecisionSystem())

	assert.NoError(t, os.WriteFile(path, []byte("decision_system: second\n"), 0o644))
	assert.Eventually(t, func() bool {
		return r.DecisionSystem() == "second"
	}, 3*time.Second, 50*time.Millisecond, "override change was not picked up")
}

func TestRegistryNilSafe(t *testing.T) {
	var r *Registry
	assert.Equal(t, defaultDecisionSystem, r.DecisionSystem())
	assert.Equal(t, defaultReflectionSystem, r.ReflectionSystem())
	assert.NoError(t, r.Close())
}
