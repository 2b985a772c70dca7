package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/radx-adapter/internal/config"
)

func writeRegistryFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRegistryFile_HappyPath(t *testing.T) {
	path := writeRegistryFile(t, `
calledAEs:
  - name: research-pacs
    aeTitle: RESEARCH_SCP
    ignoredSopClasses:
      - "1.2.840.10008.5.1.4.1.1.7"
    overwriteSameInstance: false
    processorConfig:
      pipeline-default: "pl-123"
allowedSources:
  - aeTitle: MODALITY1
    hostOrIp: "10.0.0.5"
destinations:
  - name: archive
    aeTitle: ARCHIVE_SCP
    host: "10.0.0.9"
    port: 104
`)

	calledAEs, allowedSources, destinations, err := config.LoadRegistryFile(path)
	require.NoError(t, err)

	require.Len(t, calledAEs, 1)
	assert.Equal(t, "RESEARCH_SCP", calledAEs[0].AETitle)
	assert.True(t, calledAEs[0].IgnoresSOPClass("1.2.840.10008.5.1.4.1.1.7"))
	assert.False(t, calledAEs[0].OverwriteSameInstance)

	require.Len(t, allowedSources, 1)
	assert.Equal(t, "MODALITY1", allowedSources[0].AETitle)

	require.Len(t, destinations, 1)
	assert.Equal(t, "archive", destinations[0].Name)
	assert.Equal(t, 104, destinations[0].Port)
}

func TestLoadRegistryFile_MissingFile(t *testing.T) {
	_, _, _, err := config.LoadRegistryFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRegistryFile_InvalidCalledAE(t *testing.T) {
	path := writeRegistryFile(t, `
calledAEs:
  - name: missing-ae-title
`)
	_, _, _, err := config.LoadRegistryFile(path)
	assert.Error(t, err)
}

func TestLoadRegistryFile_AETitleTooLong(t *testing.T) {
	path := writeRegistryFile(t, `
calledAEs:
  - name: too-long
    aeTitle: "THIS_AE_TITLE_IS_WAY_TOO_LONG"
`)
	_, _, _, err := config.LoadRegistryFile(path)
	assert.Error(t, err)
}

func TestLoadRegistryFile_InvalidDestinationPort(t *testing.T) {
	path := writeRegistryFile(t, `
calledAEs:
  - name: ae
    aeTitle: AE1
destinations:
  - name: archive
    aeTitle: ARCHIVE_SCP
    host: "10.0.0.9"
    port: 0
`)
	_, _, _, err := config.LoadRegistryFile(path)
	assert.Error(t, err)
}
