package processor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/radx-adapter/dicom/tag"
	"github.com/codeninja55/radx-adapter/internal/model"
	"github.com/codeninja55/radx-adapter/internal/processor"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := processor.ParseConfig(map[string]string{
		"priority":         "normal",
		"pipeline-default": "pl-123",
	})
	require.NoError(t, err)

	assert.Equal(t, processor.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, processor.DefaultJobRetryDelay, cfg.JobRetryDelay)
	assert.Equal(t, model.PriorityNormal, cfg.Priority)
	assert.Equal(t, tag.New(0x0020, 0x000D), cfg.GroupBy)
	assert.Equal(t, map[string]string{"default": "pl-123"}, cfg.Pipelines)
}

func TestParseConfig_MissingPriorityRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"pipeline-default": "pl-1",
	})
	assert.Error(t, err)
}

func TestParseConfig_CustomValues(t *testing.T) {
	cfg, err := processor.ParseConfig(map[string]string{
		"timeout":          "30",
		"jobRetryDelay":    "250",
		"priority":         "higher",
		"groupBy":          "0020,000E",
		"pipeline-primary": "pl-1",
		"pipeline-backup":  "pl-2",
	})
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.JobRetryDelay)
	assert.Equal(t, model.PriorityHigher, cfg.Priority)
	assert.Equal(t, tag.New(0x0020, 0x000E), cfg.GroupBy)
	assert.Len(t, cfg.Pipelines, 2)
}

func TestParseConfig_TimeoutBelowMinimumRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"timeout":           "1",
		"pipeline-default": "pl-1",
	})
	assert.Error(t, err)
}

func TestParseConfig_TimeoutNotIntegerRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"timeout":          "soon",
		"pipeline-default": "pl-1",
	})
	assert.Error(t, err)
}

func TestParseConfig_UnrecognizedPriorityRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"priority":         "urgent",
		"pipeline-default": "pl-1",
	})
	assert.Error(t, err)
}

func TestParseConfig_MalformedGroupByRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"groupBy":          "not-a-tag",
		"pipeline-default": "pl-1",
	})
	assert.Error(t, err)
}

func TestParseConfig_NoPipelinesRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"timeout":  "10",
		"priority": "normal",
	})
	assert.Error(t, err)
}

func TestParseConfig_EmptyPipelineNameRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"pipeline-": "pl-1",
	})
	assert.Error(t, err)
}

func TestParseConfig_UnrecognizedKeyRejected(t *testing.T) {
	_, err := processor.ParseConfig(map[string]string{
		"pipeline-default": "pl-1",
		"bogusKey":         "value",
	})
	assert.Error(t, err)
}
