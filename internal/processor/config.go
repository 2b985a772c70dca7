package processor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codeninja55/radx-adapter/dicom/tag"
	"github.com/codeninja55/radx-adapter/internal/model"
)

// DefaultTimeout is the quiescence window when processorConfig omits
// "timeout".
const DefaultTimeout = 5 * time.Second

// MinTimeout is the lowest accepted "timeout" value.
const MinTimeout = 5 * time.Second

// DefaultJobRetryDelay is the resubmit delay when processorConfig omits
// "jobRetryDelay".
const DefaultJobRetryDelay = 5 * time.Second

// studyInstanceUID is the fallback grouping tag: (0020,000D).
var studyInstanceUID = tag.New(0x0020, 0x000D)

// Config is the validated, typed form of a CalledAE's processorConfig.
type Config struct {
	Timeout       time.Duration
	JobRetryDelay time.Duration
	Priority      model.Priority
	GroupBy       tag.Tag
	Pipelines     map[string]string // pipeline name -> pipeline id
}

// ParseConfig validates raw against §4.5's schema: unrecognized
// non-"pipeline-"-prefixed keys are rejected, at least one
// "pipeline-<name>" key is required, and "priority" must be given
// explicitly — per §9's design note, there is no default priority.
func ParseConfig(raw map[string]string) (Config, error) {
	cfg := Config{
		Timeout:       DefaultTimeout,
		JobRetryDelay: DefaultJobRetryDelay,
		GroupBy:       studyInstanceUID,
		Pipelines:     make(map[string]string),
	}

	var havePriority bool
	for key, value := range raw {
		switch {
		case key == "timeout":
			seconds, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("processorConfig.timeout: not an integer: %q", value)
			}
			if seconds < 5 {
				return Config{}, fmt.Errorf("processorConfig.timeout: must be >= 5, got %d", seconds)
			}
			cfg.Timeout = time.Duration(seconds) * time.Second

		case key == "jobRetryDelay":
			millis, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("processorConfig.jobRetryDelay: not an integer: %q", value)
			}
			cfg.JobRetryDelay = time.Duration(millis) * time.Millisecond

		case key == "priority":
			p := model.Priority(value)
			if !model.ValidPriority(p) {
				return Config{}, fmt.Errorf("processorConfig.priority: unrecognized value %q", value)
			}
			cfg.Priority = p
			havePriority = true

		case key == "groupBy":
			t, err := parseTagRef(value)
			if err != nil {
				return Config{}, fmt.Errorf("processorConfig.groupBy: %w", err)
			}
			cfg.GroupBy = t

		case strings.HasPrefix(key, "pipeline-"):
			name := strings.TrimPrefix(key, "pipeline-")
			if name == "" {
				return Config{}, fmt.Errorf("processorConfig: %q has an empty pipeline name", key)
			}
			cfg.Pipelines[name] = value

		default:
			return Config{}, fmt.Errorf("processorConfig: unrecognized key %q", key)
		}
	}

	if !havePriority {
		return Config{}, fmt.Errorf("processorConfig: priority is required")
	}

	if len(cfg.Pipelines) == 0 {
		return Config{}, fmt.Errorf("processorConfig: at least one pipeline-<name> key is required")
	}

	return cfg, nil
}

// parseTagRef parses "gggg,eeee" hex group/element pairs.
func parseTagRef(ref string) (tag.Tag, error) {
	parts := strings.SplitN(ref, ",", 2)
	if len(parts) != 2 {
		return tag.Tag{}, fmt.Errorf("expected \"gggg,eeee\", got %q", ref)
	}
	group, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("invalid group in %q: %w", ref, err)
	}
	element, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("invalid element in %q: %w", ref, err)
	}
	return tag.New(uint16(group), uint16(element)), nil
}
