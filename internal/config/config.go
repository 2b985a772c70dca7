// Package config holds the adapter's CLI-facing global configuration
// and the peer-registry file format, validated with
// go-playground/validator.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/codeninja55/radx-adapter/internal/model"
)

// GlobalConfig holds the flags shared by every subcommand, mirroring
// the teacher CLI's GlobalConfig/setupLogger split: logging knobs live
// here, command-specific flags live on each subcommand.
type GlobalConfig struct {
	LogLevel string `name:"log-level" default:"info" enum:"trace,debug,info,warn,error,fatal" help:"Minimum log level."`
	Pretty   bool   `name:"pretty" default:"true" negatable:"" help:"Human-readable log output instead of JSON."`
	Debug    bool   `name:"debug" help:"Report caller file:line on every log entry."`
}

// ServeConfig is the "serve" subcommand's configuration: everything
// §6's "Configuration" paragraph lists as core-recognized values.
type ServeConfig struct {
	ListenAddr            string        `name:"listen" default:":11112" help:"SCP listen address."`
	StorageRoot           string        `name:"storage-root" required:"" type:"existingdir" help:"Managed storage root."`
	WatermarkPercent      float64       `name:"watermark-percent" default:"85" help:"Storage gate: used-space ceiling percentage."`
	ReservedBytes         uint64        `name:"reserved-bytes" default:"5368709120" help:"Storage gate: minimum free bytes required."`
	MaxAssociations       int           `name:"max-associations" default:"25" help:"Maximum concurrent associations (hard cap 1000)."`
	MaxPDULength          uint32        `name:"max-pdu" default:"16384" help:"Maximum PDU length in bytes."`
	RejectUnknownSources  bool          `name:"reject-unknown-sources" help:"Reject associations from AE titles not in the allowed-sources list."`
	RegistryFile          string        `name:"registry-file" required:"" type:"existingfile" help:"Peer registry file (called AEs, allowed sources, destinations)."`
	ImplementationClassUID string       `name:"implementation-class-uid" default:"1.2.840.12345.1.1" help:"Implementation Class UID advertised during association."`
	ImplementationVersion string        `name:"implementation-version" default:"RADX-ADAPTER_1.0" help:"Implementation version name advertised during association."`
	SubmitWorkers         int           `name:"submit-workers" default:"4" help:"Job submitter worker-pool size."`
	GraceShutdown         time.Duration `name:"grace-shutdown" default:"30s" help:"Maximum time components are given to drain on shutdown."`
}

// calledAEFile is the on-disk shape of one CalledAE entry: a flat list
// of ignored SOP Class UIDs instead of model.CalledAE's runtime map.
type calledAEFile struct {
	Name                  string            `yaml:"name" validate:"required"`
	AETitle               string            `yaml:"aeTitle" validate:"required,max=16"`
	IgnoredSOPClasses     []string          `yaml:"ignoredSopClasses"`
	OverwriteSameInstance bool              `yaml:"overwriteSameInstance"`
	ProcessorConfig       map[string]string `yaml:"processorConfig"`
}

// RegistryFile is the on-disk shape loaded into a registry.Snapshot.
type RegistryFile struct {
	CalledAEs      []calledAEFile        `yaml:"calledAEs" validate:"dive"`
	AllowedSources []model.AllowedSource `yaml:"allowedSources" validate:"dive"`
	Destinations   []model.Destination   `yaml:"destinations" validate:"dive"`
}

var validate = validator.New()

// LoadRegistryFile reads, validates, and converts a registry file at
// path into its runtime model.CalledAE form.
func LoadRegistryFile(path string) ([]model.CalledAE, []model.AllowedSource, []model.Destination, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read registry file %s: %w", path, err)
	}

	var rf RegistryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, nil, nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	calledAEs := make([]model.CalledAE, 0, len(rf.CalledAEs))
	for _, ae := range rf.CalledAEs {
		if err := validate.Struct(ae); err != nil {
			return nil, nil, nil, fmt.Errorf("registry file %s: called AE %q: %w", path, ae.Name, err)
		}
		calledAEs = append(calledAEs, model.NewCalledAE(ae.Name, ae.AETitle, ae.IgnoredSOPClasses, ae.OverwriteSameInstance, ae.ProcessorConfig))
	}
	for _, src := range rf.AllowedSources {
		if err := validate.Struct(src); err != nil {
			return nil, nil, nil, fmt.Errorf("registry file %s: allowed source %q: %w", path, src.AETitle, err)
		}
	}
	for _, dest := range rf.Destinations {
		if err := validate.Struct(dest); err != nil {
			return nil, nil, nil, fmt.Errorf("registry file %s: destination %q: %w", path, dest.Name, err)
		}
	}

	return calledAEs, rf.AllowedSources, rf.Destinations, nil
}
