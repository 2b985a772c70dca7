// Package model defines the domain types shared across the reception,
// grouping, and job-submission pipeline.
package model

import "time"

// CalledAE is a registry entry for one locally-hosted Application Entity.
type CalledAE struct {
	Name                  string `validate:"required"`
	AETitle               string `validate:"required,max=16"`
	IgnoredSOPClasses     map[string]struct{}
	OverwriteSameInstance bool
	ProcessorConfig       map[string]string
}

// NewCalledAE builds a CalledAE from a flat slice of ignored SOP Class
// UIDs, the shape a config file naturally carries.
func NewCalledAE(name, aeTitle string, ignoredSOPClasses []string, overwriteSameInstance bool, processorConfig map[string]string) CalledAE {
	ignored := make(map[string]struct{}, len(ignoredSOPClasses))
	for _, uid := range ignoredSOPClasses {
		ignored[uid] = struct{}{}
	}
	return CalledAE{
		Name:                  name,
		AETitle:               aeTitle,
		IgnoredSOPClasses:     ignored,
		OverwriteSameInstance: overwriteSameInstance,
		ProcessorConfig:       processorConfig,
	}
}

// IgnoresSOPClass reports whether instances of the given SOP Class UID
// should be acknowledged but never persisted for this AE.
func (c *CalledAE) IgnoresSOPClass(sopClassUID string) bool {
	if c == nil || c.IgnoredSOPClasses == nil {
		return false
	}
	_, ignored := c.IgnoredSOPClasses[sopClassUID]
	return ignored
}

// AllowedSource is a peer permitted to open associations when
// rejectUnknownSources is enabled.
type AllowedSource struct {
	AETitle  string `yaml:"aeTitle" validate:"required,max=16"`
	HostOrIP string `yaml:"hostOrIp" validate:"required"`
}

// Destination is a DICOM or DICOMweb export target. The core only owns
// this type; export itself is out of scope.
type Destination struct {
	Name    string `yaml:"name" validate:"required"`
	AETitle string `yaml:"aeTitle" validate:"required,max=16"`
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"required,gt=0"`
}

// InstanceRef identifies one instance persisted to disk by the
// reception store. It flows through the bus, the processor, the
// submitter, and finally the reclaimer.
type InstanceRef struct {
	PatientID        string
	StudyInstanceUID string
	SeriesInstanceUID string
	SOPInstanceUID   string
	SOPClassUID      string

	CalledAETitle  string
	CallingAETitle string
	AssociationID  uint64
	ReceivedAt     time.Time

	AbsolutePath string
}

// Priority is the job priority propagated to job creation. All four
// values are first-class; processor config must name one explicitly.
type Priority string

const (
	PriorityLower     Priority = "lower"
	PriorityNormal    Priority = "normal"
	PriorityHigher    Priority = "higher"
	PriorityImmediate Priority = "immediate"
)

// ValidPriority reports whether p is one of the four recognized values.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLower, PriorityNormal, PriorityHigher, PriorityImmediate:
		return true
	}
	return false
}

// Batch is an ordered, deduplicated set of InstanceRef sharing one
// value of the configured grouping tag.
type Batch struct {
	Key           string
	Items         []InstanceRef
	LastArrivalAt time.Time
	Retries       int

	seen map[string]struct{} // sopInstanceUID -> present, for dedup
}

// NewBatch creates an empty batch for the given grouping key.
func NewBatch(key string) *Batch {
	return &Batch{
		Key:  key,
		seen: make(map[string]struct{}),
	}
}

// Append adds ref to the batch unless an instance with the same
// SOPInstanceUID is already present, and bumps LastArrivalAt.
func (b *Batch) Append(ref InstanceRef, now time.Time) {
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	if _, dup := b.seen[ref.SOPInstanceUID]; !dup {
		b.seen[ref.SOPInstanceUID] = struct{}{}
		b.Items = append(b.Items, ref)
	}
	b.LastArrivalAt = now
}

// Empty reports whether the batch carries no instances.
func (b *Batch) Empty() bool {
	return len(b.Items) == 0
}

// JobReceipt is returned by the external platform after job creation.
// Opaque to the core beyond the two identifiers it carries.
type JobReceipt struct {
	JobID     string
	PayloadID string
}

// MaxRetry bounds how many times a single batch-pipeline submission is
// attempted before the batch is abandoned and reclaimed.
const MaxRetry = 3
