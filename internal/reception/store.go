// Package reception persists incoming DICOM instances to the managed
// storage root and tracks enough state to detect cross-association
// duplicate SOPInstanceUIDs.
package reception

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/codeninja55/radx-adapter/dicom"
	"github.com/codeninja55/radx-adapter/dicom/tag"
	"github.com/codeninja55/radx-adapter/internal/model"
)

// ErrOverwriteConflict is returned when an instance with the same
// SOPInstanceUID was already persisted for this called AE, in this or
// an earlier association, and the AE's overwriteSameInstance flag is
// false.
var ErrOverwriteConflict = errors.New("reception: instance already received for this called AE")

// ErrDiskFull is returned when the storage gate denies the write before
// it is attempted.
var ErrDiskFull = errors.New("reception: storage root at or above watermark")

// ErrIOError wraps any filesystem failure from the underlying DICOM
// writer.
var ErrIOError = errors.New("reception: write failed")

var (
	tagPatientID         = tag.New(0x0010, 0x0020)
	tagStudyInstanceUID  = tag.New(0x0020, 0x000D)
	tagSeriesInstanceUID = tag.New(0x0020, 0x000E)
	tagSOPInstanceUID    = tag.New(0x0008, 0x0018)
	tagSOPClassUID       = tag.New(0x0008, 0x0016)
)

// Gate is the subset of storagegate.Gate the store needs.
type Gate interface {
	CanStore() bool
}

// Store persists instances under root, laid out as
// <root>/<calledAETitle>/<associationId>/dcm/<patientId>/<studyUid>/<seriesUid>/<sopUid>.dcm
type Store struct {
	root string
	gate Gate

	mu    sync.Mutex
	index map[string]map[string]string // calledAETitle -> sopInstanceUID -> absolutePath
}

// New creates a Store rooted at root, admission-gated by gate.
func New(root string, gate Gate) *Store {
	return &Store{
		root:  root,
		gate:  gate,
		index: make(map[string]map[string]string),
	}
}

// Persist writes ds to disk and returns the InstanceRef describing it.
// calledAE, callingAE, associationID, and receivedAt come from the
// association context; overwriteSameInstance comes from the called AE's
// registry entry.
func (s *Store) Persist(ds *dicom.DataSet, calledAE, callingAE string, associationID uint64, receivedAt time.Time, overwriteSameInstance bool) (model.InstanceRef, error) {
	if s.gate != nil && !s.gate.CanStore() {
		return model.InstanceRef{}, ErrDiskFull
	}

	patientID, err := extractStringValue(ds, tagPatientID)
	if err != nil {
		return model.InstanceRef{}, err
	}
	studyUID, err := extractStringValue(ds, tagStudyInstanceUID)
	if err != nil {
		return model.InstanceRef{}, err
	}
	seriesUID, err := extractStringValue(ds, tagSeriesInstanceUID)
	if err != nil {
		return model.InstanceRef{}, err
	}
	sopInstanceUID, err := extractStringValue(ds, tagSOPInstanceUID)
	if err != nil {
		return model.InstanceRef{}, err
	}
	sopClassUID, err := extractStringValue(ds, tagSOPClassUID)
	if err != nil {
		return model.InstanceRef{}, err
	}

	ref := model.InstanceRef{
		PatientID:         patientID,
		StudyInstanceUID:  studyUID,
		SeriesInstanceUID: seriesUID,
		SOPInstanceUID:    sopInstanceUID,
		SOPClassUID:       sopClassUID,
		CalledAETitle:     calledAE,
		CallingAETitle:    callingAE,
		AssociationID:     associationID,
		ReceivedAt:        receivedAt,
	}

	s.mu.Lock()
	aeIndex, ok := s.index[calledAE]
	if !ok {
		aeIndex = make(map[string]string)
		s.index[calledAE] = aeIndex
	}
	existingPath, seen := aeIndex[sopInstanceUID]
	if seen && !overwriteSameInstance {
		s.mu.Unlock()
		return model.InstanceRef{}, ErrOverwriteConflict
	}
	s.mu.Unlock()

	var path string
	if seen && overwriteSameInstance {
		// Reuse the originally assigned path: the on-disk layout embeds
		// the first association's ID, so a fresh path under the new
		// association would not collide with it on disk.
		path = existingPath
	} else {
		path = s.pathFor(calledAE, associationID, patientID, studyUID, seriesUID, sopInstanceUID)
	}
	ref.AbsolutePath = path

	err = dicom.WriteFileWithOptions(path, ds, dicom.WriteOptions{
		Overwrite:  overwriteSameInstance,
		CreateDirs: true,
		Atomic:     true,
	})
	if err != nil {
		return model.InstanceRef{}, fmt.Errorf("%w: %v", ErrIOError, err)
	}

	s.mu.Lock()
	aeIndex[sopInstanceUID] = path
	s.mu.Unlock()

	return ref, nil
}

func (s *Store) pathFor(calledAE string, associationID uint64, patientID, studyUID, seriesUID, sopInstanceUID string) string {
	return filepath.Join(
		s.root,
		calledAE,
		fmt.Sprintf("%d", associationID),
		"dcm",
		patientID,
		studyUID,
		seriesUID,
		sopInstanceUID+".dcm",
	)
}

// extractStringValue mirrors dicom.DataSetCollection's own helper: get
// the element, stringify its value, fail if the tag is absent.
func extractStringValue(ds *dicom.DataSet, t tag.Tag) (string, error) {
	elem, err := ds.Get(t)
	if err != nil {
		return "", fmt.Errorf("required element %s not found: %w", t, err)
	}
	return elem.Value().String(), nil
}
