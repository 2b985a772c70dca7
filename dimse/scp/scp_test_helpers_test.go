package scp_test

import (
	"github.com/codeninja55/radx-adapter/dicom"
	"github.com/codeninja55/radx-adapter/dicom/element"
	"github.com/codeninja55/radx-adapter/dicom/tag"
	"github.com/codeninja55/radx-adapter/dicom/value"
	"github.com/codeninja55/radx-adapter/dicom/vr"
)

// newTestInstance builds a minimal but complete dataset carrying the
// five identifiers internal/reception requires.
func newTestInstance(patientID, studyUID, seriesUID, sopInstanceUID, sopClassUID string) *dicom.DataSet {
	ds := dicom.NewDataSet()
	mustAdd(ds, tag.New(0x0010, 0x0020), vr.LongString, patientID)
	mustAdd(ds, tag.New(0x0020, 0x000D), vr.UniqueIdentifier, studyUID)
	mustAdd(ds, tag.New(0x0020, 0x000E), vr.UniqueIdentifier, seriesUID)
	mustAdd(ds, tag.New(0x0008, 0x0018), vr.UniqueIdentifier, sopInstanceUID)
	mustAdd(ds, tag.New(0x0008, 0x0016), vr.UniqueIdentifier, sopClassUID)
	return ds
}

func mustAdd(ds *dicom.DataSet, t tag.Tag, v vr.VR, s string) {
	val, err := value.NewStringValue(v, []string{s})
	if err != nil {
		panic(err)
	}
	elem, err := element.NewElement(t, v, val)
	if err != nil {
		panic(err)
	}
	if err := ds.Add(elem); err != nil {
		panic(err)
	}
}
