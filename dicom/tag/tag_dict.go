package tag

import "github.com/codeninja55/radx-adapter/dicom/vr"

// entry is the literal form used to build TagDict; kept separate from
// Info so the table below reads as one line per tag.
type entry struct {
	t       Tag
	vrs     []vr.VR
	name    string
	keyword string
	vm      string
	retired bool
}

var tagEntries = []entry{
	{FileMetaInformationGroupLength, []vr.VR{vr.UnsignedLong}, "File Meta Information Group Length", "FileMetaInformationGroupLength", "1", false},
	{FileMetaInformationVersion, []vr.VR{vr.OtherByte}, "File Meta Information Version", "FileMetaInformationVersion", "1", false},
	{MediaStorageSOPClassUID, []vr.VR{vr.UniqueIdentifier}, "Media Storage SOP Class UID", "MediaStorageSOPClassUID", "1", false},
	{MediaStorageSOPInstanceUID, []vr.VR{vr.UniqueIdentifier}, "Media Storage SOP Instance UID", "MediaStorageSOPInstanceUID", "1", false},
	{TransferSyntaxUID, []vr.VR{vr.UniqueIdentifier}, "Transfer Syntax UID", "TransferSyntaxUID", "1", false},
	{ImplementationClassUID, []vr.VR{vr.UniqueIdentifier}, "Implementation Class UID", "ImplementationClassUID", "1", false},
	{ImplementationVersionName, []vr.VR{vr.ShortString}, "Implementation Version Name", "ImplementationVersionName", "1", false},

	{InstanceCreationDate, []vr.VR{vr.Date}, "Instance Creation Date", "InstanceCreationDate", "1", false},
	{InstanceCreationTime, []vr.VR{vr.Time}, "Instance Creation Time", "InstanceCreationTime", "1", false},
	{InstanceCreatorUID, []vr.VR{vr.UniqueIdentifier}, "Instance Creator UID", "InstanceCreatorUID", "1", false},
	{SOPClassUID, []vr.VR{vr.UniqueIdentifier}, "SOP Class UID", "SOPClassUID", "1", false},
	{SOPInstanceUID, []vr.VR{vr.UniqueIdentifier}, "SOP Instance UID", "SOPInstanceUID", "1", false},
	{StudyDate, []vr.VR{vr.Date}, "Study Date", "StudyDate", "1", false},
	{SeriesDate, []vr.VR{vr.Date}, "Series Date", "SeriesDate", "1", false},
	{AcquisitionDate, []vr.VR{vr.Date}, "Acquisition Date", "AcquisitionDate", "1", false},
	{ContentDate, []vr.VR{vr.Date}, "Content Date", "ContentDate", "1", false},
	{AcquisitionDateTime, []vr.VR{vr.DateTime}, "Acquisition DateTime", "AcquisitionDateTime", "1", false},
	{StudyTime, []vr.VR{vr.Time}, "Study Time", "StudyTime", "1", false},
	{SeriesTime, []vr.VR{vr.Time}, "Series Time", "SeriesTime", "1", false},
	{AcquisitionTime, []vr.VR{vr.Time}, "Acquisition Time", "AcquisitionTime", "1", false},
	{ContentTime, []vr.VR{vr.Time}, "Content Time", "ContentTime", "1", false},
	{AccessionNumber, []vr.VR{vr.ShortString}, "Accession Number", "AccessionNumber", "1", false},
	{IssuerOfAccessionNumberSequence, []vr.VR{vr.SequenceOfItems}, "Issuer of Accession Number Sequence", "IssuerOfAccessionNumberSequence", "1", false},
	{Modality, []vr.VR{vr.CodeString}, "Modality", "Modality", "1", false},
	{Manufacturer, []vr.VR{vr.LongString}, "Manufacturer", "Manufacturer", "1", false},
	{InstitutionName, []vr.VR{vr.LongString}, "Institution Name", "InstitutionName", "1", false},
	{InstitutionAddress, []vr.VR{vr.ShortText}, "Institution Address", "InstitutionAddress", "1", false},
	{ReferringPhysicianName, []vr.VR{vr.PersonName}, "Referring Physician's Name", "ReferringPhysicianName", "1", false},
	{ReferringPhysicianAddress, []vr.VR{vr.ShortText}, "Referring Physician's Address", "ReferringPhysicianAddress", "1", false},
	{ReferringPhysicianTelephoneNumbers, []vr.VR{vr.ShortString}, "Referring Physician's Telephone Numbers", "ReferringPhysicianTelephoneNumbers", "1-3", false},
	{TimezoneOffsetFromUTC, []vr.VR{vr.ShortString}, "Timezone Offset From UTC", "TimezoneOffsetFromUTC", "1", false},
	{ConsultingPhysicianName, []vr.VR{vr.PersonName}, "Consulting Physician's Name", "ConsultingPhysicianName", "1-n", false},
	{StationName, []vr.VR{vr.ShortString}, "Station Name", "StationName", "1", false},
	{StudyDescription, []vr.VR{vr.LongString}, "Study Description", "StudyDescription", "1", false},
	{SeriesDescription, []vr.VR{vr.LongString}, "Series Description", "SeriesDescription", "1", false},
	{InstitutionalDepartmentName, []vr.VR{vr.LongString}, "Institutional Department Name", "InstitutionalDepartmentName", "1", false},
	{PhysiciansOfRecord, []vr.VR{vr.PersonName}, "Physician(s) of Record", "PhysiciansOfRecord", "1-n", false},
	{PerformingPhysicianName, []vr.VR{vr.PersonName}, "Performing Physician's Name", "PerformingPhysicianName", "1-n", false},
	{NameOfPhysiciansReadingStudy, []vr.VR{vr.PersonName}, "Name of Physician(s) Reading Study", "NameOfPhysiciansReadingStudy", "1-n", false},
	{OperatorsName, []vr.VR{vr.PersonName}, "Operators' Name", "OperatorsName", "1-n", false},
	{AdmittingDiagnosesDescription, []vr.VR{vr.LongString}, "Admitting Diagnoses Description", "AdmittingDiagnosesDescription", "1-n", false},
	{ReferencedStudySequence, []vr.VR{vr.SequenceOfItems}, "Referenced Study Sequence", "ReferencedStudySequence", "1", false},
	{DerivationDescription, []vr.VR{vr.ShortText}, "Derivation Description", "DerivationDescription", "1", false},

	{PatientName, []vr.VR{vr.PersonName}, "Patient's Name", "PatientName", "1", false},
	{PatientID, []vr.VR{vr.LongString}, "Patient ID", "PatientID", "1", false},
	{PatientBirthDate, []vr.VR{vr.Date}, "Patient's Birth Date", "PatientBirthDate", "1", false},
	{PatientBirthTime, []vr.VR{vr.Time}, "Patient's Birth Time", "PatientBirthTime", "1", false},
	{PatientSex, []vr.VR{vr.CodeString}, "Patient's Sex", "PatientSex", "1", false},
	{PatientMotherBirthName, []vr.VR{vr.PersonName}, "Patient's Mother's Birth Name", "PatientMotherBirthName", "1", false},
	{MilitaryRank, []vr.VR{vr.LongString}, "Military Rank", "MilitaryRank", "1", false},
	{BranchOfService, []vr.VR{vr.LongString}, "Branch of Service", "BranchOfService", "1", false},
	{OtherPatientIDs, []vr.VR{vr.LongString}, "Other Patient IDs", "OtherPatientIDs", "1-n", true},
	{OtherPatientNames, []vr.VR{vr.PersonName}, "Other Patient Names", "OtherPatientNames", "1-n", false},
	{PatientBirthName, []vr.VR{vr.PersonName}, "Patient's Birth Name", "PatientBirthName", "1", true},
	{PatientAge, []vr.VR{vr.AgeString}, "Patient's Age", "PatientAge", "1", false},
	{PatientSize, []vr.VR{vr.DecimalString}, "Patient's Size", "PatientSize", "1", false},
	{PatientWeight, []vr.VR{vr.DecimalString}, "Patient's Weight", "PatientWeight", "1", false},
	{MedicalRecordLocator, []vr.VR{vr.LongString}, "Medical Record Locator", "MedicalRecordLocator", "1", false},
	{EthnicGroup, []vr.VR{vr.ShortString}, "Ethnic Group", "EthnicGroup", "1", false},
	{Occupation, []vr.VR{vr.ShortString}, "Occupation", "Occupation", "1", false},
	{CountryOfResidence, []vr.VR{vr.LongString}, "Country of Residence", "CountryOfResidence", "1", false},
	{RegionOfResidence, []vr.VR{vr.LongString}, "Region of Residence", "RegionOfResidence", "1", false},
	{AdditionalPatientHistory, []vr.VR{vr.LongText}, "Additional Patient History", "AdditionalPatientHistory", "1", false},
	{PatientComments, []vr.VR{vr.LongText}, "Patient Comments", "PatientComments", "1", false},
	{PatientSpeciesDescription, []vr.VR{vr.LongString}, "Patient Species Description", "PatientSpeciesDescription", "1", false},
	{PatientBreedDescription, []vr.VR{vr.LongString}, "Patient Breed Description", "PatientBreedDescription", "1", false},
	{PatientSexNeutered, []vr.VR{vr.CodeString}, "Patient Sex Neutered", "PatientSexNeutered", "1", false},
	{ResponsiblePerson, []vr.VR{vr.PersonName}, "Responsible Person", "ResponsiblePerson", "1", false},
	{ResponsibleOrganization, []vr.VR{vr.LongString}, "Responsible Organization", "ResponsibleOrganization", "1", false},
	{PatientIdentityRemoved, []vr.VR{vr.CodeString}, "Patient Identity Removed", "PatientIdentityRemoved", "1", false},

	{CurrentPatientLocation, []vr.VR{vr.LongString}, "Current Patient Location", "CurrentPatientLocation", "1", false},
	{PatientInstitutionResidence, []vr.VR{vr.LongString}, "Patient's Institution Residence", "PatientInstitutionResidence", "1", false},

	{StudyInstanceUID, []vr.VR{vr.UniqueIdentifier}, "Study Instance UID", "StudyInstanceUID", "1", false},
	{SeriesInstanceUID, []vr.VR{vr.UniqueIdentifier}, "Series Instance UID", "SeriesInstanceUID", "1", false},
	{StudyID, []vr.VR{vr.ShortString}, "Study ID", "StudyID", "1", false},
	{SeriesNumber, []vr.VR{vr.IntegerString}, "Series Number", "SeriesNumber", "1", false},
	{InstanceNumber, []vr.VR{vr.IntegerString}, "Instance Number", "InstanceNumber", "1", false},

	{SamplesPerPixel, []vr.VR{vr.UnsignedShort}, "Samples per Pixel", "SamplesPerPixel", "1", false},
	{PhotometricInterpretation, []vr.VR{vr.CodeString}, "Photometric Interpretation", "PhotometricInterpretation", "1", false},
	{PlanarConfiguration, []vr.VR{vr.UnsignedShort}, "Planar Configuration", "PlanarConfiguration", "1", false},
	{NumberOfFrames, []vr.VR{vr.IntegerString}, "Number of Frames", "NumberOfFrames", "1", false},
	{Rows, []vr.VR{vr.UnsignedShort}, "Rows", "Rows", "1", false},
	{Columns, []vr.VR{vr.UnsignedShort}, "Columns", "Columns", "1", false},
	{BitsAllocated, []vr.VR{vr.UnsignedShort}, "Bits Allocated", "BitsAllocated", "1", false},
	{BitsStored, []vr.VR{vr.UnsignedShort}, "Bits Stored", "BitsStored", "1", false},
	{HighBit, []vr.VR{vr.UnsignedShort}, "High Bit", "HighBit", "1", false},
	{PixelRepresentation, []vr.VR{vr.UnsignedShort}, "Pixel Representation", "PixelRepresentation", "1", false},
	{PixelData, []vr.VR{vr.OtherByte, vr.OtherWord}, "Pixel Data", "PixelData", "1", false},

	{ProtocolName, []vr.VR{vr.LongString}, "Protocol Name", "ProtocolName", "1", false},
	{DeviceSerialNumber, []vr.VR{vr.LongString}, "Device Serial Number", "DeviceSerialNumber", "1", false},
	{ImageComments, []vr.VR{vr.LongText}, "Image Comments", "ImageComments", "1", false},
	{FrameComments, []vr.VR{vr.LongText}, "Frame Comments", "FrameComments", "1", false},
	{TextComments, []vr.VR{vr.LongText}, "Text Comments", "TextComments", "1", true},

	{RequestAttributesSequence, []vr.VR{vr.SequenceOfItems}, "Request Attributes Sequence", "RequestAttributesSequence", "1", false},
	{RequestedProcedureDescription, []vr.VR{vr.LongString}, "Requested Procedure Description", "RequestedProcedureDescription", "1", false},
	{RequestingPhysician, []vr.VR{vr.PersonName}, "Requesting Physician", "RequestingPhysician", "1", false},
	{RequestingService, []vr.VR{vr.LongString}, "Requesting Service", "RequestingService", "1", false},
	{PerformedProcedureStepStartDate, []vr.VR{vr.Date}, "Performed Procedure Step Start Date", "PerformedProcedureStepStartDate", "1", false},
	{PerformedProcedureStepStartTime, []vr.VR{vr.Time}, "Performed Procedure Step Start Time", "PerformedProcedureStepStartTime", "1", false},
	{PerformedProcedureStepEndDate, []vr.VR{vr.Date}, "Performed Procedure Step End Date", "PerformedProcedureStepEndDate", "1", false},
	{PerformedProcedureStepEndTime, []vr.VR{vr.Time}, "Performed Procedure Step End Time", "PerformedProcedureStepEndTime", "1", false},
	{PerformedProcedureStepDescription, []vr.VR{vr.LongString}, "Performed Procedure Step Description", "PerformedProcedureStepDescription", "1", false},

	{PersonName, []vr.VR{vr.PersonName}, "Person Name", "PersonName", "1", false},
	{PersonAddress, []vr.VR{vr.LongString}, "Person's Address", "PersonAddress", "1", false},
	{PersonTelephoneNumbers, []vr.VR{vr.LongString}, "Person's Telephone Numbers", "PersonTelephoneNumbers", "1-3", false},
	{TextString, []vr.VR{vr.UnlimitedText}, "Text Value", "TextValue", "1", false},

	{OriginalAttributesSequence, []vr.VR{vr.SequenceOfItems}, "Original Attributes Sequence", "OriginalAttributesSequence", "1", false},
	{ModifiedAttributesSequence, []vr.VR{vr.SequenceOfItems}, "Modified Attributes Sequence", "ModifiedAttributesSequence", "1", false},
	{DigitalSignaturesSequence, []vr.VR{vr.SequenceOfItems}, "Digital Signatures Sequence", "DigitalSignaturesSequence", "1", false},
}

// TagDict is this module's tag data dictionary: a curated subset of the
// DICOM standard (Part 6) covering every attribute this module's codec,
// anonymizer, and DIMSE services actually read or write. It is not the
// full several-thousand-entry standard dictionary.
var TagDict = buildTagDict()

func buildTagDict() map[Tag]Info {
	dict := make(map[Tag]Info, len(tagEntries))
	for _, e := range tagEntries {
		dict[e.t] = Info{
			Tag:     e.t,
			VRs:     e.vrs,
			Name:    e.name,
			Keyword: e.keyword,
			VM:      e.vm,
			Retired: e.retired,
		}
	}
	return dict
}
