package tag

// Named tags used across this module. This is a curated subset of the
// DICOM standard data dictionary (Part 6) covering the attributes this
// adapter's codec, anonymization helpers, and SCP/SCU actually touch —
// not the full several-thousand-entry standard dictionary.
var (
	// File Meta Information (group 0002)
	FileMetaInformationGroupLength = New(0x0002, 0x0000)
	FileMetaInformationVersion     = New(0x0002, 0x0001)
	MediaStorageSOPClassUID        = New(0x0002, 0x0002)
	MediaStorageSOPInstanceUID     = New(0x0002, 0x0003)
	TransferSyntaxUID              = New(0x0002, 0x0010)
	ImplementationClassUID         = New(0x0002, 0x0012)
	ImplementationVersionName      = New(0x0002, 0x0013)

	// SOP Common / General Study / General Series / General Equipment
	InstanceCreationDate                = New(0x0008, 0x0012)
	InstanceCreationTime                = New(0x0008, 0x0013)
	InstanceCreatorUID                  = New(0x0008, 0x0014)
	SOPClassUID                         = New(0x0008, 0x0016)
	SOPInstanceUID                      = New(0x0008, 0x0018)
	StudyDate                           = New(0x0008, 0x0020)
	SeriesDate                          = New(0x0008, 0x0021)
	AcquisitionDate                     = New(0x0008, 0x0022)
	ContentDate                         = New(0x0008, 0x0023)
	AcquisitionDateTime                 = New(0x0008, 0x002A)
	StudyTime                           = New(0x0008, 0x0030)
	SeriesTime                          = New(0x0008, 0x0031)
	AcquisitionTime                     = New(0x0008, 0x0032)
	ContentTime                         = New(0x0008, 0x0033)
	AccessionNumber                     = New(0x0008, 0x0050)
	IssuerOfAccessionNumberSequence     = New(0x0008, 0x0051)
	Modality                            = New(0x0008, 0x0060)
	Manufacturer                        = New(0x0008, 0x0070)
	InstitutionName                     = New(0x0008, 0x0080)
	InstitutionAddress                  = New(0x0008, 0x0081)
	ReferringPhysicianName              = New(0x0008, 0x0090)
	ReferringPhysicianAddress           = New(0x0008, 0x0092)
	ReferringPhysicianTelephoneNumbers  = New(0x0008, 0x0094)
	TimezoneOffsetFromUTC               = New(0x0008, 0x0201)
	ConsultingPhysicianName             = New(0x0008, 0x009C)
	StationName                         = New(0x0008, 0x1010)
	StudyDescription                    = New(0x0008, 0x1030)
	SeriesDescription                   = New(0x0008, 0x103E)
	InstitutionalDepartmentName         = New(0x0008, 0x1040)
	PhysiciansOfRecord                  = New(0x0008, 0x1048)
	PerformingPhysicianName             = New(0x0008, 0x1050)
	NameOfPhysiciansReadingStudy        = New(0x0008, 0x1060)
	OperatorsName                       = New(0x0008, 0x1070)
	AdmittingDiagnosesDescription       = New(0x0008, 0x1080)
	ReferencedStudySequence             = New(0x0008, 0x1110)
	DerivationDescription               = New(0x0008, 0x2111)

	// Patient module (group 0010)
	PatientName                   = New(0x0010, 0x0010)
	PatientID                     = New(0x0010, 0x0020)
	PatientBirthDate              = New(0x0010, 0x0030)
	PatientBirthTime              = New(0x0010, 0x0032)
	PatientSex                    = New(0x0010, 0x0040)
	PatientMotherBirthName        = New(0x0010, 0x1060)
	MilitaryRank                  = New(0x0010, 0x1080)
	BranchOfService               = New(0x0010, 0x1081)
	OtherPatientIDs               = New(0x0010, 0x1000)
	OtherPatientNames             = New(0x0010, 0x1001)
	PatientBirthName              = New(0x0010, 0x1005)
	PatientAge                    = New(0x0010, 0x1010)
	PatientSize                   = New(0x0010, 0x1020)
	PatientWeight                 = New(0x0010, 0x1030)
	MedicalRecordLocator          = New(0x0010, 0x1090)
	EthnicGroup                   = New(0x0010, 0x2160)
	Occupation                    = New(0x0010, 0x2180)
	CountryOfResidence            = New(0x0010, 0x2150)
	RegionOfResidence             = New(0x0010, 0x2152)
	AdditionalPatientHistory      = New(0x0010, 0x21B0)
	PatientComments               = New(0x0010, 0x4000)
	PatientSpeciesDescription     = New(0x0010, 0x2201)
	PatientBreedDescription       = New(0x0010, 0x2292)
	PatientSexNeutered            = New(0x0010, 0x2203)
	ResponsiblePerson             = New(0x0010, 0x2297)
	ResponsibleOrganization       = New(0x0010, 0x2299)
	PatientIdentityRemoved        = New(0x0012, 0x0062)

	// Visit module
	CurrentPatientLocation    = New(0x0038, 0x0300)
	PatientInstitutionResidence = New(0x0038, 0x0400)

	// General Study / Series
	StudyInstanceUID  = New(0x0020, 0x000D)
	SeriesInstanceUID = New(0x0020, 0x000E)
	StudyID           = New(0x0020, 0x0010)
	SeriesNumber      = New(0x0020, 0x0011)
	InstanceNumber    = New(0x0020, 0x0013)

	// Image Pixel module
	SamplesPerPixel          = New(0x0028, 0x0002)
	PhotometricInterpretation = New(0x0028, 0x0004)
	PlanarConfiguration     = New(0x0028, 0x0006)
	NumberOfFrames          = New(0x0028, 0x0008)
	Rows                    = New(0x0028, 0x0010)
	Columns                 = New(0x0028, 0x0011)
	BitsAllocated           = New(0x0028, 0x0100)
	BitsStored              = New(0x0028, 0x0101)
	HighBit                 = New(0x0028, 0x0102)
	PixelRepresentation     = New(0x0028, 0x0103)
	PixelData               = New(0x7FE0, 0x0010)

	// Acquisition / device
	ProtocolName       = New(0x0018, 0x1030)
	DeviceSerialNumber = New(0x0018, 0x1000)
	ImageComments      = New(0x0020, 0x4000)
	FrameComments      = New(0x0020, 0x9158)
	TextComments       = New(0x4000, 0x4000)

	// General Purpose Scheduled Procedure Step / Request
	RequestAttributesSequence         = New(0x0040, 0x0275)
	RequestedProcedureDescription     = New(0x0032, 0x1060)
	RequestingPhysician               = New(0x0032, 0x1032)
	RequestingService                 = New(0x0032, 0x1033)
	PerformedProcedureStepStartDate   = New(0x0040, 0x0244)
	PerformedProcedureStepStartTime   = New(0x0040, 0x0245)
	PerformedProcedureStepEndDate     = New(0x0040, 0x0250)
	PerformedProcedureStepEndTime     = New(0x0040, 0x0251)
	PerformedProcedureStepDescription = New(0x0040, 0x0254)

	// Person Identification macro (used for SR content and physician
	// identification sub-attributes)
	PersonName            = New(0x0040, 0xA123)
	PersonAddress          = New(0x0040, 0x1102)
	PersonTelephoneNumbers = New(0x0040, 0x1103)
	TextString             = New(0x0040, 0xA160)

	// Provenance / auditing
	OriginalAttributesSequence = New(0x0400, 0x0561)
	ModifiedAttributesSequence = New(0x0400, 0x0550)
	DigitalSignaturesSequence  = New(0xFFFA, 0xFFFA)
)
