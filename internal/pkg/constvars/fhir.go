package constvars

const (
	ResourcePatient      = "Patient"
	ResourcePractitioner = "Practitioner"
	ResourceEncounter    = "Encounter"
)

// Tags distinguishing consultation encounters from their containing
// visit records inside the shared Encounter store.
const (
	FhirTagEncounter = "encounter"
	FhirTagVisit     = "visit"
)

const (
	FhirSearchParamSubject     = "subject"
	FhirSearchParamLastUpdated = "_lastUpdated"
	FhirSearchParamTag         = "_tag"
)

// FhirReferencePrefixPractitioner is the canonical relative-reference
// prefix for clinician participants ("Practitioner/<id>"). The backend
// has historically also emitted bare ids, longer paths, and logical
// identifier-only references; see the session reference matcher.
const FhirReferencePrefixPractitioner = ResourcePractitioner + "/"
