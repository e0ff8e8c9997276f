package models

// ApplicantStatus is the dossier state driven by the admission workflow.
// Values are stored verbatim, so they must stay stable across releases.
type ApplicantStatus string

const (
	StatusPending  ApplicantStatus = "pending"
	StatusAccepted ApplicantStatus = "accepted"
	StatusRejected ApplicantStatus = "rejected"
)

// Valid reports whether s is one of the three workflow states.
func (s ApplicantStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Applicant is a submitted dossier plus the account generated for it.
// ID and Email are immutable after submission. Status is only mutated
// through the workflow package. Averages are kept as the raw submitted
// strings; scoring parses them and treats anything non-numeric as 0.
type Applicant struct {
	ID                   string          `json:"id"`
	Email                string          `json:"email"`
	Password             string          `json:"-"`
	Status               ApplicantStatus `json:"status"`
	TargetPositionNumber string          `json:"targetPositionNumber"`
	Personal             PersonalInfo    `json:"personalInfo"`
	CivilStatus          CivilStatus     `json:"civilStatus"`
	Education            EducationInfo   `json:"educationInfo"`
	CreatedAt            string          `json:"createdAt"`
	UpdatedAt            string          `json:"updatedAt"`
}

type PersonalInfo struct {
	FullName           string `json:"fullName"`
	Gender             string `json:"gender"`
	BirthDate          string `json:"birthDate"`
	BirthPlace         string `json:"birthPlace"`
	Address            string `json:"address"`
	Governorate        string `json:"governorate"`
	PostalCode         string `json:"postalCode"`
	CIN                string `json:"cin"`
	CINDate            string `json:"cinDate"`
	SocialSecurityType string `json:"socialSecurityType"`
	CNSSNumber         string `json:"cnssNumber,omitempty"`
	Mobile             string `json:"mobile"`
}

type CivilStatus struct {
	MaritalStatus    string `json:"maritalStatus"`
	MilitaryStatus   string `json:"militaryStatus,omitempty"`
	SpouseName       string `json:"spouseName,omitempty"`
	SpouseProfession string `json:"spouseProfession,omitempty"`
	SpouseWorkplace  string `json:"spouseWorkplace,omitempty"`
	ChildrenCount    string `json:"childrenCount,omitempty"`
}

// EducationInfo carries the degree values by catalog code; stale codes
// (removed from the catalog after submission) are rendered verbatim.
type EducationInfo struct {
	Degree              string `json:"degree"`
	Specialty           string `json:"specialty"`
	GraduationYear      string `json:"graduationYear"`
	EquivalenceDecision string `json:"equivalenceDecision,omitempty"`
	EquivalenceDate     string `json:"equivalenceDate,omitempty"`
	BacAverage          string `json:"bacAverage"`
	BacSpecialty        string `json:"bacSpecialty"`
	BacYear             string `json:"bacYear"`
	GradAverage         string `json:"gradAverage"`
}

// ProfilePatch is the subset of fields an applicant may edit before the
// deadline. Identity, email and status are deliberately absent.
// Sections left nil keep their stored value.
type ProfilePatch struct {
	Personal    *PersonalInfo  `json:"personal,omitempty"`
	CivilStatus *CivilStatus   `json:"civilStatus,omitempty"`
	Education   *EducationInfo `json:"education,omitempty"`
}
