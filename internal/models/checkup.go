package models

// Gender enum for the optional patient descriptor
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Checkup represents one completed consultation. A checkup is created once
// by its owning doctor and never updated or deleted afterwards.
type Checkup struct {
	BaseModel
	DoctorID string `gorm:"size:36;index;not null" json:"doctor_id"`

	// Patient descriptors, all optional
	PatientName   string `gorm:"size:255" json:"patient_name,omitempty"`
	PatientAge    *int   `json:"patient_age,omitempty"`
	PatientGender Gender `gorm:"size:10" json:"patient_gender,omitempty"`

	// Vitals, free-form strings with no normalization enforced
	Temperature   string `gorm:"size:50" json:"temperature,omitempty"`
	BloodPressure string `gorm:"size:50" json:"blood_pressure,omitempty"`
	BloodSugar    string `gorm:"size:50" json:"blood_sugar,omitempty"`
	BodyWeight    string `gorm:"size:50" json:"body_weight,omitempty"`

	// Clinical fields
	Symptoms    string `gorm:"type:text;not null" json:"symptoms"`
	Diagnosis   string `gorm:"type:text;not null" json:"diagnosis"`
	Medications string `gorm:"type:text" json:"medications,omitempty"`
	LabTests    string `gorm:"type:text" json:"lab_tests,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`

	// Reference to the uploaded consultation audio, if any
	ConsultationAudioURL string `gorm:"size:512" json:"consultation_audio_url,omitempty"`
	AudioPublicID        string `gorm:"size:255" json:"audio_public_id,omitempty"`

	// Relations
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}

// HasClinicalDetail reports whether the checkup carries at least one of
// medications, lab tests, notes or an audio reference. Symptoms and
// diagnosis alone are not enough to persist a record.
func (c *Checkup) HasClinicalDetail() bool {
	return c.Medications != "" || c.LabTests != "" || c.Notes != "" ||
		c.ConsultationAudioURL != "" || c.AudioPublicID != ""
}
