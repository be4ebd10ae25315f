// Package submission sequences the "finish checkup" workflow: validate the
// form, stop the recording session, upload the clip, persist the record.
// The pipeline is at-most-once and sequential; on failure the caller keeps
// its input and retries manually.
package submission

import (
	"context"
	"fmt"
	"strings"

	"checkup-server/internal/media"
	"checkup-server/internal/models"
	"checkup-server/internal/recording"
)

// Step labels the pipeline stage a failure happened in, so the user sees
// "audio upload failed" and "save failed" as distinct errors.
type Step string

const (
	StepUpload Step = "audio-upload"
	StepSave   Step = "save"
)

// StepError wraps an upstream failure with the step it occurred in.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ValidationError reports missing required fields. No network activity has
// happened when it is returned.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Uploader is the media upload collaborator.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (*media.Asset, error)
}

// CheckupCreator persists completed checkups.
type CheckupCreator interface {
	Create(ctx context.Context, checkup *models.Checkup) error
}

// Form carries the checkup form values. Symptoms and diagnosis are
// mandatory; everything else is optional, subject to the one-of rule
// checked in Submit.
type Form struct {
	PatientName   string
	PatientAge    *int
	PatientGender models.Gender
	Temperature   string
	BloodPressure string
	BloodSugar    string
	BodyWeight    string
	Symptoms      string
	Diagnosis     string
	Medications   string
	LabTests      string
	Notes         string
}

// Orchestrator runs the submission pipeline.
type Orchestrator struct {
	uploader Uploader
	checkups CheckupCreator
}

// NewOrchestrator creates an Orchestrator over the given collaborators.
func NewOrchestrator(uploader Uploader, checkups CheckupCreator) *Orchestrator {
	return &Orchestrator{uploader: uploader, checkups: checkups}
}

// Submit runs the pipeline for one checkup. session may be nil (form-only
// submission) or an already stopped session whose clip is reused. The
// returned checkup carries the store-assigned id and timestamp.
func (o *Orchestrator) Submit(ctx context.Context, doctorID string, form Form, session *recording.Session) (*models.Checkup, error) {
	if err := validate(form, session); err != nil {
		return nil, err
	}

	clip, err := finalizeClip(session)
	if err != nil {
		// Device failures degrade to a form-only submission, but the form
		// must then stand on its own.
		if err := validate(form, nil); err != nil {
			return nil, err
		}
	}

	checkup := buildCheckup(doctorID, form)

	if clip != nil {
		asset, err := o.uploader.Upload(ctx, clip.Name, clip.MIMEType, clip.Data)
		if err != nil {
			return nil, &StepError{Step: StepUpload, Err: err}
		}
		checkup.ConsultationAudioURL = asset.URL
		checkup.AudioPublicID = asset.PublicID
	}

	if err := o.checkups.Create(ctx, checkup); err != nil {
		return nil, &StepError{Step: StepSave, Err: err}
	}

	return checkup, nil
}

// validate enforces the record invariant before any network activity:
// symptoms and diagnosis, plus at least one of medications, lab tests,
// notes or audio. An active or finalized session counts as audio.
func validate(form Form, session *recording.Session) error {
	var missing []string
	if strings.TrimSpace(form.Symptoms) == "" {
		missing = append(missing, "symptoms")
	}
	if strings.TrimSpace(form.Diagnosis) == "" {
		missing = append(missing, "diagnosis")
	}

	hasAudio := session != nil && (session.Active() || session.Clip() != nil)
	hasDetail := strings.TrimSpace(form.Medications) != "" ||
		strings.TrimSpace(form.LabTests) != "" ||
		strings.TrimSpace(form.Notes) != ""
	if !hasDetail && !hasAudio {
		missing = append(missing, "medications, lab_tests, notes or audio")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// finalizeClip stops an active session and returns its clip, or reuses a
// previously finalized one. A nil session yields no clip and no error.
func finalizeClip(session *recording.Session) (*recording.Clip, error) {
	if session == nil {
		return nil, nil
	}
	if session.Active() {
		return session.Stop()
	}
	return session.Clip(), nil
}

func buildCheckup(doctorID string, form Form) *models.Checkup {
	return &models.Checkup{
		DoctorID:      doctorID,
		PatientName:   form.PatientName,
		PatientAge:    form.PatientAge,
		PatientGender: form.PatientGender,
		Temperature:   form.Temperature,
		BloodPressure: form.BloodPressure,
		BloodSugar:    form.BloodSugar,
		BodyWeight:    form.BodyWeight,
		Symptoms:      form.Symptoms,
		Diagnosis:     form.Diagnosis,
		Medications:   form.Medications,
		LabTests:      form.LabTests,
		Notes:         form.Notes,
	}
}
