package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"checkup-server/internal/logger"
	"checkup-server/internal/middleware"
	"checkup-server/internal/models"
	"checkup-server/internal/storage"
	"checkup-server/internal/utils"
)

// CheckupHandler handles checkup record requests. Checkups are created
// once and read back by their owning doctor; there is no update or delete.
type CheckupHandler struct {
	Checkups storage.CheckupStore
	Log      *logger.Logger
}

// NewCheckupHandler creates a new CheckupHandler.
func NewCheckupHandler(checkups storage.CheckupStore, log *logger.Logger) *CheckupHandler {
	return &CheckupHandler{Checkups: checkups, Log: log}
}

// CreateCheckupRequest represents the request body for creating a checkup.
type CreateCheckupRequest struct {
	PatientName   string `json:"patient_name"`
	PatientAge    *int   `json:"patient_age" binding:"omitempty,min=0,max=120"`
	PatientGender string `json:"patient_gender" binding:"omitempty,oneof=male female other"`
	Temperature   string `json:"temperature"`
	BloodPressure string `json:"blood_pressure"`
	BloodSugar    string `json:"blood_sugar"`
	BodyWeight    string `json:"body_weight"`

	Symptoms    string `json:"symptoms" binding:"required"`
	Diagnosis   string `json:"diagnosis" binding:"required"`
	Medications string `json:"medications"`
	LabTests    string `json:"lab_tests"`
	Notes       string `json:"notes"`

	ConsultationAudioURL string `json:"consultation_audio_url"`
	AudioPublicID        string `json:"audio_public_id"`
}

// CreateCheckup persists a completed consultation for the authenticated
// doctor. Besides symptoms and diagnosis, at least one of medications,
// lab tests, notes or an audio reference must be present.
func (h *CheckupHandler) CreateCheckup(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "unauthenticated")
		return
	}

	var req CreateCheckupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	checkup := models.Checkup{
		DoctorID:             principal.ID,
		PatientName:          req.PatientName,
		PatientAge:           req.PatientAge,
		PatientGender:        models.Gender(req.PatientGender),
		Temperature:          req.Temperature,
		BloodPressure:        req.BloodPressure,
		BloodSugar:           req.BloodSugar,
		BodyWeight:           req.BodyWeight,
		Symptoms:             req.Symptoms,
		Diagnosis:            req.Diagnosis,
		Medications:          req.Medications,
		LabTests:             req.LabTests,
		Notes:                req.Notes,
		ConsultationAudioURL: req.ConsultationAudioURL,
		AudioPublicID:        req.AudioPublicID,
	}

	if !checkup.HasClinicalDetail() {
		utils.BadRequest(c, "Missing Fields in request body")
		return
	}

	if err := h.Checkups.Create(c.Request.Context(), &checkup); err != nil {
		h.Log.WithComponent("checkups").WithError(err).Error("checkup creation failed")
		utils.InternalServerError(c, "Failed to add checkup")
		return
	}

	utils.Created(c, gin.H{
		"message":    "Checkup added successfully",
		"checkup_id": checkup.ID,
	})
}

// ListCheckups returns the authenticated doctor's most recent checkups,
// newest first, capped at the store's list limit.
func (h *CheckupHandler) ListCheckups(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "unauthenticated")
		return
	}

	checkups, err := h.Checkups.ListByDoctor(c.Request.Context(), principal.ID)
	if err != nil {
		h.Log.WithComponent("checkups").WithError(err).Error("checkup list failed")
		utils.InternalServerError(c, "Failed to fetch checkups")
		return
	}
	if checkups == nil {
		checkups = []models.Checkup{}
	}

	utils.Success(c, checkups)
}

// CheckupDetail is a single checkup with the owning doctor's display name.
type CheckupDetail struct {
	models.Checkup
	DoctorName string `json:"doctor_name"`
}

// GetCheckupByID fetches a single checkup by id. Lookups are filtered on
// the caller's id, so another doctor's record comes back as not found.
func (h *CheckupHandler) GetCheckupByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "unauthenticated")
		return
	}

	id := c.Param("id")
	if id == "" {
		utils.BadRequest(c, "Checkup ID is required")
		return
	}

	checkup, err := h.Checkups.GetByID(c.Request.Context(), principal.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.NotFound(c, "Checkup not found")
		} else {
			h.Log.WithComponent("checkups").WithError(err).Error("checkup fetch failed")
			utils.InternalServerError(c, "Failed to fetch checkup")
		}
		return
	}

	utils.Success(c, CheckupDetail{
		Checkup:    *checkup,
		DoctorName: checkup.Doctor.Name,
	})
}
