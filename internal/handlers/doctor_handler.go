package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arogyalink/health-portal/internal/audit"
	"github.com/arogyalink/health-portal/internal/auth"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/httpresp"
	"github.com/arogyalink/health-portal/internal/identity"
	"github.com/arogyalink/health-portal/internal/middleware"
	"github.com/arogyalink/health-portal/internal/models"
	"github.com/arogyalink/health-portal/internal/validators"
	ucBooking "github.com/arogyalink/health-portal/internal/usecase/booking"
)

type DoctorHandler struct {
	db     *gorm.DB
	tokens *auth.TokenService
	audit  *audit.Dispatcher

	publishSlots *ucBooking.PublishSlots
	schedule     *ucBooking.ListDoctorSchedule
}

func NewDoctorHandler(
	db *gorm.DB,
	tokens *auth.TokenService,
	auditDispatcher *audit.Dispatcher,
	publishSlots *ucBooking.PublishSlots,
	schedule *ucBooking.ListDoctorSchedule,
) *DoctorHandler {
	return &DoctorHandler{
		db:           db,
		tokens:       tokens,
		audit:        auditDispatcher,
		publishSlots: publishSlots,
		schedule:     schedule,
	}
}

// --------- Requests ---------

type RegisterDoctorRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`

	Specialization string `json:"specialization" binding:"required"`
	Experience     int    `json:"experience"`
	Qualification  string `json:"qualification"`
	License        string `json:"license" binding:"required"`
	Hospital       string `json:"hospital"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`

	ConsultationFee float64 `json:"consultationFee"`
}

type PublishSlotsRequest struct {
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	SlotMinutes int    `json:"slotMinutes"`
}

var doctorUpdatableFields = map[string]bool{
	"firstName":       true,
	"lastName":        true,
	"password":        true,
	"specialization":  true,
	"experience":      true,
	"qualification":   true,
	"hospital":        true,
	"address":         true,
	"phone":           true,
	"consultationFee": true,
}

// --------- Handlers ---------

func (h *DoctorHandler) Register(c *gin.Context) {
	var req RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid registration data")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "Email domain does not appear to be valid")
		return
	}

	var count int64
	if err := h.db.Model(&models.Doctor{}).
		Where("email = ? OR license = ?", email, req.License).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "Error registering doctor")
		return
	}
	if count > 0 {
		httperr.Conflict(c, "Doctor with this email or license already exists")
		return
	}

	doctorID, ok := h.newDoctorID(email)
	if !ok {
		httperr.Internal(c, "Error registering doctor")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "Error registering doctor")
		return
	}

	doctor := models.Doctor{
		DoctorID:        doctorID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           email,
		PasswordHash:    hashed,
		Specialization:  req.Specialization,
		Experience:      req.Experience,
		Qualification:   req.Qualification,
		License:         req.License,
		Hospital:        req.Hospital,
		Address:         req.Address,
		Phone:           req.Phone,
		ConsultationFee: req.ConsultationFee,
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		if isUniqueViolation(err) {
			httperr.Conflict(c, "Doctor with this email or license already exists")
			return
		}
		httperr.Internal(c, "Error registering doctor")
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), auth.KindDoctor, doctor.ID)
	if err != nil {
		httperr.Internal(c, "Error registering doctor")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: auth.KindDoctor,
		ActorID:   &doctor.ID,
		Action:    "doctor_registered",
		Entity:    "doctor",
		EntityID:  doctor.DoctorID,
	})

	httpresp.Created(c, gin.H{
		"message": "Doctor registered successfully",
		"doctor":  doctorJSON(&doctor),
		"token":   token,
	})
}

// newDoctorID generates a public identifier, retrying on suffix collisions.
func (h *DoctorHandler) newDoctorID(email string) (string, bool) {
	for i := 0; i < 5; i++ {
		candidate := identity.NewDoctorID(email, time.Now())

		var count int64
		if err := h.db.Model(&models.Doctor{}).
			Where("doctor_id = ?", candidate).
			Count(&count).Error; err != nil {
			return "", false
		}
		if count == 0 {
			return candidate, true
		}
	}
	return "", false
}

func (h *DoctorHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid login data")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var doctor models.Doctor
	if err := h.db.Where("email = ?", email).First(&doctor).Error; err != nil {
		httperr.Unauthorized(c, "Invalid email or password")
		return
	}

	if !auth.CheckPassword(doctor.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), auth.KindDoctor, doctor.ID)
	if err != nil {
		httperr.Internal(c, "Error logging in")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: auth.KindDoctor,
		ActorID:   &doctor.ID,
		Action:    "doctor_login",
		Entity:    "doctor",
		EntityID:  doctor.DoctorID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"doctor":  doctorJSON(&doctor),
		"token":   token,
	})
}

func (h *DoctorHandler) Logout(c *gin.Context) {
	claims := c.MustGet(middleware.ContextClaims).(*auth.Claims)

	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		httperr.Internal(c, "Error logging out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *DoctorHandler) GetProfile(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, doctorJSON(doctor))
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		httperr.BadRequest(c, "Invalid updates")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		httperr.BadRequest(c, "Invalid updates")
		return
	}

	// Email and license are immutable and rejected regardless of what else
	// the payload carries.
	_, hasEmail := raw["email"]
	_, hasLicense := raw["license"]
	if hasEmail || hasLicense {
		httperr.BadRequest(c, "Email and license cannot be updated")
		return
	}
	for field := range raw {
		if !doctorUpdatableFields[field] {
			httperr.BadRequest(c, "Invalid updates")
			return
		}
	}

	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	var req struct {
		FirstName       *string  `json:"firstName"`
		LastName        *string  `json:"lastName"`
		Password        *string  `json:"password"`
		Specialization  *string  `json:"specialization"`
		Experience      *int     `json:"experience"`
		Qualification   *string  `json:"qualification"`
		Hospital        *string  `json:"hospital"`
		Address         *string  `json:"address"`
		Phone           *string  `json:"phone"`
		ConsultationFee *float64 `json:"consultationFee"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httperr.BadRequest(c, "Invalid updates")
		return
	}

	if req.FirstName != nil {
		doctor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		doctor.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, "Error updating profile")
			return
		}
		doctor.PasswordHash = hashed
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Qualification != nil {
		doctor.Qualification = *req.Qualification
	}
	if req.Hospital != nil {
		doctor.Hospital = *req.Hospital
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}

	if err := h.db.Save(doctor).Error; err != nil {
		httperr.Internal(c, "Error updating profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"doctor":  doctorJSON(doctor),
	})
}

// --------- Slots & schedule ---------

func (h *DoctorHandler) PublishSlots(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	var req PublishSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid slot data")
		return
	}

	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = 30
	}

	slots, created, err := h.publishSlots.Execute(c.Request.Context(), ucBooking.PublishSlotsInput{
		DoctorID:    doctor.DoctorID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SlotMinutes: slotMinutes,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "Invalid date")
		case httperr.IsBusiness(err, "invalid_time"),
			httperr.IsBusiness(err, "invalid_window"),
			httperr.IsBusiness(err, "invalid_slot_duration"):
			httperr.BadRequest(c, "Invalid working window")
		default:
			httperr.Internal(c, "Error publishing slots")
		}
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Slots published successfully",
		"created": created,
		"slots":   slots,
	})
}

func (h *DoctorHandler) ListSchedule(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "Date is required")
		return
	}

	aps, err := h.schedule.Execute(c.Request.Context(), doctor.DoctorID, dateStr)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "Invalid date")
			return
		}
		httperr.Internal(c, "Error fetching schedule")
		return
	}

	httpresp.OK(c, aps)
}

// --------- helpers ---------

func (h *DoctorHandler) currentDoctor(c *gin.Context) (*models.Doctor, bool) {
	id := c.MustGet(middleware.ContextActorID).(uint)

	var doctor models.Doctor
	if err := h.db.First(&doctor, id).Error; err != nil {
		httperr.NotFound(c, "Doctor not found")
		return nil, false
	}

	return &doctor, true
}

func doctorJSON(d *models.Doctor) gin.H {
	return gin.H{
		"id":              d.ID,
		"doctor_id":       d.DoctorID,
		"firstName":       d.FirstName,
		"lastName":        d.LastName,
		"email":           d.Email,
		"specialization":  d.Specialization,
		"experience":      d.Experience,
		"qualification":   d.Qualification,
		"license":         d.License,
		"hospital":        d.Hospital,
		"address":         d.Address,
		"phone":           d.Phone,
		"consultationFee": d.ConsultationFee,
	}
}
