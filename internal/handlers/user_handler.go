package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arogyalink/health-portal/internal/audit"
	"github.com/arogyalink/health-portal/internal/auth"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/httpresp"
	"github.com/arogyalink/health-portal/internal/middleware"
	"github.com/arogyalink/health-portal/internal/models"
	"github.com/arogyalink/health-portal/internal/validators"
)

type UserHandler struct {
	db     *gorm.DB
	tokens *auth.TokenService
	audit  *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, tokens *auth.TokenService, auditDispatcher *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, tokens: tokens, audit: auditDispatcher}
}

// --------- Requests ---------

type RegisterUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`

	Phone      string `json:"phone"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`
	Address    string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// patientUpdatableFields is the PATCH allow-list. Email is immutable and
// rejected explicitly before the allow-list check.
var patientUpdatableFields = map[string]bool{
	"firstName":  true,
	"lastName":   true,
	"password":   true,
	"phone":      true,
	"age":        true,
	"gender":     true,
	"bloodGroup": true,
	"address":    true,
}

// --------- Handlers ---------

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
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
	if err := h.db.Model(&models.Patient{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "Error registering user")
		return
	}
	if count > 0 {
		httperr.Conflict(c, "User with this email already exists")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "Error registering user")
		return
	}

	patient := models.Patient{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Age:          req.Age,
		Gender:       req.Gender,
		BloodGroup:   req.BloodGroup,
		Address:      req.Address,
	}

	if err := h.db.Create(&patient).Error; err != nil {
		if isUniqueViolation(err) {
			httperr.Conflict(c, "User with this email already exists")
			return
		}
		httperr.Internal(c, "Error registering user")
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), auth.KindPatient, patient.ID)
	if err != nil {
		httperr.Internal(c, "Error registering user")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: auth.KindPatient,
		ActorID:   &patient.ID,
		Action:    "patient_registered",
		Entity:    "patient",
	})

	httpresp.Created(c, gin.H{
		"message": "User registered successfully",
		"user":    patientJSON(&patient),
		"token":   token,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid login data")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Unknown email and wrong password answer identically.
	var patient models.Patient
	if err := h.db.Where("email = ?", email).First(&patient).Error; err != nil {
		httperr.Unauthorized(c, "Invalid email or password")
		return
	}

	if !auth.CheckPassword(patient.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), auth.KindPatient, patient.ID)
	if err != nil {
		httperr.Internal(c, "Error logging in")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: auth.KindPatient,
		ActorID:   &patient.ID,
		Action:    "patient_login",
		Entity:    "patient",
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    patientJSON(&patient),
		"token":   token,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	claims := c.MustGet(middleware.ContextClaims).(*auth.Claims)

	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		httperr.Internal(c, "Error logging out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextActorID).(uint)

	var patient models.Patient
	if err := h.db.First(&patient, patientID).Error; err != nil {
		httperr.NotFound(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, patientJSON(&patient))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextActorID).(uint)

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

	// Email rejection wins over everything else in the payload.
	if _, ok := raw["email"]; ok {
		httperr.BadRequest(c, "Email cannot be updated")
		return
	}
	for field := range raw {
		if !patientUpdatableFields[field] {
			httperr.BadRequest(c, "Invalid updates")
			return
		}
	}

	var patient models.Patient
	if err := h.db.First(&patient, patientID).Error; err != nil {
		httperr.NotFound(c, "User not found")
		return
	}

	var req struct {
		FirstName  *string `json:"firstName"`
		LastName   *string `json:"lastName"`
		Password   *string `json:"password"`
		Phone      *string `json:"phone"`
		Age        *int    `json:"age"`
		Gender     *string `json:"gender"`
		BloodGroup *string `json:"bloodGroup"`
		Address    *string `json:"address"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httperr.BadRequest(c, "Invalid updates")
		return
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, "Error updating profile")
			return
		}
		patient.PasswordHash = hashed
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}

	if err := h.db.Save(&patient).Error; err != nil {
		httperr.Internal(c, "Error updating profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    patientJSON(&patient),
	})
}

// --------- JSON shapes ---------

func patientJSON(p *models.Patient) gin.H {
	return gin.H{
		"id":         p.ID,
		"firstName":  p.FirstName,
		"lastName":   p.LastName,
		"email":      p.Email,
		"phone":      p.Phone,
		"age":        p.Age,
		"gender":     p.Gender,
		"bloodGroup": p.BloodGroup,
		"address":    p.Address,
	}
}
