package handlers

import (
	"net/http"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Phone      string  `json:"phone"`
	HourlyRate float64 `json:"hourly_rate"`
}

// Validate enforces the registration field rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&r.Role, validation.Required, validation.By(func(interface{}) error {
			if !models.IsValidRole(r.Role) {
				return validation.NewError("validation_role", "must be one of: admin, attorney, legal_manager, staff, viewer")
			}
			return nil
		})),
	)
}

// Register creates a new user account
func Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	// Reject duplicate emails
	var existing models.User
	if err := db.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		return respondError(c, http.StatusBadRequest, "User with this email already exists")
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return respondServerError(c, "Registration failed", err)
	}

	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hashed,
		Role:       req.Role,
		Phone:      req.Phone,
		HourlyRate: req.HourlyRate,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		auditCtx := middleware.GetAuditContext(c)
		auditCtx.UserID = user.ID // self-registration: actor is the new user
		return services.RecordAudit(tx, auditCtx, models.AuditUserRegistered, "user", user.ID,
			map[string]interface{}{"email": user.Email, "role": user.Role})
	})
	if err != nil {
		return respondServerError(c, "Registration failed", err)
	}

	return respondData(c, http.StatusCreated, map[string]interface{}{"user": user})
}

// LoginRequest is the payload for token issuance
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a signed bearer token
func Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	if err := db.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if !services.CheckPassword(req.Password, user.Password) {
		return respondError(c, http.StatusUnauthorized, "Invalid credentials")
	}

	cfg, ok := c.Get(middleware.ContextKeyConfig).(*config.Config)
	if !ok {
		return respondServerError(c, "Login failed", echo.ErrInternalServerError)
	}

	token, err := services.GenerateToken(&user, cfg.JWTSecret)
	if err != nil {
		return respondServerError(c, "Login failed", err)
	}

	return respondData(c, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
