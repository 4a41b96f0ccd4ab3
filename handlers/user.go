package handlers

import (
	"net/http"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// userFilteredQuery applies the recognized user list filters
func userFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.User{})

	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	return query
}

// GetUsers returns users matching the query filters
func GetUsers(c echo.Context) error {
	var users []models.User
	if err := userFilteredQuery(c).Order("name ASC").Find(&users).Error; err != nil {
		return respondServerError(c, "Failed to fetch users", err)
	}

	return respondList(c, http.StatusOK, users, nil, nil, len(users))
}

// GetUser returns a single user
func GetUser(c echo.Context) error {
	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	return respondData(c, http.StatusOK, user)
}

// GetMe returns the authenticated user
func GetMe(c echo.Context) error {
	return respondData(c, http.StatusOK, middleware.GetCurrentUser(c))
}

// UpdateUserRequest is the typed field set accepted by PATCH
type UpdateUserRequest struct {
	Name       *string  `json:"name"`
	Role       *string  `json:"role"`
	HourlyRate *float64 `json:"hourly_rate"`
	Phone      *string  `json:"phone"`
	Password   *string  `json:"password"`
}

// UpdateUser applies the supplied fields and audits atomically. Role changes
// are restricted to admins.
func UpdateUser(c echo.Context) error {
	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	currentUser := middleware.GetCurrentUser(c)
	changes := map[string]interface{}{}
	if req.Name != nil {
		user.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.Role != nil {
		if currentUser.Role != models.RoleAdmin {
			return respondError(c, http.StatusForbidden, "Only admins can change roles")
		}
		if !models.IsValidRole(*req.Role) {
			return respondError(c, http.StatusBadRequest, "Invalid role")
		}
		user.Role = *req.Role
		changes["role"] = *req.Role
	}
	if req.HourlyRate != nil {
		user.HourlyRate = *req.HourlyRate
		changes["hourly_rate"] = *req.HourlyRate
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
		changes["phone"] = *req.Phone
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return respondError(c, http.StatusBadRequest, "Password must be at least 8 characters")
		}
		hashed, err := services.HashPassword(*req.Password)
		if err != nil {
			return respondServerError(c, "Failed to update user", err)
		}
		user.Password = hashed
		changes["password"] = "changed"
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditUserUpdated, "user", user.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update user", err)
	}

	return respondMessage(c, http.StatusOK, user, "User updated successfully")
}

// DeleteUser soft-deletes a user and audits atomically. Users cannot delete
// themselves.
func DeleteUser(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser.ID == c.Param("id") {
		return respondError(c, http.StatusBadRequest, "Cannot delete your own account")
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditUserDeleted, "user", user.ID,
			map[string]interface{}{"soft_delete": true, "email": user.Email})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete user", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "User deleted successfully"})
}
