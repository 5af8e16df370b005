package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/codeforchange/community-api/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminAuditLog records an audit trail entry for an admin mutation. It runs
// after RequireAdmin, so the admin user is already in the request context.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminUser, ok := GetUser(c)
		if !ok || adminUser == nil {
			return c.Next() // Continue without logging if user not found
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var oldValue interface{}
		var newValue interface{}

		if c.Method() == "POST" || c.Method() == "PUT" || c.Method() == "PATCH" {
			body := c.Body()
			if len(body) > 0 {
				json.Unmarshal(body, &newValue)
			}
		}

		// Capture the pre-mutation state for destructive operations
		if resourceID > 0 && (c.Method() == "DELETE" || c.Method() == "PUT" || c.Method() == "PATCH") {
			switch resource {
			case "grant_programs":
				var program model.GrantProgram
				if err := db.First(&program, resourceID).Error; err == nil {
					oldValue = program
				}
			case "grant_applications":
				var application model.GrantApplication
				if err := db.First(&application, resourceID).Error; err == nil {
					oldValue = application
				}
			case "users":
				var user model.User
				if err := db.First(&user, resourceID).Error; err == nil {
					oldValue = user
				}
			case "events":
				var event model.Event
				if err := db.First(&event, resourceID).Error; err == nil {
					oldValue = event
				}
			case "announcements":
				var announcement model.Announcement
				if err := db.First(&announcement, resourceID).Error; err == nil {
					oldValue = announcement
				}
			}
		}

		adminID := adminUser.ID
		ip := c.IP()
		userAgent := c.Get("User-Agent")
		description := c.Method() + " " + c.Path()

		err := c.Next()

		go func() {
			oldValueJSON, _ := json.Marshal(oldValue)
			newValueJSON, _ := json.Marshal(newValue)

			auditLog := model.AdminAuditLog{
				AdminID:     adminID,
				Action:      action,
				Resource:    resource,
				ResourceID:  resourceID,
				OldValue:    string(oldValueJSON),
				NewValue:    string(newValueJSON),
				IPAddress:   ip,
				UserAgent:   userAgent,
				Description: description,
			}

			db.Create(&auditLog)
		}()

		return err
	}
}
