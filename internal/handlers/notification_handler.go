package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread", h.GetUnread)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c, 20, 50)
	notifications, total, err := h.notifications.List(c.Request().Context(), sess, page, limit)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": notifications,
		},
		"meta": paginationMeta(page, limit, total),
	})
}

// GetUnread returns the newest unread notifications with the unread total
func (h *NotificationHandler) GetUnread(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	items, err := h.notifications.Unread(ctx, sess)
	if err != nil {
		return httpError(c, err)
	}
	count, err := h.notifications.UnreadCount(ctx, sess)
	if err != nil {
		return httpError(c, err)
	}

	return respond(c, http.StatusOK, echo.Map{"notifications": items, "unreadCount": count})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(c.Request().Context(), sess)
	if err != nil {
		return httpError(c, err)
	}

	return respond(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAsRead(c.Request().Context(), sess, id); err != nil {
		return httpError(c, err)
	}

	return respond(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	updated, err := h.notifications.MarkAllAsRead(c.Request().Context(), sess)
	if err != nil {
		return httpError(c, err)
	}

	return respond(c, http.StatusOK, echo.Map{"success": true, "updated": updated})
}
