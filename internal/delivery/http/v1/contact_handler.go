package v1

import (
	"errors"
	"net/http"

	"go-advisory-contact/internal/delivery/http/response"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required).
// Submissions get their own rate limiter on top of the global one.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limiter gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.GET("/services", handler.ListServices)
	if limiter != nil {
		public.POST("/contact", limiter, handler.SubmitContact)
	} else {
		public.POST("/contact", handler.SubmitContact)
	}
}

// SubmitContact stores one contact form submission. Field failures come
// back as 400 with the per-field messages in "error".
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	saved, err := h.contactUC.SendContactMessage(c.Request.Context(), &req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			c.Error(appErr)
			return
		}
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to send message. Please try again later.", err))
		return
	}

	response.Success(c, http.StatusCreated, "Your message has been sent successfully!", saved)
}

// ListServices returns the services a visitor may pick from
func (h *ContactHandler) ListServices(c *gin.Context) {
	response.Success(c, http.StatusOK, "Services retrieved", domain.OfferedServices)
}
