package v1

import (
	"net/http"

	"go-advisory-contact/internal/delivery/http/response"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	draftUC domain.DraftUsecase
}

// NewDraftHandler registers server-side draft storage for clients that
// cannot keep a draft locally. Drafts are keyed by a client-generated
// session UUID.
func NewDraftHandler(group *gin.RouterGroup, draftUC domain.DraftUsecase) {
	handler := &DraftHandler{draftUC: draftUC}

	drafts := group.Group("/drafts")
	{
		drafts.PUT("/:session", handler.SaveDraft)
		drafts.GET("/:session", handler.GetDraft)
		drafts.DELETE("/:session", handler.DeleteDraft)
	}
}

func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var draft domain.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	if len([]rune(draft.Message)) > domain.MessageMaxLength {
		c.Error(apperror.BadRequest("Message must be no more than 1000 characters"))
		return
	}

	if err := h.draftUC.SaveDraft(c.Request.Context(), c.Param("session"), draft); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft saved", nil)
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.draftUC.GetDraft(c.Request.Context(), c.Param("session"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft retrieved", draft)
}

func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	if err := h.draftUC.DeleteDraft(c.Request.Context(), c.Param("session")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft cleared", nil)
}
