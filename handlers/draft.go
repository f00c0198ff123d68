package handlers

import (
	"errors"
	"net/http"

	"homely/models"
	"homely/services/draft"
	"homely/utils"

	"github.com/gin-gonic/gin"
)

var draftService draft.DraftService

// SetDraftService injects the orchestrator used by the wizard handlers.
func SetDraftService(svc draft.DraftService) {
	draftService = svc
}

// StartDraft begins a new booking flow for the authenticated customer.
func StartDraft(c *gin.Context) {
	customerID := c.GetString("customerID")

	view, err := draftService.StartDraft(c.Request.Context(), customerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to start booking draft", err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDraft returns the draft and its derived price state.
func GetDraft(c *gin.Context) {
	view, err := draftService.GetDraft(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetService records the service step.
func SetService(c *gin.Context) {
	var input struct {
		Service  models.ServiceOffering   `json:"service" binding:"required"`
		Options  []models.OptionSelection `json:"options"`
		Quantity int                      `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	view, err := draftService.SetService(c.Request.Context(), c.Param("draftID"), input.Service, input.Options, input.Quantity)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetLocation records the location step.
func SetLocation(c *gin.Context) {
	var input struct {
		Location models.Location `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	view, err := draftService.SetLocation(c.Request.Context(), c.Param("draftID"), input.Location)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetSchedule records the time step, including mode switches.
func SetSchedule(c *gin.Context) {
	var input draft.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	view, err := draftService.SetSchedule(c.Request.Context(), c.Param("draftID"), input)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetFulfillment records the fulfillment step.
func SetFulfillment(c *gin.Context) {
	var input struct {
		Fulfillment models.Fulfillment `json:"fulfillment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	view, err := draftService.SetFulfillment(c.Request.Context(), c.Param("draftID"), input.Fulfillment)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetExtras records note, promo code, payment method and consents.
func SetExtras(c *gin.Context) {
	var input draft.ExtrasInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	view, err := draftService.SetExtras(c.Request.Context(), c.Param("draftID"), input)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GoToStep navigates the wizard.
func GoToStep(c *gin.Context) {
	var input struct {
		Step string `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	target, ok := models.ParseWizardStep(input.Step)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step", "details": input.Step})
		return
	}

	view, err := draftService.GoToStep(c.Request.Context(), c.Param("draftID"), target)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RetryPreview re-schedules a preview fetch after a failure.
func RetryPreview(c *gin.Context) {
	view, err := draftService.RetryPreview(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitDraft runs the assembler. The client pre-declares how upload
// failures should be adjudicated; each failed image is decided one at a
// time before the next upload starts.
func SubmitDraft(c *gin.Context) {
	var input struct {
		OnUploadFailure string `json:"onUploadFailure"` // "abort" (default) or "continue"
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	decide := func(imageRef string, uploadErr error) draft.UploadDecision {
		if input.OnUploadFailure == "continue" {
			return draft.DecisionSkip
		}
		return draft.DecisionAbort
	}

	receipt, err := draftService.Submit(c.Request.Context(), c.Param("draftID"), decide)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// AbandonDraft drops the draft session on explicit restart.
func AbandonDraft(c *gin.Context) {
	if err := draftService.Abandon(c.Request.Context(), c.Param("draftID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to abandon draft", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

// respondDraftError maps orchestrator errors onto HTTP statuses.
func respondDraftError(c *gin.Context, err error) {
	var valErr *draft.ValidationError
	switch {
	case errors.Is(err, draft.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking draft not found or expired"})
	case errors.Is(err, draft.ErrDraftTerminal):
		c.JSON(http.StatusConflict, gin.H{"error": "this booking was already submitted"})
	case errors.Is(err, draft.ErrSubmissionInFlight):
		// Second submit while one is pending is a no-op.
		c.JSON(http.StatusConflict, gin.H{"error": "a submission is already in progress"})
	case errors.Is(err, draft.ErrStepLocked):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, draft.ErrUploadAborted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "submission aborted: an image failed to upload"})
	case errors.As(err, &valErr):
		status := http.StatusUnprocessableEntity
		if valErr.Code == "recurring_timeout" {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": valErr.Message, "code": valErr.Code})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "booking draft operation failed", err.Error())
	}
}
