package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
	"github.com/open-builders/giveaway-bot/internal/common/middleware"
	"github.com/open-builders/giveaway-bot/internal/common/validation"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/mapper"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/service"
)

// GiveawayService is the engine surface exposed over HTTP.
type GiveawayService interface {
	Start(ctx context.Context, in service.StartInput) (*dg.Giveaway, error)
	Edit(ctx context.Context, id string, in service.EditInput) (*dg.Giveaway, error)
	End(ctx context.Context, id string) error
	Reroll(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*dg.Giveaway, error)
	List(ctx context.Context) ([]*dg.Giveaway, error)
}

type GiveawayHandler struct {
	service GiveawayService
	now     func() time.Time
}

func NewGiveawayHandler(svc GiveawayService, now func() time.Time) *GiveawayHandler {
	if now == nil {
		now = time.Now
	}
	return &GiveawayHandler{service: svc, now: now}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	giveaways := router.Group("/giveaways")
	{
		giveaways.POST("", h.create)
		giveaways.GET("", h.list)
		giveaways.GET("/:id", h.getByID)
		giveaways.PUT("/:id", h.update)
		giveaways.DELETE("/:id", h.delete)
		giveaways.POST("/:id/end", h.end)
		giveaways.POST("/:id/reroll", h.reroll)
	}
}

// @Summary Start a giveaway
// @Description Posts the announcement in the channel and arms the countdown
// @Tags giveaways
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body models.GiveawayCreateRequest true "Giveaway parameters"
// @Success 201 {object} models.GiveawayResponse
// @Failure 400 {object} middleware.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} middleware.ErrorResponse "Не авторизован"
// @Failure 422 {object} middleware.ErrorResponse "Канал недоступен"
// @Failure 500 {object} middleware.ErrorResponse "Внутренняя ошибка сервера"
// @Router /giveaways [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	var input models.GiveawayCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	if err := validateIDs(input.ChannelID, input.HostedBy, input.Requirements); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	g, err := h.service.Start(c.Request.Context(), mapper.ToStartInput(&input))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ToGiveawayResponse(g, h.now()))
}

// @Summary List giveaways
// @Description Returns every stored giveaway ordered by end time
// @Tags giveaways
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by status" Enums(active, ended)
// @Success 200 {object} models.GiveawayListResponse
// @Failure 401 {object} middleware.ErrorResponse "Не авторизован"
// @Router /giveaways [get]
func (h *GiveawayHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	status := models.GiveawayStatus(strings.ToLower(c.Query("status")))
	switch status {
	case "":
	case models.GiveawayStatusActive, models.GiveawayStatusEnded:
		filtered := all[:0]
		for _, g := range all {
			if g.Ended == (status == models.GiveawayStatusEnded) {
				filtered = append(filtered, g)
			}
		}
		all = filtered
	default:
		middleware.AbortWithError(c, apperrors.NewValidationError("status", "must be active or ended"))
		return
	}

	c.JSON(http.StatusOK, mapper.ToGiveawayListResponse(all, h.now()))
}

// @Summary Get giveaway
// @Tags giveaways
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.GiveawayResponse
// @Failure 404 {object} middleware.ErrorResponse "Розыгрыш не найден"
// @Router /giveaways/{id} [get]
func (h *GiveawayHandler) getByID(c *gin.Context) {
	g, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToGiveawayResponse(g, h.now()))
}

// @Summary Edit an active giveaway
// @Description Changes prize, winner count or requirements; the end time never changes
// @Tags giveaways
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Giveaway ID"
// @Param input body models.GiveawayUpdateRequest true "Fields to change"
// @Success 200 {object} models.GiveawayResponse
// @Failure 400 {object} middleware.ErrorResponse "Ошибка валидации"
// @Failure 404 {object} middleware.ErrorResponse "Розыгрыш не найден или завершен"
// @Router /giveaways/{id} [put]
func (h *GiveawayHandler) update(c *gin.Context) {
	var input models.GiveawayUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	if err := validateIDs("", "", input.Requirements); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	g, err := h.service.Edit(c.Request.Context(), c.Param("id"), mapper.ToEditInput(&input))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToGiveawayResponse(g, h.now()))
}

// @Summary Delete giveaway
// @Description Stops the giveaway, deletes its announcement and the stored record
// @Tags giveaways
// @Security ApiKeyAuth
// @Param id path string true "Giveaway ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse "Розыгрыш не найден"
// @Router /giveaways/{id} [delete]
func (h *GiveawayHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary End giveaway now
// @Description Draws winners immediately; ending an ended giveaway changes nothing
// @Tags giveaways
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.GiveawayResponse
// @Failure 404 {object} middleware.ErrorResponse "Розыгрыш не найден"
// @Router /giveaways/{id}/end [post]
func (h *GiveawayHandler) end(c *gin.Context) {
	h.transition(c, h.service.End)
}

// @Summary Reroll winners
// @Description Draws a fresh set of winners for an ended giveaway, or ends an active one
// @Tags giveaways
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.GiveawayResponse
// @Failure 404 {object} middleware.ErrorResponse "Розыгрыш не найден"
// @Router /giveaways/{id}/reroll [post]
func (h *GiveawayHandler) reroll(c *gin.Context) {
	h.transition(c, h.service.Reroll)
}

// transition runs an engine action that treats absent ids as a no-op,
// reporting 404 to the caller instead.
func (h *GiveawayHandler) transition(c *gin.Context, action func(context.Context, string) error) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.service.Get(ctx, id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if err := action(ctx, id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	g, err := h.service.Get(ctx, id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToGiveawayResponse(g, h.now()))
}

func validateIDs(channelID, hostedBy string, reqs *models.RequirementsPayload) error {
	if channelID != "" {
		if err := validation.ValidateSnowflake(channelID, "channel_id"); err != nil {
			return apperrors.NewValidationError("channel_id", err.Error())
		}
	}
	if hostedBy != "" {
		if err := validation.ValidateSnowflake(hostedBy, "hosted_by"); err != nil {
			return apperrors.NewValidationError("hosted_by", err.Error())
		}
	}
	if reqs != nil {
		if err := validation.ValidateRoles(reqs.RequiredRoles); err != nil {
			return apperrors.NewValidationError("requirements.required_roles", err.Error())
		}
	}
	return nil
}
