package handlers

import (
	"bidmart/internal/middleware"
	"bidmart/internal/models"
	"bidmart/internal/services/penalty"
	"bidmart/internal/utils"
	"bidmart/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PenaltyHandler struct {
	penaltyService penalty.Service
}

func NewPenaltyHandler(penaltyService penalty.Service) *PenaltyHandler {
	return &PenaltyHandler{
		penaltyService: penaltyService,
	}
}

type applyPenaltyRequest struct {
	Type             string   `json:"type" validate:"required"`
	Severity         string   `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Description      string   `json:"description" validate:"max=1000"`
	RelatedAuctionID string   `json:"related_auction_id"`
	RelatedBidID     string   `json:"related_bid_id"`
	Evidence         []string `json:"evidence"`
	ReportedBy       string   `json:"reported_by"`
}

type applyCooldownRequest struct {
	Type         string `json:"type" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"gt=0"`
	Reason       string `json:"reason" validate:"required,max=500"`
	Appealable   *bool  `json:"appealable"`
}

type appealRequest struct {
	Reason   string   `json:"reason" validate:"required,max=2000"`
	Evidence []string `json:"evidence"`
}

func (h *PenaltyHandler) GetRules(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{
		"rules": h.penaltyService.Rules(),
	})
}

func (h *PenaltyHandler) ApplyPenalty(c *fiber.Ctx) error {
	var input applyPenaltyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	// Only service callers may file on someone else's behalf or leave the
	// reporter empty, which marks the penalty automated.
	reportedBy := input.ReportedBy
	if claims := middleware.Claims(c); claims != nil && claims.Role != models.RoleService {
		reportedBy = claims.UserID
	}

	p, err := h.penaltyService.ApplyPenalty(c.UserContext(), c.Params("id"), models.PenaltyType(input.Type), penalty.PenaltyDetails{
		Severity:         models.Severity(input.Severity),
		Description:      input.Description,
		RelatedAuctionID: input.RelatedAuctionID,
		RelatedBidID:     input.RelatedBidID,
		Evidence:         input.Evidence,
		ReportedBy:       reportedBy,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{
		"penalty": p,
	})
}

func (h *PenaltyHandler) ListPenalties(c *fiber.Ctx) error {
	penalties, err := h.penaltyService.ListPenalties(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"penalties": penalties,
	})
}

// AppealPenalty is open to the penalised seller and to penalty writers.
func (h *PenaltyHandler) AppealPenalty(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input appealRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	p, err := h.penaltyService.GetPenalty(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	if p.SellerID != claims.UserID && claims.Role != models.RoleAdmin && !claims.HasPermission(models.PermissionPenaltyWrite) {
		return utils.Forbidden(c, "insufficient permissions")
	}

	result, err := h.penaltyService.AppealPenalty(c.UserContext(), p.ID, input.Reason, input.Evidence)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, result)
}

func (h *PenaltyHandler) ApplyCooldown(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input applyCooldownRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	appealable := true
	if input.Appealable != nil {
		appealable = *input.Appealable
	}

	cd, err := h.penaltyService.ApplyCooldown(c.UserContext(), penalty.CooldownRequest{
		SellerID:     c.Params("id"),
		Type:         models.CooldownType(input.Type),
		DurationDays: input.DurationDays,
		Reason:       input.Reason,
		TriggeredBy:  claims.UserID,
		Appealable:   appealable,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{
		"cooldown": cd,
	})
}

func (h *PenaltyHandler) ListCooldowns(c *fiber.Ctx) error {
	cooldowns, err := h.penaltyService.ListActiveCooldowns(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"cooldowns": cooldowns,
	})
}

// GetRiskScore serves the cached score; ?refresh=true forces a recalculation.
func (h *PenaltyHandler) GetRiskScore(c *fiber.Ctx) error {
	var (
		score *models.RiskScore
		err   error
	)
	if c.QueryBool("refresh") {
		score, err = h.penaltyService.CalculateRiskScore(c.UserContext(), c.Params("id"))
	} else {
		score, err = h.penaltyService.GetRiskScore(c.UserContext(), c.Params("id"))
	}
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, score)
}

func (h *PenaltyHandler) CheckPermissions(c *fiber.Ctx) error {
	result, err := h.penaltyService.CheckSellerPermissions(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, result)
}
