// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"bidmart/internal/handlers"
	"bidmart/internal/middleware"
	"bidmart/internal/models"
	"bidmart/internal/services/penalty"
	"bidmart/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the services the HTTP surface exposes.
type Dependencies struct {
	Penalty penalty.Service
	Wallet  wallet.Service
	Health  *handlers.HealthHandler
	Auth    *middleware.AuthMiddleware
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.HealthCheck)
	}

	penaltyHandler := handlers.NewPenaltyHandler(deps.Penalty)
	walletHandler := handlers.NewWalletHandler(deps.Wallet)

	// Everything under /api requires a bearer token
	api := app.Group("/api", deps.Auth.Handler)

	setupPenaltyRoutes(api, penaltyHandler)
	setupWalletRoutes(api, walletHandler)
}

func setupPenaltyRoutes(router fiber.Router, h *handlers.PenaltyHandler) {
	read := middleware.HasPermission(models.PermissionPenaltyRead)
	write := middleware.HasPermission(models.PermissionPenaltyWrite)
	// Sellers may read their own records.
	readOwn := middleware.HasPermissionOrSelf(models.PermissionPenaltyRead, "id")

	router.Get("/penalties/rules", read, h.GetRules)
	router.Post("/penalties/:id/appeal", h.AppealPenalty)

	sellers := router.Group("/sellers/:id")
	sellers.Post("/penalties", write, h.ApplyPenalty)
	sellers.Get("/penalties", readOwn, h.ListPenalties)
	sellers.Post("/cooldowns", write, h.ApplyCooldown)
	sellers.Get("/cooldowns", readOwn, h.ListCooldowns)
	sellers.Get("/risk-score", readOwn, h.GetRiskScore)
	sellers.Get("/permissions", readOwn, h.CheckPermissions)
}

func setupWalletRoutes(router fiber.Router, h *handlers.WalletHandler) {
	write := middleware.HasPermission(models.PermissionWalletWrite)
	// Users may read their own wallet.
	readOwn := middleware.HasPermissionOrSelf(models.PermissionWalletRead, "userId")

	// Static paths before /wallets/:userId
	router.Post("/wallets/refunds", write, h.ProcessRefund)

	wallets := router.Group("/wallets/:userId")
	wallets.Get("/", readOwn, h.GetBalance)
	wallets.Get("/transactions", readOwn, h.GetTransactions)
	wallets.Post("/credit", write, h.Credit)
	wallets.Post("/debit", write, h.Debit)
	wallets.Post("/hold", write, h.Hold)
	wallets.Post("/release", write, h.Release)

	auctions := router.Group("/auctions/:id", write)
	auctions.Post("/settlement", h.SettleAuction)
	auctions.Post("/bid-refunds", h.RefundBids)
}
