package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			// Development plans
			r.Get("/plans", h.ListPlans)
			r.Post("/plans", h.CreatePlan)
			r.Get("/plans/{id}", h.GetPlan)
			r.Delete("/plans/{id}", h.DeletePlan)
			r.Post("/plans/{id}/milestones", h.AddMilestone)
			r.Post("/plans/{id}/habits", h.AddHabit)
			r.Post("/plans/{id}/skills", h.AddSkill)

			r.Patch("/milestones/{id}", h.UpdateMilestone)
			r.Post("/milestones/{id}/toggle", h.ToggleMilestone)
			r.Delete("/milestones/{id}", h.DeleteMilestone)

			r.Patch("/habits/{id}", h.UpdateHabit)
			r.Post("/habits/{id}/complete", h.CompleteHabit)
			r.Delete("/habits/{id}", h.DeleteHabit)

			r.Patch("/skills/{id}", h.UpdateSkillProgress)
			r.Delete("/skills/{id}", h.DeleteSkill)

			// Finance
			r.Get("/transactions", h.ListTransactions)
			r.Post("/transactions", h.AddTransaction)
			r.Delete("/transactions/{id}", h.DeleteTransaction)
			r.Get("/financial-goals", h.ListFinancialGoals)
			r.Post("/financial-goals", h.AddFinancialGoal)
			r.Patch("/financial-goals/{id}", h.UpdateFinancialGoal)
			r.Delete("/financial-goals/{id}", h.DeleteFinancialGoal)
			r.Get("/finance/categories", h.ListCategories)
			r.Post("/finance/categories", h.AddCategory)
			r.Get("/finance/summary", h.FinanceSummary)
			r.Get("/finance/export", h.ExportFinance)
			r.Post("/finance/import", h.ImportFinance)

			// Emotional journal
			r.Get("/emotions", h.ListEmotions)
			r.Post("/emotions", h.AddEmotion)
			r.Get("/emotions/wellbeing", h.Wellbeing)
			r.Delete("/emotions/{id}", h.DeleteEmotion)

			// Scratch documents
			r.Get("/data/{namespace}", h.ListDocuments)
			r.Get("/data/{namespace}/{key}", h.GetDocument)
			r.Put("/data/{namespace}/{key}", h.PutDocument)
			r.Delete("/data/{namespace}/{key}", h.DeleteDocument)

			// Assistant
			r.Post("/assistant/chat", h.Chat)
		})
	})

	return r
}
