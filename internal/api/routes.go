package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/lang/:lang", handler.SetLanguage)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/password", handler.AuthRequired, handler.ChangePassword)

	api.Get("/slots", handler.AuthRequired, handler.Slots)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.CreateEntries)
	entries.Get("/:id", handler.GetEntry)
	entries.Put("/:id", handler.UpdateEntry)
	entries.Delete("/:id", handler.DeleteEntry)
	entries.Post("/:id/edit", handler.BeginEdit)
	entries.Post("/:id/delete-request", handler.RequestDelete)

	session := api.Group("/session", handler.AuthRequired)
	session.Get("", handler.GetSession)
	session.Post("/edit/save", handler.SaveEdit)
	session.Post("/edit/cancel", handler.CancelEdit)
	session.Post("/delete/confirm", handler.ConfirmDelete)
	session.Post("/delete/cancel", handler.CancelDelete)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/xlsx", handler.ExportXLSX)
	export.Get("/csv", handler.ExportCSV)
}
