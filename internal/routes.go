package internal

import (
	"falci/internal/controllers"
	"falci/internal/providers"
	"net/http"
)

func InitRoutes(logger providers.Logger, auth *controllers.AuthController, reading *controllers.ReadingController, history *controllers.HistoryController, chat *controllers.ChatController, profile *controllers.ProfileController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	routers.Use(providers.RequestLogMiddleware(logger))
	private := func(h http.HandlerFunc) http.Handler {
		return auth.RequireSession(h)
	}

	routers.Post("/auth/register", http.HandlerFunc(auth.Register))
	routers.Post("/auth/login", http.HandlerFunc(auth.Login))
	routers.Post("/auth/logout", private(auth.Logout))

	routers.Get("/profile", private(profile.Profile))

	routers.Get("/reading", private(reading.Snapshot))
	routers.Post("/reading/image", private(reading.SelectImage))
	routers.Post("/reading/submit", private(reading.Submit))

	routers.Get("/history", private(history.List))
	routers.Get("/history/entry", private(history.Entry))
	routers.Get("/history/image", private(history.Image))

	routers.Get("/chat", private(chat.Transcript))
	routers.Post("/chat", private(chat.Send))
	return routers
}
