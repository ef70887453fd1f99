package main

import (
	"net/http"

	"example.com/app/auth"
	"example.com/app/handlers"
	"example.com/app/router"
)

func main() {
	r := router.New()

	r.Get("/health", handlers.Health)
	r.Get("/debug", handlers.Debug)

	// @tag users
	r.Route("/api", func(r *router.Router) {
		registerUsers(r)

		r.Group(func(r *router.Router) {
			r.Use(auth.Bearer)

			// Delete a user
			// @path id [Int] The user ID
			// @response 204 Deleted
			r.Delete("/users/{id}", handlers.DeleteUser)
		})
	})

	r.Mount("/admin", adminRouter())

	http.ListenAndServe(":8080", r)
}

func registerUsers(r *router.Router) {
	r.Get("/users", handlers.ListUsers)
	r.Post("/users", handlers.CreateUser)
	r.Get("/users/{id}", handlers.GetUser)
}

func adminRouter() http.Handler {
	r := router.New()
	r.With(auth.Bearer).Get("/stats", handlers.Stats)
	return r
}
