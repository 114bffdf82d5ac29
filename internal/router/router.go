// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinepass/movie-booking/internal/handler"
	"github.com/cinepass/movie-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register/login/refresh/logout
// are open; /me sits behind the JWT gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterMovies registers the public movie catalog and the admin CRUD.
// The catalog read is cached via mw when a cache middleware is provided.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/movies", m.List, cache)
	} else {
		e.GET("/movies", m.List)
	}

	admin := e.Group(
		"/movies",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.POST("", m.Create)
	admin.PUT("/:id", m.Update)
	admin.PATCH("/:id", m.Update)
	admin.DELETE("/:id", m.Delete)
}

// RegisterOwner registers the theater-owner console endpoints. All routes
// require a valid JWT and the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/theater-owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	g.GET("/my-theater", o.MyTheater)
	g.POST("/my-theater", o.CreateTheater)
	g.GET("/my-shows", o.MyShows)
	g.POST("/add-show", o.AddShow)
	g.DELETE("/shows/:id", o.DeleteShow)
}
