package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/nabava/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	reasonsHandler := &ReasonsHandler{DB: db}
	cartHandler := &CartHandler{DB: db}
	groupsHandler := &GroupsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: read (all roles), write (admin).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("POST /api/items/{id}/restock", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Restock))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireAdmin(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Usage reasons (all roles).
	mux.Handle("GET /api/reasons", authMW(http.HandlerFunc(reasonsHandler.List)))

	// Carts (all roles, scoped to the requesting user).
	mux.Handle("GET /api/cart", authMW(http.HandlerFunc(cartHandler.List)))
	mux.Handle("POST /api/cart", authMW(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("DELETE /api/cart/{id}", authMW(http.HandlerFunc(cartHandler.Remove)))

	// Group requests: submit and read (all roles), decide and settle (admin).
	mux.Handle("POST /api/groups", authMW(http.HandlerFunc(groupsHandler.Submit)))
	mux.Handle("GET /api/groups", authMW(http.HandlerFunc(groupsHandler.List)))
	mux.Handle("GET /api/groups/{id}", authMW(http.HandlerFunc(groupsHandler.Get)))
	mux.Handle("PUT /api/groups/{id}/approve", authMW(requireAdmin(http.HandlerFunc(groupsHandler.Approve))))
	mux.Handle("PUT /api/groups/{id}/reject", authMW(requireAdmin(http.HandlerFunc(groupsHandler.Reject))))
	mux.Handle("POST /api/groups/{id}/return", authMW(requireAdmin(http.HandlerFunc(groupsHandler.Return))))

	return mux
}
