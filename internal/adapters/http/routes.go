package web

import (
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/domain/user"
)

// registerRoutes attaches all application routes to the mux.
// Staff routes cover the owner and trainers; account management is
// owner only. Members see the dashboard and their own profile.
func registerRoutes(mux *http.ServeMux) {
	staff := middleware.RequireRole(user.RoleOwner, user.RoleTrainer)
	ownerOnly := middleware.RequireRole(user.RoleOwner)

	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)

	mux.Handle("/", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/profile", middleware.RequireAuth(http.HandlerFunc(handleProfile)))

	mux.Handle("/members", staff(http.HandlerFunc(handleMembers)))
	mux.Handle("/members/new", staff(http.HandlerFunc(handleMemberForm)))

	mux.Handle("/fees", staff(http.HandlerFunc(handleFees)))
	mux.Handle("/fees/new", staff(http.HandlerFunc(handleFeeForm)))

	mux.Handle("/diet-plans", staff(http.HandlerFunc(handleDietPlans)))
	mux.Handle("/diet-plans/new", staff(http.HandlerFunc(handleDietPlanForm)))

	mux.Handle("/users", ownerOnly(http.HandlerFunc(handleUsers)))
	mux.Handle("/users/new", ownerOnly(http.HandlerFunc(handleUserForm)))

	mux.Handle("/perf", ownerOnly(http.HandlerFunc(handlePerf)))
}
