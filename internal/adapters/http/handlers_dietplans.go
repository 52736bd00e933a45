package web

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/adapters/http/middleware"
	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/dietplan"
)

// handleDietPlans handles GET (list) and POST (create) for /diet-plans.
func handleDietPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("per_page"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		result, err := projections.QueryGetDietPlans(ctx, projections.GetDietPlansQuery{
			MemberID: q.Get("member_id"),
			Limit:    limit,
			Offset:   offset,
		}, projections.GetDietPlansDeps{
			DietPlanStore: stores.DietPlanStore,
			MemberStore:   stores.MemberStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "diet_plans.html", map[string]any{
				"Plans":    result.Plans,
				"MemberID": q.Get("member_id"),
			})
			return
		}
		writeJSON(w, result)
		return
	}

	if r.Method == "POST" {
		identity, _ := middleware.IdentityFromContext(ctx)
		input := orchestrators.CreateDietPlanInput{}

		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.MemberID = r.FormValue("MemberID")
			input.Date = parseDateField(r.FormValue("Date"))
			// Meal rows arrive as parallel arrays, one entry per row.
			slots := r.Form["MealTimeSlot"]
			names := r.Form["MealName"]
			categories := r.Form["MealCategory"]
			quantities := r.Form["MealQuantity"]
			for i := range names {
				if names[i] == "" {
					continue
				}
				meal := orchestrators.MealInput{Name: names[i]}
				if i < len(slots) {
					meal.TimeSlot = slots[i]
				}
				if i < len(categories) {
					meal.Category = categories[i]
				}
				if i < len(quantities) {
					meal.Quantity = quantities[i]
				}
				input.Meals = append(input.Meals, meal)
			}
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}
		input.CreatedBy = identity.ID

		result, err := orchestrators.ExecuteCreateDietPlan(ctx, input, orchestrators.CreateDietPlanDeps{
			DietPlanStore: stores.DietPlanStore,
			MemberStore:   stores.MemberStore,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrUnknownMember) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			if isValidationError(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}

		if isHTML {
			http.Redirect(w, r, "/diet-plans", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, result)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleDietPlanForm handles GET /diet-plans/new.
func handleDietPlanForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	members, err := stores.MemberStore.List(r.Context(), memberStore.ListFilter{})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "diet_plan_form.html", map[string]any{
		"Members": members,
		"Slots":   dietplan.ValidSlots,
	})
}
