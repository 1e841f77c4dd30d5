package controllers

import (
	"net/http"

	"github.com/lumamart/storefront-backend/api/responses"
	"github.com/lumamart/storefront-backend/internal/dashboard"
	"github.com/lumamart/storefront-backend/pkg/logger"
)

func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summarize(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
