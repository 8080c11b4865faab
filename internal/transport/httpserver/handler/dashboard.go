package handler

import (
	"net/http"
	"time"
)

type upcomingProjectResponse struct {
	Name     string    `json:"nombre"`
	Deadline time.Time `json:"fecha"`
}

type metricsResponse struct {
	TotalRequests int64                    `json:"totalSolicitudes"`
	AverageBudget float64                  `json:"promedioPresupuesto"`
	BusinessTypes int64                    `json:"tiposNegocio"`
	NextProject   *upcomingProjectResponse `json:"proximoProyecto"`
}

type businessTypeCountResponse struct {
	BusinessType *string `json:"tipo_negocio"`
	Count        int64   `json:"count"`
}

type dailyCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type chartsResponse struct {
	ByBusinessType []businessTypeCountResponse `json:"distribucionNegocios"`
	Daily          []dailyCountResponse        `json:"evolucionSolicitudes"`
}

func (h *Handlers) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboard.Metrics(r.Context())
	if err != nil {
		h.log.InternalError("dashboard.metrics: aggregate failed", err)
		h.writeInternal(w, err)
		return
	}

	response := metricsResponse{
		TotalRequests: metrics.TotalRequests,
		AverageBudget: metrics.AverageBudget.InexactFloat64(),
		BusinessTypes: metrics.BusinessTypes,
	}
	if metrics.NextProject != nil {
		response.NextProject = &upcomingProjectResponse{
			Name:     metrics.NextProject.MainProduct,
			Deadline: metrics.NextProject.Deadline,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) DashboardCharts(w http.ResponseWriter, r *http.Request) {
	data, err := h.Dashboard.ChartData(r.Context())
	if err != nil {
		h.log.InternalError("dashboard.charts: aggregate failed", err)
		h.writeInternal(w, err)
		return
	}

	response := chartsResponse{
		ByBusinessType: make([]businessTypeCountResponse, 0, len(data.ByBusinessType)),
		Daily:          make([]dailyCountResponse, 0, len(data.Daily)),
	}
	for _, bucket := range data.ByBusinessType {
		response.ByBusinessType = append(response.ByBusinessType, businessTypeCountResponse{
			BusinessType: bucket.BusinessType,
			Count:        bucket.Count,
		})
	}
	for _, day := range data.Daily {
		response.Daily = append(response.Daily, dailyCountResponse{Date: day.Date, Count: day.Count})
	}

	writeJSON(w, http.StatusOK, response)
}
