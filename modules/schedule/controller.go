package schedule

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/httpapi"
)

// ScheduleAPIController proxies run control to the external schedule service
// so clients never talk to it directly.
type ScheduleAPIController struct {
	client Client
}

func NewScheduleAPIController(client Client) *ScheduleAPIController {
	return &ScheduleAPIController{client: client}
}

func (c *ScheduleAPIController) Key() string {
	return "/schedule/api"
}

func (c *ScheduleAPIController) Register(r *mux.Router) {
	api := r.PathPrefix("/schedule/api").Subrouter()
	api.HandleFunc("/runs", c.StartRun).Methods(http.MethodPost)
	api.HandleFunc("/runs/{id}", c.GetRun).Methods(http.MethodGet)
}

func (c *ScheduleAPIController) StartRun(w http.ResponseWriter, r *http.Request) {
	run, err := c.client.StartGeneration(r.Context(), composables.CampusIDOrEmpty(r.Context()))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadGateway, "SCHEDULE_UPSTREAM", err.Error(), nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusAccepted, run)
}

func (c *ScheduleAPIController) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := c.client.GetRun(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadGateway, "SCHEDULE_UPSTREAM", err.Error(), nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, run)
}
