package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"mfportal/src/worker/controllers"
)

// Healthcheck also lists the jobs currently scheduled on this worker.
func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fmt.Fprintf(w, "Method not available: %s", r.Method)
		return
	}

	var jobs []string
	if c, ok := h.Controller.(*controllers.Controller); ok {
		for name := range c.GetSchedulers() {
			jobs = append(jobs, name)
		}
		sort.Strings(jobs)
	}
	fmt.Fprintf(w, "Im alive! jobs: [%s]", strings.Join(jobs, ", "))
}
