package handlers

import (
	"fmt"
	"net/http"
)

// Healthcheck answers the load balancer probe. It does not touch the database.
func Healthcheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, "Method not available: %s", r.Method)
		return
	}
	fmt.Fprint(w, "Im alive!")
}
