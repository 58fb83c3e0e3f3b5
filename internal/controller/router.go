package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) Mux() http.Handler {
	r := chi.NewRouter()

	r.HandleFunc("/api/ws", c.webSocket)
	r.Get("/api/stats", c.getStats)
	r.Post("/api/videos", c.postVideo)

	return r
}
