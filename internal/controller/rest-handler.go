package controller

import (
	"errors"
	"net/http"

	"github.com/theaterparty/server/pkg/rest"
	"github.com/theaterparty/server/pkg/videometa"
)

// getStats exposes the per-connection diagnostics: uptime, latency
// window summary and the last self-reported playback state.
func (c controller) getStats(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"connections": c.theater.ConnectionInfo(),
	})
}

type PostVideoRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// postVideo is the HTTP twin of the add_video socket message, for
// integrations that submit videos without holding a socket open.
func (c controller) postVideo(w http.ResponseWriter, r *http.Request) {
	var req PostVideoRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"validation_errors": validationErrors})
		return
	}

	outbounds, err := c.addVideo(r.Context(), req.URL)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, videometa.ErrUnsupportedURL) || errors.Is(err, videometa.ErrVideoNotEmbeddable) {
			status = http.StatusUnprocessableEntity
		}
		c.logger.DebugContext(r.Context(), "failed to add video", "url", req.URL, "error", err)
		rest.WriteJSON(w, status, rest.Envelope{"error": err.Error()})
		return
	}
	c.sender.deliver(r.Context(), outbounds)

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"ok": true})
}
