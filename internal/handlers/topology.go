package handlers

import (
	"log"
	"net/http"

	"netadmin/internal/models"
	"netadmin/internal/services"

	"github.com/go-chi/chi/v5"
)

type TopologyHandler struct {
	topology *services.TopologyService
	links    *services.LinkService
}

func NewTopologyHandler(topology *services.TopologyService, links *services.LinkService) *TopologyHandler {
	return &TopologyHandler{topology: topology, links: links}
}

// Graph returns the current node/edge topology, refreshed from a live
// interface snapshot when one can be taken.
func (h *TopologyHandler) Graph(w http.ResponseWriter, r *http.Request) {
	if interfaces, err := h.links.ListInterfaces(); err == nil {
		h.topology.UpdateFromInterfaces(interfaces)
	} else {
		log.Printf("Interface snapshot unavailable, serving stored graph: %v", err)
	}

	writeJSON(w, http.StatusOK, h.topology.Graph())
}

// Export serializes the topology in the requested diagram format.
func (h *TopologyHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	data, err := h.topology.Export(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	contentType := "application/json"
	if format == "dot" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *TopologyHandler) TrafficStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.topology.TrafficStats())
}

func (h *TopologyHandler) TrafficHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "interface")

	history := h.topology.TrafficHistory(name)
	if history == nil {
		history = []models.TrafficPoint{}
	}
	writeJSON(w, http.StatusOK, history)
}
