package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"netadmin/internal/database"
	"netadmin/internal/models"
	"netadmin/internal/services"

	"github.com/go-chi/chi/v5"
)

type InterfacesHandler struct {
	links    *services.LinkService
	store    *services.ConfigStore
	topology *services.TopologyService
	db       *database.DB
}

func NewInterfacesHandler(links *services.LinkService, store *services.ConfigStore, topology *services.TopologyService, db *database.DB) *InterfacesHandler {
	return &InterfacesHandler{links: links, store: store, topology: topology, db: db}
}

// List returns a fresh kernel snapshot of every interface.
func (h *InterfacesHandler) List(w http.ResponseWriter, r *http.Request) {
	interfaces, err := h.links.ListInterfaces()
	if err != nil {
		log.Printf("Failed to list interfaces: %v", err)
		writeError(w, err)
		return
	}

	h.topology.UpdateFromInterfaces(interfaces)

	writeJSON(w, http.StatusOK, interfaces)
}

type setupRequest struct {
	DHCP    *bool   `json:"dhcp,omitempty"`
	Address *string `json:"address,omitempty"`
	Zone    *string `json:"zone,omitempty"`
}

// Setup declares one interface configuration and applies it: bring the
// link up and set the static address if one is declared. The firewall
// path is not touched here; zone changes take effect on the next
// ruleset initialization.
func (h *InterfacesHandler) Setup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "interface")

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cfg := models.InterfaceConfig{
		Name:    name,
		DHCP:    req.DHCP,
		Address: req.Address,
		Zone:    req.Zone,
	}

	if err := h.store.Upsert(cfg); err != nil {
		log.Printf("Failed to store interface config: %v", err)
		writeError(w, err)
		return
	}

	if err := h.links.SetupInterface(cfg); err != nil {
		log.Printf("Failed to configure interface %s: %v", name, err)
		writeError(w, err)
		return
	}

	h.logAction("interface_setup", "Interface: "+name)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Interface configured successfully"})
}

func (h *InterfacesHandler) logAction(action, details string) {
	if h.db == nil {
		return
	}
	if err := h.db.LogAction(action, details); err != nil {
		log.Printf("Failed to record action %s: %v", action, err)
	}
}
