package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"netadmin/internal/database"
	"netadmin/internal/models"
	"netadmin/internal/services"

	"github.com/go-chi/chi/v5"
)

type FirewallHandler struct {
	firewall *services.FirewallService
	db       *database.DB
}

func NewFirewallHandler(firewall *services.FirewallService, db *database.DB) *FirewallHandler {
	return &FirewallHandler{firewall: firewall, db: db}
}

// GetRules returns the current ruleset, one rule-language line per entry.
func (h *FirewallHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	lines := h.firewall.CurrentRules()
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, lines)
}

type addRuleResponse struct {
	Handle  uint64 `json:"handle"`
	Message string `json:"message"`
}

func (h *FirewallHandler) AddRule(w http.ResponseWriter, r *http.Request) {
	var input models.FirewallRuleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if input.Chain == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "chain is required"})
		return
	}

	handle, err := h.firewall.AddRule(input)
	if err != nil {
		log.Printf("Failed to add firewall rule: %v", err)
		writeError(w, err)
		return
	}

	h.logAction("firewall_add_rule", "Chain: "+input.Chain+", Action: "+input.Action)
	writeJSON(w, http.StatusCreated, addRuleResponse{Handle: handle, Message: "Firewall rule added successfully"})
}

func (h *FirewallHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	handleStr := chi.URLParam(r, "handle")
	handle, err := strconv.ParseUint(handleStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rule handle"})
		return
	}

	if err := h.firewall.DeleteRule(handle); err != nil {
		log.Printf("Failed to delete firewall rule %d: %v", handle, err)
		writeError(w, err)
		return
	}

	h.logAction("firewall_delete_rule", "Handle: "+handleStr)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Firewall rule deleted successfully"})
}

func (h *FirewallHandler) logAction(action, details string) {
	if h.db == nil {
		return
	}
	if err := h.db.LogAction(action, details); err != nil {
		log.Printf("Failed to record action %s: %v", action, err)
	}
}
