package models

// FirewallRuleInput is one administrator-requested rule for the filter
// table. Port and Source are optional; Action must be "accept" or "drop".
type FirewallRuleInput struct {
	Chain    string  `json:"chain"`
	Protocol string  `json:"protocol"`
	Port     *uint16 `json:"port,omitempty"`
	Source   *string `json:"source,omitempty"`
	Action   string  `json:"action"`
}

// FirewallRule is an installed rule together with the handle assigned to
// it at install time, used to reference it for deletion.
type FirewallRule struct {
	Handle uint64            `json:"handle"`
	Input  FirewallRuleInput `json:"rule"`
}

// Zone labels with fixed rule templates. Any other label receives the
// web-only template.
const (
	ZoneWAN = "wan"
	ZoneLAN = "lan"
)
