package models

// InterfaceConfig is the administrator-declared intent for one interface.
// The stored set is replaced wholesale on reload; there is no partial merge.
type InterfaceConfig struct {
	Name    string  `json:"name"`
	DHCP    *bool   `json:"dhcp,omitempty"`
	Address *string `json:"address,omitempty"` // static address as "ip/prefix"
	Zone    *string `json:"zone,omitempty"`
}

// InterfaceInfo is observed kernel state: a point-in-time snapshot, never
// cached between queries.
type InterfaceInfo struct {
	Name       string   `json:"name"`
	Addresses  []string `json:"addresses"` // each "ip/prefix", kernel order
	IsUp       bool     `json:"is_up"`
	MACAddress string   `json:"mac_address"`
}

// InterfaceStats are cumulative counters sampled from /proc/net/dev.
type InterfaceStats struct {
	RxBytes   uint64 `json:"rx_bytes"`
	TxBytes   uint64 `json:"tx_bytes"`
	RxPackets uint64 `json:"rx_packets"`
	TxPackets uint64 `json:"tx_packets"`
}
