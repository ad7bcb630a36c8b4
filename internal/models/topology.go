package models

import "time"

type NodeType string

const (
	NodeRouter   NodeType = "router"
	NodeSwitch   NodeType = "switch"
	NodeWireless NodeType = "wireless"
	NodeClient   NodeType = "client"
)

type LinkType string

const (
	LinkEthernet LinkType = "ethernet"
)

// TopologyNode is one vertex of the network graph.
type TopologyNode struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       NodeType          `json:"type"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Properties map[string]string `json:"properties"`
}

// TopologyLink is one edge of the network graph.
type TopologyLink struct {
	ID       string   `json:"id"`
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Type     LinkType `json:"type"`
}

// TopologyGraph is the node/edge description consumed by the external
// visualization component.
type TopologyGraph struct {
	Nodes []TopologyNode `json:"nodes"`
	Links []TopologyLink `json:"links"`
}

// TrafficPoint is one historical traffic sample for an interface.
type TrafficPoint struct {
	Timestamp time.Time `json:"timestamp"`
	RxBytes   uint64    `json:"rx_bytes"`
	TxBytes   uint64    `json:"tx_bytes"`
}

// TrafficStats is the current counter snapshot plus bounded history for
// one interface.
type TrafficStats struct {
	Name      string         `json:"name"`
	RxBytes   uint64         `json:"rx_bytes"`
	TxBytes   uint64         `json:"tx_bytes"`
	RxPackets uint64         `json:"rx_packets"`
	TxPackets uint64         `json:"tx_packets"`
	Timestamp time.Time      `json:"timestamp"`
	History   []TrafficPoint `json:"history"`
}
