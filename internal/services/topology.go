package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"netadmin/internal/models"

	"github.com/google/uuid"
)

const (
	routerNodeID = "router-main"

	// Bound on per-interface history to keep memory flat.
	maxHistoryPoints = 1000

	trafficSampleInterval = 10 * time.Second
)

// TopologyService maintains the in-memory node/edge graph derived from
// interface snapshots and samples per-interface traffic counters in the
// background. The graph serializes to JSON or Graphviz DOT for the
// external visualization component.
type TopologyService struct {
	mu    sync.Mutex
	graph models.TopologyGraph
	stats map[string]*models.TrafficStats

	procNetDev string
	now        func() time.Time
}

func NewTopologyService() *TopologyService {
	return &TopologyService{
		stats:      make(map[string]*models.TrafficStats),
		procNetDev: "/proc/net/dev",
		now:        time.Now,
	}
}

// UpdateFromInterfaces rebuilds graph nodes and links from a fresh
// interface snapshot. A central router node anchors one node and one
// link per interface, laid out on a circle.
func (s *TopologyService) UpdateFromInterfaces(interfaces []models.InterfaceInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasNode(routerNodeID) {
		s.graph.Nodes = append(s.graph.Nodes, models.TopologyNode{
			ID:         routerNodeID,
			Name:       "Main Router",
			Type:       models.NodeRouter,
			Properties: map[string]string{},
		})
	}

	for i, iface := range interfaces {
		nodeID := "interface-" + iface.Name

		if !s.hasNode(nodeID) {
			angle := 2 * math.Pi * float64(i) / float64(len(interfaces))
			const distance = 100.0

			s.graph.Nodes = append(s.graph.Nodes, models.TopologyNode{
				ID:   nodeID,
				Name: iface.Name,
				Type: nodeTypeFor(iface.Name),
				X:    distance * math.Cos(angle),
				Y:    distance * math.Sin(angle),
				Properties: map[string]string{
					"mac_address": iface.MACAddress,
				},
			})
			s.graph.Links = append(s.graph.Links, models.TopologyLink{
				ID:       uuid.NewString(),
				SourceID: routerNodeID,
				TargetID: nodeID,
				Type:     models.LinkEthernet,
			})
		}

		for j := range s.graph.Nodes {
			if s.graph.Nodes[j].ID != nodeID {
				continue
			}
			s.graph.Nodes[j].Properties["is_up"] = strconv.FormatBool(iface.IsUp)
			for k, addr := range iface.Addresses {
				s.graph.Nodes[j].Properties[fmt.Sprintf("ip_address_%d", k)] = addr
			}
		}
	}
}

// Graph returns a deep copy of the current topology graph.
func (s *TopologyService) Graph() models.TopologyGraph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyGraphLocked()
}

// Export serializes the graph as "json" (node/edge description) or
// "dot" (Graphviz digraph).
func (s *TopologyService) Export(format string) ([]byte, error) {
	s.mu.Lock()
	graph := s.copyGraphLocked()
	s.mu.Unlock()

	switch format {
	case "json":
		data, err := json.MarshalIndent(graph, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize graph: %w", err)
		}
		return data, nil
	case "dot":
		var buf bytes.Buffer
		buf.WriteString("digraph network {\n")
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  node [shape=box, style=filled, fillcolor=lightblue];\n\n")
		for _, node := range graph.Nodes {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", node.ID, node.Name+" ("+string(node.Type)+")")
		}
		for _, link := range graph.Links {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", link.SourceID, link.TargetID, string(link.Type))
		}
		buf.WriteString("}\n")
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported diagram format: %q", format)
	}
}

// StartTrafficMonitoring samples interface counters every ten seconds
// until the context is cancelled.
func (s *TopologyService) StartTrafficMonitoring(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(trafficSampleInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.CollectTrafficStats(); err != nil {
					log.Printf("Failed to collect traffic stats: %v", err)
				}
			}
		}
	}()
}

// CollectTrafficStats reads one /proc/net/dev snapshot and rolls the
// previous values into each interface's bounded history.
func (s *TopologyService) CollectTrafficStats() error {
	data, err := os.ReadFile(s.procNetDev)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.procNetDev, err)
	}

	now := s.now()
	lines := strings.Split(string(data), "\n")

	s.mu.Lock()
	defer s.mu.Unlock()

	// First two lines are headers.
	for _, line := range lines[min(2, len(lines)):] {
		fields := strings.Fields(line)
		if len(fields) < 17 {
			continue
		}

		name := strings.TrimSuffix(fields[0], ":")
		rxBytes, _ := strconv.ParseUint(fields[1], 10, 64)
		rxPackets, _ := strconv.ParseUint(fields[2], 10, 64)
		txBytes, _ := strconv.ParseUint(fields[9], 10, 64)
		txPackets, _ := strconv.ParseUint(fields[10], 10, 64)

		entry, ok := s.stats[name]
		if !ok {
			entry = &models.TrafficStats{Name: name, Timestamp: now}
			s.stats[name] = entry
		}

		entry.History = append(entry.History, models.TrafficPoint{
			Timestamp: entry.Timestamp,
			RxBytes:   entry.RxBytes,
			TxBytes:   entry.TxBytes,
		})
		if len(entry.History) > maxHistoryPoints {
			entry.History = entry.History[len(entry.History)-maxHistoryPoints:]
		}

		entry.RxBytes = rxBytes
		entry.TxBytes = txBytes
		entry.RxPackets = rxPackets
		entry.TxPackets = txPackets
		entry.Timestamp = now
	}

	return nil
}

// TrafficStats returns a copy of the current per-interface counters.
func (s *TopologyService) TrafficStats() map[string]models.TrafficStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.TrafficStats, len(s.stats))
	for name, entry := range s.stats {
		cp := *entry
		cp.History = append([]models.TrafficPoint(nil), entry.History...)
		out[name] = cp
	}
	return out
}

// TrafficHistory returns the recorded samples for one interface, oldest
// first. Unknown interfaces yield an empty history.
func (s *TopologyService) TrafficHistory(name string) []models.TrafficPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.stats[name]
	if !ok {
		return nil
	}
	return append([]models.TrafficPoint(nil), entry.History...)
}

func (s *TopologyService) hasNode(id string) bool {
	for _, n := range s.graph.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func (s *TopologyService) copyGraphLocked() models.TopologyGraph {
	graph := models.TopologyGraph{
		Nodes: make([]models.TopologyNode, len(s.graph.Nodes)),
		Links: append([]models.TopologyLink(nil), s.graph.Links...),
	}
	for i, node := range s.graph.Nodes {
		props := make(map[string]string, len(node.Properties))
		for k, v := range node.Properties {
			props[k] = v
		}
		node.Properties = props
		graph.Nodes[i] = node
	}
	// Node order is insertion order; keep exports stable regardless.
	sort.SliceStable(graph.Nodes, func(i, j int) bool {
		return graph.Nodes[i].ID < graph.Nodes[j].ID
	})
	return graph
}

func nodeTypeFor(name string) models.NodeType {
	switch {
	case strings.HasPrefix(name, "eth"):
		return models.NodeSwitch
	case strings.HasPrefix(name, "wlan"):
		return models.NodeWireless
	default:
		return models.NodeClient
	}
}
