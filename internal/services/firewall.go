package services

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"netadmin/internal/models"
	"netadmin/internal/nft"
)

const (
	filterTable = "filter"
)

// FirewallService owns the authoritative rule batch for the inet filter
// table. Every initialization or rule mutation regenerates the whole
// batch from declared state; there is no incremental diffing, so applied
// and declared state cannot drift.
//
// The batch is mutated clone-then-replace under a mutex; the lock is
// released before the nft tool is invoked, so a slow tool call never
// blocks readers of the in-memory state. Two concurrent AddRule calls
// can interleave between clone and replace, in which case the later
// write wins; this race is accepted.
type FirewallService struct {
	mu         sync.Mutex
	batch      *nft.Batch
	rules      []models.FirewallRule
	nextHandle uint64

	store  *ConfigStore
	runner RulesetRunner
}

func NewFirewallService(store *ConfigStore, runner RulesetRunner) *FirewallService {
	return &FirewallService{
		batch:      nft.NewBatch(),
		nextHandle: 1,
		store:      store,
		runner:     runner,
	}
}

// Initialize rebuilds the ruleset from scratch: flush, table and base
// chains, baseline rules, then zone rules for the current declarations.
// Manually added rules do not survive reinitialization. The rebuilt
// batch replaces the stored one wholesale.
func (s *FirewallService) Initialize() error {
	log.Printf("Initializing nftables configuration")

	batch := s.buildBase(s.store.ZoneAssignments())

	s.mu.Lock()
	s.rules = nil
	s.nextHandle = 1
	s.batch = batch
	s.mu.Unlock()

	return s.applyIfAvailable(batch)
}

// AddRule appends one rule to the input/forward/output chain. The action
// must be "accept" or "drop" (case-insensitive); anything else fails with
// ErrUnsupportedAction and leaves the stored batch untouched. The
// returned handle references the rule for later deletion.
func (s *FirewallService) AddRule(input models.FirewallRuleInput) (uint64, error) {
	log.Printf("Adding firewall rule: chain=%s protocol=%s port=%v source=%v action=%s",
		input.Chain, input.Protocol, input.Port, input.Source, input.Action)

	exprs, err := ruleExprs(input)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	batch := s.batch.Clone()
	batch.Add(nft.AddRule{
		Family: nft.FamilyInet,
		Table:  filterTable,
		Chain:  input.Chain,
		Exprs:  exprs,
	})
	handle := s.nextHandle
	s.nextHandle++
	s.rules = append(s.rules, models.FirewallRule{Handle: handle, Input: input})
	s.batch = batch
	s.mu.Unlock()

	if err := s.applyIfAvailable(batch); err != nil {
		return 0, err
	}
	return handle, nil
}

// DeleteRule removes the rule carrying the given handle and reapplies
// the regenerated batch. Handles of rules discarded by Initialize are
// gone with them.
func (s *FirewallService) DeleteRule(handle uint64) error {
	zones := s.store.ZoneAssignments()

	s.mu.Lock()
	idx := -1
	for i, r := range s.rules {
		if r.Handle == handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: rule handle %d", ErrNotFound, handle)
	}
	s.rules = append(s.rules[:idx], s.rules[idx+1:]...)

	batch := s.buildBase(zones)
	for _, r := range s.rules {
		exprs, err := ruleExprs(r.Input)
		if err != nil {
			// Stored rules were validated on the way in.
			s.mu.Unlock()
			return err
		}
		batch.Add(nft.AddRule{
			Family: nft.FamilyInet,
			Table:  filterTable,
			Chain:  r.Input.Chain,
			Exprs:  exprs,
		})
	}
	s.batch = batch
	s.mu.Unlock()

	log.Printf("Deleted firewall rule handle %d", handle)
	return s.applyIfAvailable(batch)
}

// Rules returns the manually added rules with their handles.
func (s *FirewallService) Rules() []models.FirewallRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FirewallRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// CurrentRules prefers the live ruleset as the nft tool reports it and
// falls back to rendering the stored batch when the tool is unavailable.
// Callers cannot tell which of the two they received.
func (s *FirewallService) CurrentRules() []string {
	if s.runner.Available() {
		if out, err := s.runner.ListRuleset(); err == nil {
			return splitLines(out)
		} else {
			log.Printf("Live ruleset query failed, falling back to stored batch: %v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch.Lines()
}

// Apply renders a batch and hands it to the rule-application tool. On
// failure the previously applied ruleset remains live and the error
// carries the tool's diagnostic text.
func (s *FirewallService) Apply(batch *nft.Batch) error {
	if !s.runner.Available() {
		return fmt.Errorf("%w: nft tool not available", ErrApplication)
	}
	if err := s.runner.ApplyScript(batch.Render() + "\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrApplication, err)
	}
	return nil
}

func (s *FirewallService) applyIfAvailable(batch *nft.Batch) error {
	if !s.runner.Available() {
		log.Printf("nft tool not available, keeping ruleset in memory only")
		return nil
	}
	return s.Apply(batch)
}

// buildBase assembles the full-rebuild prefix: flush, table, hooked
// chains, baseline rules, then the per-zone templates.
func (s *FirewallService) buildBase(zones map[string][]string) *nft.Batch {
	batch := nft.NewBatch()

	batch.Add(nft.FlushTable{Family: nft.FamilyInet, Name: filterTable})
	batch.Add(nft.AddTable{Family: nft.FamilyInet, Name: filterTable})

	chains := []struct {
		name string
		spec string
	}{
		{"input", "type filter hook input priority 0; policy drop;"},
		{"forward", "type filter hook forward priority 0; policy drop;"},
		{"output", "type filter hook output priority 0; policy accept;"},
	}
	for _, c := range chains {
		batch.Add(nft.AddChain{Family: nft.FamilyInet, Table: filterTable, Name: c.name, Spec: c.spec})
	}

	// Baseline: connection tracking and loopback, ahead of any zone rule.
	batch.AddComment(inputRule(
		nft.Match{Op: "ct", Cmp: nft.Cmp{Op: "state", Data: nft.SetOf("established", "related")}},
		nft.Accept{},
	), "allow established/related")
	batch.AddComment(inputRule(
		nft.Match{Op: "meta", Cmp: nft.Cmp{Op: "iifname", Data: nft.Str("lo")}},
		nft.Accept{},
	), "allow loopback")

	names := make([]string, 0, len(zones))
	for zone := range zones {
		names = append(names, zone)
	}
	sort.Strings(names)

	for _, zone := range names {
		for _, iface := range zones[zone] {
			batch.AddComment(zoneRule(zone, iface), "zone "+zone)
		}
	}

	return batch
}

// zoneRule returns the input-chain rule the fixed template assigns to an
// interface: wan gets administrative SSH only, lan gets everything, any
// other label gets web ports only.
func zoneRule(zone, iface string) nft.AddRule {
	iifname := nft.Match{Op: "meta", Cmp: nft.Cmp{Op: "iifname", Data: nft.Str(iface)}}

	switch zone {
	case models.ZoneWAN:
		return inputRule(
			iifname,
			nft.Match{Op: "tcp", Cmp: nft.Cmp{Op: "dport", Data: nft.Num(22)}},
			nft.Accept{},
		)
	case models.ZoneLAN:
		return inputRule(iifname, nft.Accept{})
	default:
		return inputRule(
			iifname,
			nft.Match{Op: "tcp", Cmp: nft.Cmp{Op: "dport", Data: nft.SetOf("80", "443")}},
			nft.Accept{},
		)
	}
}

func inputRule(exprs ...nft.Expr) nft.AddRule {
	return nft.AddRule{
		Family: nft.FamilyInet,
		Table:  filterTable,
		Chain:  "input",
		Exprs:  exprs,
	}
}

// ruleExprs translates an administrator rule request into its expression
// list: protocol matcher, port matcher, source matcher, counter, verdict.
func ruleExprs(input models.FirewallRuleInput) ([]nft.Expr, error) {
	var exprs []nft.Expr

	if input.Protocol != "" && input.Protocol != "any" {
		exprs = append(exprs, nft.Match{
			Op:  "meta",
			Cmp: nft.Cmp{Op: "l4proto", Data: nft.Str(input.Protocol)},
		})
	}

	if input.Port != nil {
		proto := input.Protocol
		if proto == "" || proto == "any" {
			proto = "th"
		}
		exprs = append(exprs, nft.Match{
			Op:  proto,
			Cmp: nft.Cmp{Op: "dport", Data: nft.Num(uint64(*input.Port))},
		})
	}

	if input.Source != nil && *input.Source != "" {
		exprs = append(exprs, nft.Match{
			Op:  "ip",
			Cmp: nft.Cmp{Op: "saddr", Data: nft.Str(*input.Source)},
		})
	}

	exprs = append(exprs, nft.Counter{})

	switch strings.ToLower(input.Action) {
	case "accept":
		exprs = append(exprs, nft.Accept{})
	case "drop":
		exprs = append(exprs, nft.Drop{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, input.Action)
	}

	return exprs, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
