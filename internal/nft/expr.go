package nft

import (
	"strconv"
	"strings"
)

// Family is an nftables address family.
type Family string

const (
	FamilyIP     Family = "ip"
	FamilyIP6    Family = "ip6"
	FamilyInet   Family = "inet"
	FamilyARP    Family = "arp"
	FamilyBridge Family = "bridge"
	FamilyNetdev Family = "netdev"
)

// Expr is a single element of a rule. Expressions render in evaluation
// order, left to right, and are joined with single spaces.
type Expr interface {
	render() string
}

// Operand is the right-hand side of a comparison: a scalar, a string or
// an anonymous set.
type Operand struct {
	set []string
	str string
	num uint64
}

// Str returns a string operand, rendered verbatim.
func Str(s string) Operand {
	return Operand{str: s}
}

// Num returns a numeric operand.
func Num(n uint64) Operand {
	return Operand{num: n}
}

// SetOf returns an anonymous set operand, rendered as "{ a, b }".
func SetOf(items ...string) Operand {
	return Operand{set: items}
}

func (o Operand) render() string {
	if o.set != nil {
		return "{ " + strings.Join(o.set, ", ") + " }"
	}
	if o.str != "" {
		return o.str
	}
	return strconv.FormatUint(o.num, 10)
}

// Cmp compares a selected field against an operand, e.g. "dport 22" or
// "state { established, related }".
type Cmp struct {
	Op   string
	Data Operand
}

func (c Cmp) render() string {
	return c.Op + " " + c.Data.render()
}

// Match selects a protocol or meta field and wraps the comparison applied
// to it, e.g. Match{Op: "tcp", Cmp: Cmp{Op: "dport", Data: Num(22)}}.
type Match struct {
	Op  string
	Cmp Cmp
}

func (m Match) render() string {
	return m.Op + " " + m.Cmp.render()
}

// Accept is the accept verdict.
type Accept struct{}

func (Accept) render() string { return "accept" }

// Drop is the drop verdict.
type Drop struct{}

func (Drop) render() string { return "drop" }

// Counter counts packets and bytes matching the rule.
type Counter struct{}

func (Counter) render() string { return "counter" }
