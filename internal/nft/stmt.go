package nft

import "strings"

// Stmt is one batch statement. Every statement renders to exactly one
// line of nft rule language.
type Stmt interface {
	Render() string
}

// AddTable creates a table scoped to a family.
type AddTable struct {
	Family Family
	Name   string
}

func (s AddTable) Render() string {
	return "add table " + string(s.Family) + " " + s.Name
}

// AddChain creates a chain inside a table. Spec, when set, carries the
// hook/priority/policy clause (e.g. "type filter hook input priority 0;
// policy drop;"); chains without it are plain jump targets.
type AddChain struct {
	Family Family
	Table  string
	Name   string
	Spec   string
}

func (s AddChain) Render() string {
	line := "add chain " + string(s.Family) + " " + s.Table + " " + s.Name
	if s.Spec != "" {
		line += " { " + s.Spec + " }"
	}
	return line
}

// AddRule appends a rule to a chain. Expression order is significant:
// expressions evaluate left to right and rule order within the chain
// decides first-match behavior.
type AddRule struct {
	Family Family
	Table  string
	Chain  string
	Exprs  []Expr
}

func (s AddRule) Render() string {
	parts := make([]string, 0, len(s.Exprs)+1)
	parts = append(parts, "add rule "+string(s.Family)+" "+s.Table+" "+s.Chain)
	for _, e := range s.Exprs {
		parts = append(parts, e.render())
	}
	return strings.Join(parts, " ")
}

// FlushTable discards every chain and rule in a table.
type FlushTable struct {
	Family Family
	Name   string
}

func (s FlushTable) Render() string {
	return "flush table " + string(s.Family) + " " + s.Name
}

// FlushChain discards every rule in a chain.
type FlushChain struct {
	Family Family
	Table  string
	Name   string
}

func (s FlushChain) Render() string {
	return "flush chain " + string(s.Family) + " " + s.Table + " " + s.Name
}
