package nft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementRendering(t *testing.T) {
	tests := []struct {
		name string
		stmt Stmt
		want string
	}{
		{
			name: "add table",
			stmt: AddTable{Family: FamilyInet, Name: "filter"},
			want: "add table inet filter",
		},
		{
			name: "add chain with hook clause",
			stmt: AddChain{Family: FamilyInet, Table: "filter", Name: "input",
				Spec: "type filter hook input priority 0; policy drop;"},
			want: "add chain inet filter input { type filter hook input priority 0; policy drop; }",
		},
		{
			name: "add chain without hook clause",
			stmt: AddChain{Family: FamilyIP, Table: "filter", Name: "logdrop"},
			want: "add chain ip filter logdrop",
		},
		{
			name: "flush table",
			stmt: FlushTable{Family: FamilyInet, Name: "filter"},
			want: "flush table inet filter",
		},
		{
			name: "flush chain",
			stmt: FlushChain{Family: FamilyIP6, Table: "filter", Name: "input"},
			want: "flush chain ip6 filter input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stmt.Render())
		})
	}
}

func TestRuleRendering(t *testing.T) {
	rule := AddRule{
		Family: FamilyInet,
		Table:  "filter",
		Chain:  "input",
		Exprs: []Expr{
			Match{Op: "meta", Cmp: Cmp{Op: "iifname", Data: Str("eth0")}},
			Match{Op: "tcp", Cmp: Cmp{Op: "dport", Data: Num(22)}},
			Counter{},
			Accept{},
		},
	}

	assert.Equal(t, "add rule inet filter input meta iifname eth0 tcp dport 22 counter accept", rule.Render())
}

func TestSetOperandRendering(t *testing.T) {
	rule := AddRule{
		Family: FamilyInet,
		Table:  "filter",
		Chain:  "input",
		Exprs: []Expr{
			Match{Op: "ct", Cmp: Cmp{Op: "state", Data: SetOf("established", "related")}},
			Accept{},
		},
	}

	assert.Equal(t, "add rule inet filter input ct state { established, related } accept", rule.Render())
}

func TestDropRendering(t *testing.T) {
	rule := AddRule{
		Family: FamilyInet,
		Table:  "filter",
		Chain:  "input",
		Exprs: []Expr{
			Match{Op: "ip", Cmp: Cmp{Op: "saddr", Data: Str("10.0.0.0/8")}},
			Counter{},
			Drop{},
		},
	}

	assert.Equal(t, "add rule inet filter input ip saddr 10.0.0.0/8 counter drop", rule.Render())
}

func TestBatchRendersOneLinePerStatement(t *testing.T) {
	b := NewBatch()
	b.Add(FlushTable{Family: FamilyInet, Name: "filter"})
	b.Add(AddTable{Family: FamilyInet, Name: "filter"})
	b.AddComment(AddChain{Family: FamilyInet, Table: "filter", Name: "input",
		Spec: "type filter hook input priority 0; policy drop;"}, "base chain")

	lines := b.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "flush table inet filter", lines[0])
	assert.Equal(t, "add table inet filter", lines[1])
	assert.Equal(t, "add chain inet filter input { type filter hook input priority 0; policy drop; } # base chain", lines[2])
}

func TestRenderDeterministic(t *testing.T) {
	b := NewBatch()
	b.Add(FlushTable{Family: FamilyInet, Name: "filter"})
	b.Add(AddTable{Family: FamilyInet, Name: "filter"})
	b.Add(AddRule{Family: FamilyInet, Table: "filter", Chain: "input", Exprs: []Expr{
		Match{Op: "ct", Cmp: Cmp{Op: "state", Data: SetOf("established", "related")}},
		Accept{},
	}})

	first := b.Render()
	second := b.Render()
	assert.Equal(t, first, second)
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBatch()
	b.Add(AddTable{Family: FamilyInet, Name: "filter"})

	c := b.Clone()
	c.Add(FlushTable{Family: FamilyInet, Name: "filter"})

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 2, c.Len())
	assert.NotEqual(t, b.Render(), c.Render())
}
