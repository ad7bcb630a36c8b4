package services

import (
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/vishvananda/netlink"
)

// fakeLink is a minimal netlink.Link for tests.
type fakeLink struct {
	attrs netlink.LinkAttrs
}

func (l *fakeLink) Attrs() *netlink.LinkAttrs { return &l.attrs }
func (l *fakeLink) Type() string              { return "dummy" }

// fakeNetlinker is a stateful in-memory kernel: links with addresses,
// mutated through the same capability interface the real service uses.
type fakeNetlinker struct {
	links map[string]*fakeLink
	addrs map[string][]netlink.Addr

	upCalls   []string
	mutations int

	linkListErr error
	addrListErr error
	addrAddErr  error
}

func newFakeNetlinker() *fakeNetlinker {
	return &fakeNetlinker{
		links: make(map[string]*fakeLink),
		addrs: make(map[string][]netlink.Addr),
	}
}

func (f *fakeNetlinker) addLink(name string, index int, up bool, mac string) {
	attrs := netlink.NewLinkAttrs()
	attrs.Name = name
	attrs.Index = index
	if up {
		attrs.OperState = netlink.OperUp
	} else {
		attrs.OperState = netlink.OperDown
	}
	if mac != "" {
		hw, err := net.ParseMAC(mac)
		if err == nil {
			attrs.HardwareAddr = hw
		}
	}
	f.links[name] = &fakeLink{attrs: attrs}
}

func (f *fakeNetlinker) addAddr(name, cidr string) {
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		panic(fmt.Sprintf("bad test address %q: %v", cidr, err))
	}
	f.addrs[name] = append(f.addrs[name], *addr)
}

func (f *fakeNetlinker) LinkList() ([]netlink.Link, error) {
	if f.linkListErr != nil {
		return nil, f.linkListErr
	}
	names := make([]string, 0, len(f.links))
	for name := range f.links {
		names = append(names, name)
	}
	sort.Strings(names)
	links := make([]netlink.Link, 0, len(names))
	for _, name := range names {
		links = append(links, f.links[name])
	}
	return links, nil
}

func (f *fakeNetlinker) LinkByName(name string) (netlink.Link, error) {
	link, ok := f.links[name]
	if !ok {
		return nil, errors.New("Link not found")
	}
	return link, nil
}

func (f *fakeNetlinker) LinkSetUp(link netlink.Link) error {
	name := link.Attrs().Name
	f.upCalls = append(f.upCalls, name)
	f.links[name].attrs.OperState = netlink.OperUp
	return nil
}

func (f *fakeNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	if f.addrListErr != nil {
		return nil, f.addrListErr
	}
	return append([]netlink.Addr(nil), f.addrs[link.Attrs().Name]...), nil
}

func (f *fakeNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	if f.addrAddErr != nil {
		return f.addrAddErr
	}
	f.mutations++
	name := link.Attrs().Name
	f.addrs[name] = append(f.addrs[name], *addr)
	return nil
}

func (f *fakeNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	f.mutations++
	name := link.Attrs().Name
	kept := f.addrs[name][:0]
	for _, a := range f.addrs[name] {
		if a.IPNet.String() != addr.IPNet.String() {
			kept = append(kept, a)
		}
	}
	f.addrs[name] = kept
	return nil
}

func (f *fakeNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	return netlink.ParseAddr(s)
}

// fakeRunner stands in for the nft tool.
type fakeRunner struct {
	available bool
	applied   []string
	applyErr  error
	ruleset   string
	listErr   error
}

func (f *fakeRunner) Available() bool { return f.available }

func (f *fakeRunner) ApplyScript(script string) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, script)
	return nil
}

func (f *fakeRunner) ListRuleset() (string, error) {
	if f.listErr != nil {
		return "", f.listErr
	}
	return f.ruleset, nil
}
