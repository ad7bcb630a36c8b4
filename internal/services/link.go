package services

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"netadmin/internal/models"

	"github.com/vishvananda/netlink"
)

// LinkService queries and mutates network interfaces through the kernel
// netlink channel. Nothing is cached: every call re-queries the kernel.
type LinkService struct {
	nl Netlinker
}

func NewLinkService(nl Netlinker) *LinkService {
	return &LinkService{nl: nl}
}

// ListInterfaces enumerates every interface known to the kernel together
// with its addresses, up/down state and hardware address.
func (s *LinkService) ListInterfaces() ([]models.InterfaceInfo, error) {
	links, err := s.nl.LinkList()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list links: %v", ErrProtocol, err)
	}

	interfaces := make([]models.InterfaceInfo, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()

		info := models.InterfaceInfo{
			Name: attrs.Name,
			IsUp: attrs.OperState == netlink.OperUp || attrs.Flags&net.FlagUp != 0,
		}

		if attrs.HardwareAddr != nil {
			info.MACAddress = attrs.HardwareAddr.String()
		}

		addrs, err := s.nl.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list addresses for %s: %v", ErrProtocol, attrs.Name, err)
		}
		for _, addr := range addrs {
			info.Addresses = append(info.Addresses, addr.IPNet.String())
		}

		interfaces = append(interfaces, info)
	}

	return interfaces, nil
}

// ResolveIndex returns the kernel index for a named interface.
func (s *LinkService) ResolveIndex(name string) (int, error) {
	link, err := s.resolveLink(name)
	if err != nil {
		return 0, err
	}
	return link.Attrs().Index, nil
}

// SetUp brings an interface up. Bringing up an already-up interface is a
// no-op at the kernel level.
func (s *LinkService) SetUp(name string) error {
	link, err := s.resolveLink(name)
	if err != nil {
		return err
	}
	if err := s.nl.LinkSetUp(link); err != nil {
		return fmt.Errorf("%w: failed to bring %s up: %v", ErrProtocol, name, err)
	}
	return nil
}

// ConfigureAddress replaces the address set of an interface with the one
// given address. Every existing address is deleted first: declared state
// wins, any previously configured address is lost.
func (s *LinkService) ConfigureAddress(name, cidr string) error {
	// Validate before touching the kernel.
	if err := validateCIDR(cidr); err != nil {
		return err
	}

	link, err := s.resolveLink(name)
	if err != nil {
		return err
	}

	addr, err := s.nl.ParseAddr(cidr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAddress, cidr, err)
	}

	existing, err := s.nl.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return fmt.Errorf("%w: failed to list addresses for %s: %v", ErrProtocol, name, err)
	}
	for i := range existing {
		if err := s.nl.AddrDel(link, &existing[i]); err != nil {
			return fmt.Errorf("%w: failed to delete %s from %s: %v", ErrProtocol, existing[i].IPNet, name, err)
		}
	}

	if err := s.nl.AddrAdd(link, addr); err != nil {
		return fmt.Errorf("%w: failed to add %s to %s: %v", ErrProtocol, cidr, name, err)
	}

	return nil
}

// SetupInterface applies one declared interface configuration: bring the
// link up, then set the static address unless the interface is on DHCP.
func (s *LinkService) SetupInterface(cfg models.InterfaceConfig) error {
	log.Printf("Setting up interface %s", cfg.Name)

	if err := s.SetUp(cfg.Name); err != nil {
		return err
	}

	if cfg.Address != nil && (cfg.DHCP == nil || !*cfg.DHCP) {
		if err := s.ConfigureAddress(cfg.Name, *cfg.Address); err != nil {
			return err
		}
		log.Printf("Configured address %s on interface %s", *cfg.Address, cfg.Name)
	}

	return nil
}

func (s *LinkService) resolveLink(name string) (netlink.Link, error) {
	link, err := s.nl.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: interface %s: %v", ErrNotFound, name, err)
	}
	return link, nil
}

// validateCIDR rejects anything that is not exactly "ip/prefix" with a
// parsable address and prefix length.
func validateCIDR(cidr string) error {
	parts := strings.Split(cidr, "/")
	if len(parts) != 2 {
		return fmt.Errorf("%w: expected IP/PREFIX, got %q", ErrInvalidAddress, cidr)
	}

	ip := net.ParseIP(parts[0])
	if ip == nil {
		return fmt.Errorf("%w: invalid IP %q", ErrInvalidAddress, parts[0])
	}

	prefix, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("%w: invalid prefix length %q", ErrInvalidAddress, parts[1])
	}
	max := 32
	if ip.To4() == nil {
		max = 128
	}
	if prefix < 0 || prefix > max {
		return fmt.Errorf("%w: prefix length %d out of range", ErrInvalidAddress, prefix)
	}

	return nil
}
