package services

import (
	"errors"
	"testing"

	"netadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInterfaces(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 2, true, "aa:bb:cc:dd:ee:ff")
	fake.addLink("lo", 1, true, "")
	fake.addAddr("eth0", "192.168.1.1/24")
	fake.addAddr("eth0", "10.0.0.1/8")

	svc := NewLinkService(fake)
	interfaces, err := svc.ListInterfaces()
	require.NoError(t, err)
	require.Len(t, interfaces, 2)

	eth0 := interfaces[0]
	assert.Equal(t, "eth0", eth0.Name)
	assert.True(t, eth0.IsUp)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", eth0.MACAddress)
	assert.Equal(t, []string{"192.168.1.1/24", "10.0.0.1/8"}, eth0.Addresses)

	lo := interfaces[1]
	assert.Equal(t, "lo", lo.Name)
	assert.Empty(t, lo.Addresses)
}

func TestListInterfacesProtocolError(t *testing.T) {
	fake := newFakeNetlinker()
	fake.linkListErr = errors.New("netlink receive: connection refused")

	svc := NewLinkService(fake)
	_, err := svc.ListInterfaces()
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestResolveIndex(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 7, false, "")

	svc := NewLinkService(fake)

	index, err := svc.ResolveIndex("eth0")
	require.NoError(t, err)
	assert.Equal(t, 7, index)

	_, err = svc.ResolveIndex("eth9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUp(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 2, false, "")

	svc := NewLinkService(fake)
	require.NoError(t, svc.SetUp("eth0"))
	assert.Equal(t, []string{"eth0"}, fake.upCalls)

	// Idempotent at this layer: a second call just re-issues the request.
	require.NoError(t, svc.SetUp("eth0"))
	assert.Equal(t, []string{"eth0", "eth0"}, fake.upCalls)

	assert.ErrorIs(t, svc.SetUp("missing"), ErrNotFound)
}

func TestConfigureAddressFullReplace(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 2, true, "")
	fake.addAddr("eth0", "192.168.1.1/24")
	fake.addAddr("eth0", "172.16.0.1/12")

	svc := NewLinkService(fake)
	require.NoError(t, svc.ConfigureAddress("eth0", "10.1.2.3/24"))

	interfaces, err := svc.ListInterfaces()
	require.NoError(t, err)
	require.Len(t, interfaces, 1)
	assert.Equal(t, []string{"10.1.2.3/24"}, interfaces[0].Addresses)
}

func TestConfigureAddressInvalid(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 2, true, "")

	svc := NewLinkService(fake)

	tests := []string{
		"not-an-ip/24",
		"192.168.1.1",
		"192.168.1.1/24/extra",
		"192.168.1.1/99",
		"192.168.1.1/x",
	}
	for _, cidr := range tests {
		err := svc.ConfigureAddress("eth0", cidr)
		assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", cidr)
	}

	// Validation failures must not touch the kernel.
	assert.Zero(t, fake.mutations)
}

func TestConfigureAddressMissingInterface(t *testing.T) {
	fake := newFakeNetlinker()

	svc := NewLinkService(fake)
	assert.ErrorIs(t, svc.ConfigureAddress("eth0", "10.0.0.1/24"), ErrNotFound)
}

func TestConfigureAddressKernelRejection(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 2, true, "")
	fake.addrAddErr = errors.New("permission denied")

	svc := NewLinkService(fake)
	assert.ErrorIs(t, svc.ConfigureAddress("eth0", "10.0.0.1/24"), ErrProtocol)
}

func TestSetupInterface(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth1", 3, false, "")
	fake.addAddr("eth1", "192.168.5.1/24")

	addr := "192.168.1.1/24"
	svc := NewLinkService(fake)
	require.NoError(t, svc.SetupInterface(models.InterfaceConfig{Name: "eth1", Address: &addr}))

	assert.Equal(t, []string{"eth1"}, fake.upCalls)
	interfaces, err := svc.ListInterfaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.1/24"}, interfaces[0].Addresses)
}

func TestSetupInterfaceDHCPSkipsStaticAddress(t *testing.T) {
	fake := newFakeNetlinker()
	fake.addLink("eth0", 2, false, "")

	dhcp := true
	addr := "192.168.1.1/24"
	svc := NewLinkService(fake)
	require.NoError(t, svc.SetupInterface(models.InterfaceConfig{Name: "eth0", DHCP: &dhcp, Address: &addr}))

	assert.Equal(t, []string{"eth0"}, fake.upCalls)
	assert.Zero(t, fake.mutations)
}
