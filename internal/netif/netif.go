// Package netif holds the network interfaces the daemon answers on and picks,
// per client, the local address that client can reach.
package netif

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// Interface is one local IPv4 address and its subnet mask.
type Interface struct {
	Name string // OS interface name, empty when configured as addr/mask
	Addr netip.Addr
	Mask net.IPMask
}

// Contains reports whether ip is on the same subnet as the interface.
func (i Interface) Contains(ip netip.Addr) bool {
	ip = ip.Unmap()
	if !ip.Is4() || !i.Addr.Is4() || len(i.Mask) != net.IPv4len {
		return false
	}
	m := binary.BigEndian.Uint32(i.Mask)
	return addrToUint32(i.Addr)&m == addrToUint32(ip)&m
}

// PrefixLen returns the mask length in bits.
func (i Interface) PrefixLen() int {
	ones, _ := i.Mask.Size()
	return ones
}

func (i Interface) String() string {
	s := fmt.Sprintf("%s/%d", i.Addr, i.PrefixLen())
	if i.Name != "" {
		s = i.Name + "(" + s + ")"
	}
	return s
}

func addrToUint32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

// interfaceAddrs is swapped out in tests.
var interfaceAddrs = func(name string) ([]net.Addr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	return iface.Addrs()
}

// Parse builds an Interface from a configuration value. Accepted forms:
//
//	eth0                      OS interface, first IPv4 address is used
//	192.168.1.10/24           address with prefix length
//	192.168.1.10/255.255.255.0 address with dotted mask
func Parse(spec string) (Interface, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Interface{}, errors.New("empty interface specification")
	}

	addrPart, maskPart, hasMask := strings.Cut(spec, "/")
	if !hasMask {
		return lookup(spec)
	}

	addr, err := netip.ParseAddr(addrPart)
	if err != nil {
		return Interface{}, fmt.Errorf("parse interface address %q: %w", addrPart, err)
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return Interface{}, fmt.Errorf("interface address %q is not IPv4", addrPart)
	}

	mask, err := parseMask(maskPart)
	if err != nil {
		return Interface{}, fmt.Errorf("parse interface mask %q: %w", maskPart, err)
	}
	return Interface{Addr: addr, Mask: mask}, nil
}

func parseMask(s string) (net.IPMask, error) {
	if bits, err := strconv.Atoi(s); err == nil {
		if bits < 0 || bits > 32 {
			return nil, fmt.Errorf("prefix length %d out of range", bits)
		}
		return net.CIDRMask(bits, 32), nil
	}

	ip, err := netip.ParseAddr(s)
	if err != nil || !ip.Is4() {
		return nil, errors.New("not a prefix length or dotted IPv4 mask")
	}
	b := ip.As4()
	mask := net.IPMask(b[:])
	if _, bits := mask.Size(); bits == 0 {
		return nil, errors.New("mask bits are not contiguous")
	}
	return mask, nil
}

func lookup(name string) (Interface, error) {
	addrs, err := interfaceAddrs(name)
	if err != nil {
		return Interface{}, fmt.Errorf("open interface %s: %w", name, err)
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			continue
		}
		addr, _ := netip.AddrFromSlice(ip4)
		mask := ipNet.Mask
		if len(mask) == net.IPv6len {
			mask = mask[12:]
		}
		return Interface{Name: name, Addr: addr, Mask: mask}, nil
	}
	return Interface{}, fmt.Errorf("interface %s has no IPv4 address", name)
}
