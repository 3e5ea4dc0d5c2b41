package net

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// LinkScheme prefixes share links handed to viewers.
const LinkScheme = "localnotes://"

// Link formats a share link for host:port.
func Link(host string, port int) string {
	return fmt.Sprintf("%s%s", LinkScheme, net.JoinHostPort(host, fmt.Sprint(port)))
}

// ParseLink returns the host:port a share link points at.
func ParseLink(link string) (string, error) {
	if !strings.HasPrefix(link, LinkScheme) {
		return "", fmt.Errorf("not a share link: %q", link)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("share link %q: %w", link, err)
	}
	return addr, nil
}

// OutgoingIP finds the address other machines on the LAN should dial. No
// packet is sent; the UDP dial only selects a route.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return firstIPv4().String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// firstIPv4 covers networks without a default route.
func firstIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		slog.Warn("list interfaces", "component", "net", "err", err)
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	slog.Warn("no LAN address found, share link is loopback only", "component", "net")
	return net.IPv4(127, 0, 0, 1)
}
