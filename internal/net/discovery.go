package net

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_localnotes._tcp"

// Host is a sharing session found on the LAN.
type Host struct {
	Name string
	Addr string
}

// Advertise announces a hub on port until the returned server is shut down.
func Advertise(port int, site, notebook string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}
	info := []string{"LocalNotes", "site=" + site, "notebook=" + notebook}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}
	slog.Info("advertising share", "component", "mdns", "service", serviceType, "port", port)
	return server, nil
}

// Browse lists hosts that answer within timeout.
func Browse(timeout time.Duration) ([]Host, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []Host)
	go func() {
		var found []Host
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found = append(found, Host{Name: e.Host, Addr: fmt.Sprintf("%s:%d", e.AddrV4, e.Port)})
		}
		done <- found
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	found := <-done
	if err != nil {
		return found, fmt.Errorf("browse %s: %w", serviceType, err)
	}
	return found, nil
}
