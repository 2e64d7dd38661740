package helpers

import (
	"net"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ExternalAddress iterates over all the network interfaces of the machine and
// returns the first non-loopback IPv4 address (or the loopback if none can be found).
// Used as the advertised heartbeat address when none is configured.
func ExternalAddress(logger log.Logger) string {
	ifaces, err := net.Interfaces()
	if err != nil {
		level.Warn(logger).Log("msg", "failed to retrieve network interfaces", "err", err)
		return "127.0.0.1"
	}
	for _, iface := range ifaces {
		// Skip disconnected and loopback interfaces
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			level.Warn(logger).Log("msg", "failed to retrieve network addresses", "iface", iface.Name, "err", err)
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip4 := ip.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return "127.0.0.1"
}
