package utils

import (
	"fmt"
	"net"
	"strings"
)

// GetLocalIPs returns the non-loopback IPv4 addresses of this host.
// Link-local (169.254.x.x) addresses are dropped when a routable one exists.
func GetLocalIPs() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}

	var routable, linkLocal []string
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		ip := ipnet.IP.String()
		if strings.HasPrefix(ip, "169.254") {
			linkLocal = append(linkLocal, ip)
		} else {
			routable = append(routable, ip)
		}
	}

	if len(routable) > 0 {
		return routable
	}
	return linkLocal
}

// ListenURLs lists the URLs the dashboard API is reachable at on this host
func ListenURLs(port string) []string {
	urls := []string{fmt.Sprintf("http://localhost:%s", port)}
	for _, ip := range GetLocalIPs() {
		urls = append(urls, fmt.Sprintf("http://%s:%s", ip, port))
	}
	return urls
}
