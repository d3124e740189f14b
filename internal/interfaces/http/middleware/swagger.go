package middleware

import (
	"net"
	"strings"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// SwaggerProtection returns the handler chain that guards the API
// documentation routes; append the docs handler to it.
// A disabled endpoint answers 404. The IP allow-list is checked against gin's
// ClientIP, which only honours forwarding headers from trusted proxies.
// With RequireAuth the session handlers follow the guard.
func SwaggerProtection(cfg config.SwaggerConfig, session ...gin.HandlerFunc) []gin.HandlerFunc {
	nets := parseAllowedIPs(cfg.AllowedIPs)

	guard := func(c *gin.Context) {
		if !cfg.Enabled {
			reject(c, shared.ErrNotFound, "swagger_disabled")
			return
		}
		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), nets) {
			reject(c, access.ErrForbidden, "swagger_ip")
			return
		}
		c.Next()
	}

	chain := []gin.HandlerFunc{guard}
	if cfg.RequireAuth {
		chain = append(chain, session...)
	}
	return chain
}

// parseAllowedIPs turns IPs and CIDRs into networks; bare IPs become /32 or /128.
// Unparseable entries are skipped.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, e := range entries {
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				continue
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		if _, n, err := net.ParseCIDR(e); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
