package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses. apiOrigin, when not
// empty, is added to img-src and connect-src so covers and HTMX requests can reach a
// backend on another origin.
func SecurityHeadersMiddleware(apiOrigin string) gin.HandlerFunc {
	extra := ExtractOrigin(apiOrigin)

	return func(c *gin.Context) {
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Note: 'unsafe-eval' needed for HTMX's hx-on attributes
		scriptSrc := "'self' 'unsafe-inline' 'unsafe-eval' https://unpkg.com"
		connectSrc := "'self'"
		imgSrc := "'self' data: https:"
		if extra != "" {
			connectSrc += " " + extra
			imgSrc += " " + extra
		}

		formAction := "'self'"
		if host := c.Request.Host; host != "" {
			formAction = "'self' https://" + host
		}

		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src "+scriptSrc+"; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src "+imgSrc+"; "+
				"font-src 'self'; "+
				"connect-src "+connectSrc+"; "+
				"frame-ancestors 'none'; "+
				"form-action "+formAction)

		c.Header("Permissions-Policy",
			"accelerometer=(), "+
				"camera=(), "+
				"geolocation=(), "+
				"gyroscope=(), "+
				"magnetometer=(), "+
				"microphone=(), "+
				"payment=(), "+
				"usb=()")

		c.Next()
	}
}

// ExtractOrigin extracts the origin (scheme + host) from an absolute URL. Relative URLs yield "".
func ExtractOrigin(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	return parsed.Scheme + "://" + parsed.Host
}
