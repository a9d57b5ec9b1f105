package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextThemeKey is the gin context key storing the selected theme name.
	ContextThemeKey = "theme"
	themeCookie     = "site_theme"
	themeCookieAge  = 60 * 60 * 24 * 90
)

// Theme picks the page skin from ?theme=, then the cookie, then the default.
// An explicit choice is remembered in a cookie. Unknown names are ignored.
func Theme(defaultTheme string, available []string) gin.HandlerFunc {
	known := make(map[string]struct{}, len(available))
	for _, name := range available {
		known[strings.ToLower(name)] = struct{}{}
	}
	valid := func(name string) bool {
		_, ok := known[name]
		return ok
	}
	if !valid(defaultTheme) && len(available) > 0 {
		defaultTheme = strings.ToLower(available[0])
	}

	return func(c *gin.Context) {
		theme := defaultTheme
		if cookie, err := c.Cookie(themeCookie); err == nil && valid(strings.ToLower(cookie)) {
			theme = strings.ToLower(cookie)
		}
		if requested := strings.ToLower(strings.TrimSpace(c.Query("theme"))); requested != "" && valid(requested) {
			theme = requested
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(themeCookie, theme, themeCookieAge, "/", "", c.Request.TLS != nil, true)
		}
		c.Set(ContextThemeKey, theme)
		c.Next()
	}
}

// ThemeFrom returns the theme selected for this request.
func ThemeFrom(c *gin.Context) string {
	return c.GetString(ContextThemeKey)
}
