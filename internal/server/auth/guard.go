package auth

import (
	"path"
	"strings"
)

type RouteClass int

const (
	ClassPublic RouteClass = iota
	ClassAuthenticated
	ClassAdmin
)

func (c RouteClass) String() string {
	switch c {
	case ClassAuthenticated:
		return "authenticated"
	case ClassAdmin:
		return "admin"
	default:
		return "public"
	}
}

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectProfile
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect_login"
	case RedirectProfile:
		return "redirect_profile"
	default:
		return "allow"
	}
}

const (
	LoginPath   = "/login"
	ProfilePath = "/profile"
)

type routeRule struct {
	prefix string
	class  RouteClass
}

// RouteTable maps paths to route classes. A rule covers its path and
// everything below it; the longest matching rule wins and unmatched paths
// are public.
type RouteTable struct {
	rules []routeRule
}

func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

// DefaultRouteTable classifies the application's page and API routes.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable().
		Add("/profile", ClassAuthenticated).
		Add("/api/profile", ClassAuthenticated).
		Add("/admin", ClassAdmin).
		Add("/api/admin", ClassAdmin)
}

func (t *RouteTable) Add(prefix string, class RouteClass) *RouteTable {
	t.rules = append(t.rules, routeRule{prefix: path.Clean("/" + prefix), class: class})
	return t
}

func (t *RouteTable) Classify(p string) RouteClass {
	p = path.Clean("/" + p)

	class, best := ClassPublic, -1
	for _, r := range t.rules {
		if !covers(r.prefix, p) || len(r.prefix) <= best {
			continue
		}
		class, best = r.class, len(r.prefix)
	}
	return class
}

func covers(prefix, p string) bool {
	if prefix == "/" || p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

// Decide applies the access rules in order, first match wins:
//  1. admin route without an authenticated admin session: RedirectLogin
//  2. authenticated route without a session: RedirectLogin
//  3. login page with a session: RedirectProfile
//  4. Allow
func Decide(class RouteClass, p string, s Session) Decision {
	switch {
	case class == ClassAdmin && !(s.Authenticated && s.IsAdmin):
		return RedirectLogin
	case class == ClassAuthenticated && !s.Authenticated:
		return RedirectLogin
	case path.Clean("/"+p) == LoginPath && s.Authenticated:
		return RedirectProfile
	default:
		return Allow
	}
}
