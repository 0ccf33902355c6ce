package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CookieStore is the durable storage session cookies are kept in between runs.
type CookieStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type cookieScope struct {
	Path    string         `json:"path"`
	Cookies []storedCookie `json:"cookies"`
}

// SessionCookies saves the cookies a jar holds for the API origin and puts
// them back into a fresh jar. The jar does not expose cookie paths, so each
// path in paths is saved as its own scope; a cookie is kept in the first
// scope that sees it.
type SessionCookies struct {
	jar    http.CookieJar
	origin *url.URL
	paths  []string
	store  CookieStore
	key    string
	ttl    time.Duration
}

func NewSessionCookies(jar http.CookieJar, origin string, paths []string, store CookieStore, key string, ttl time.Duration) (*SessionCookies, error) {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid cookie origin: %w", err)
	}
	if len(paths) == 0 {
		paths = []string{"/"}
	}

	return &SessionCookies{
		jar:    jar,
		origin: u,
		paths:  paths,
		store:  store,
		key:    key,
		ttl:    ttl,
	}, nil
}

// Seed adds cookies for the whole origin, replacing any with the same name.
func (s *SessionCookies) Seed(cookies []*http.Cookie) {
	target := s.at("/")
	for _, c := range cookies {
		c.Path = target.Path
	}
	s.jar.SetCookies(target, cookies)
}

// Load restores saved cookies into the jar and reports how many it restored.
func (s *SessionCookies) Load(ctx context.Context) (int, error) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil || !ok {
		return 0, err
	}

	var scopes []cookieScope
	if err := json.Unmarshal([]byte(raw), &scopes); err != nil {
		return 0, fmt.Errorf("failed to decode saved cookies: %w", err)
	}

	restored := 0
	for _, scope := range scopes {
		target := s.at(scope.Path)
		cookies := make([]*http.Cookie, 0, len(scope.Cookies))
		for _, c := range scope.Cookies {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: target.Path})
		}
		s.jar.SetCookies(target, cookies)
		restored += len(cookies)
	}

	return restored, nil
}

// Save writes the jar's current cookies for the origin. An empty jar clears
// what was saved, so a logged-out session is not brought back.
func (s *SessionCookies) Save(ctx context.Context) error {
	seen := make(map[storedCookie]bool)
	var scopes []cookieScope

	for _, path := range s.paths {
		scope := cookieScope{Path: path}
		for _, c := range s.jar.Cookies(s.at(path)) {
			sc := storedCookie{Name: c.Name, Value: c.Value}
			if seen[sc] {
				continue
			}
			seen[sc] = true
			scope.Cookies = append(scope.Cookies, sc)
		}
		if len(scope.Cookies) > 0 {
			scopes = append(scopes, scope)
		}
	}

	if len(scopes) == 0 {
		return s.store.Delete(ctx, s.key)
	}

	data, err := json.Marshal(scopes)
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	return s.store.Set(ctx, s.key, string(data), s.ttl)
}

func (s *SessionCookies) at(path string) *url.URL {
	u := *s.origin
	u.Path = u.Path + path
	return &u
}
