package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"games_catalog/internal/config"

	jwt "github.com/golang-jwt/jwt/v5"
)

const cookieIssuer = "games-catalog"

var ErrInvalidSession = errors.New("invalid session")

type stateClaims struct {
	State
	jwt.RegisteredClaims
}

// CookieStore keeps the whole State in an HS256-signed JWT cookie.
type CookieStore struct {
	secret []byte
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewCookieStore(secret string, cfg config.Session) *CookieStore {
	return &CookieStore{
		secret: []byte(secret),
		name:   cfg.CookieName,
		ttl:    cfg.TTL,
		secure: cfg.Secure,
		now:    time.Now,
	}
}

func (s *CookieStore) Load(r *http.Request) (State, error) {
	c, err := r.Cookie(s.name)
	if errors.Is(err, http.ErrNoCookie) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}

	var claims stateClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	return claims.State, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, st State, _ bool) error {
	if st.empty() {
		if _, err := r.Cookie(s.name); err == nil {
			http.SetCookie(w, expiredCookie(s.name, s.secure))
		}
		return nil
	}

	now := s.now()
	claims := stateClaims{
		State: st,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cookieIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, sessionCookie(s.name, token, now.Add(s.ttl), s.secure))
	return nil
}

func sessionCookie(name, value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
