package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/harsshhit/vendors/internal/modules/user"
)

const (
	defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	defaultTokenTTL    = 30 * 24 * time.Hour
)

// Config configures the Google sign-in flow and session signing.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Secret       []byte

	// Endpoint and UserInfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
	TokenTTL    time.Duration
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"picture,omitempty"`
	jwt.StandardClaims
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type service struct {
	oauth       *oauth2.Config
	users       user.Service
	secret      []byte
	userInfoURL string
	ttl         time.Duration
}

// NewService creates a new auth service.
func NewService(cfg Config, users user.Service) (Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: session secret is required")
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = google.Endpoint
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = defaultUserInfoURL
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &service{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		users:       users,
		secret:      cfg.Secret,
		userInfoURL: cfg.UserInfoURL,
		ttl:         cfg.TokenTTL,
	}, nil
}

func (s *service) SignInURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *service) Authenticate(ctx context.Context, code string) (*Identity, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %w", ErrSignIn, err)
	}

	var info googleUserInfo
	resp, err := resty.NewWithClient(s.oauth.Client(ctx, token)).R().
		SetContext(ctx).
		SetResult(&info).
		Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch userinfo: %w", ErrSignIn, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: userinfo returned %d", ErrSignIn, resp.StatusCode())
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", ErrSignIn)
	}

	u, err := s.users.RecordSignIn(ctx, info.Email, info.Name, info.Picture)
	if err != nil {
		return nil, fmt.Errorf("%w: record user: %w", ErrSignIn, err)
	}
	return &Identity{ID: u.ID, Email: u.Email, Name: u.Name, Image: u.Image}, nil
}

func (s *service) IssueToken(identity *Identity) (string, time.Time, error) {
	issued := time.Now()
	expires := issued.Add(s.ttl)
	claims := &sessionClaims{
		Email: identity.Email,
		Name:  identity.Name,
		Image: identity.Image,
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.ID,
			IssuedAt:  issued.Unix(),
			ExpiresAt: expires.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expires, nil
}

func (s *service) VerifyToken(tokenString string) (*Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Image: claims.Image,
	}, nil
}
