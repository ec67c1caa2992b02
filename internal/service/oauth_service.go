package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/clock"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and UserInfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

type googleProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type OAuthService interface {
	Enabled() bool
	AuthURL(state string) string
	Callback(ctx context.Context, code string, meta RequestMeta) (*Session, error)
}

type oauthService struct {
	conf        *oauth2.Config
	userInfoURL string
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	auth        AuthService
	audit       AuditService
	clock       clock.Clock
}

// NewOAuthService signs users in with Google.
func NewOAuthService(cfg OAuthConfig, userRepo repository.UserRepository, roleRepo repository.RoleRepository, auth AuthService, audit AuditService, c clock.Clock) OAuthService {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = endpoints.Google
	}
	userInfo := cfg.UserInfoURL
	if userInfo == "" {
		userInfo = googleUserInfoURL
	}
	return &oauthService{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		auth:        auth,
		audit:       audit,
		clock:       c,
	}
}

func (s *oauthService) Enabled() bool {
	return s.conf.ClientID != "" && s.conf.ClientSecret != ""
}

func (s *oauthService) AuthURL(state string) string {
	return s.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *oauthService) Callback(ctx context.Context, code string, meta RequestMeta) (*Session, error) {
	if !s.Enabled() {
		return nil, ErrOAuthDisabled
	}
	if code == "" {
		return nil, invalid("code is required")
	}

	tok, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "Google sign-in failed"}
	}
	profile, err := s.fetchProfile(ctx, tok)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" || !profile.EmailVerified {
		return nil, &Error{Kind: KindUnauthorized, Message: "Google account email is not verified"}
	}

	user, created, err := s.findOrCreate(profile)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	session, err := s.auth.IssueSession(user)
	if err != nil {
		return nil, err
	}

	meta.UserID = &user.ID
	meta.UserName = user.Name
	if created {
		s.audit.Record(meta.audit(model.ActionCreate, "user", user.ID.String(), nil, map[string]string{
			"email": user.Email, "provider": "google",
		}))
	}
	s.audit.Record(meta.audit(model.ActionLogin, "user", user.ID.String(), nil, map[string]string{"provider": "google"}))
	return session, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, tok *oauth2.Token) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo: status %d", resp.StatusCode)
	}
	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	return &p, nil
}

func (s *oauthService) findOrCreate(p *googleProfile) (*model.User, bool, error) {
	email := strings.ToLower(p.Email)
	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		if user.Image == "" && p.Picture != "" {
			user.Image = p.Picture
			if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"image": p.Picture}); err != nil {
				return nil, false, err
			}
		}
		return user, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, err
	}

	now := s.clock.Now()
	name := p.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = &model.User{
		Email:             email,
		Name:              name,
		Image:             p.Picture,
		IsActive:          true,
		EmailVerified:     &now,
		PreferredLanguage: "en",
		PreferredCurrency: "INR",
		NotifyEmail:       true,
		NotifyPush:        true,
	}
	if err := createCustomer(s.userRepo, s.roleRepo, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
