package service

import (
	"strings"
	"time"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/clock"
	"newhill-spices/pkg/jwt"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
)

// RequestMeta carries the caller details written to the audit log.
type RequestMeta struct {
	UserID    *uuid.UUID
	UserName  string
	IPAddress string
	UserAgent string
}

func (m RequestMeta) audit(action, resource, resourceID string, oldData, newData interface{}) AuditEntry {
	return AuditEntry{
		UserID:     m.UserID,
		ActorName:  m.UserName,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldData:    oldData,
		NewData:    newData,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token             string             `json:"token,omitempty"`
	ExpiresAt         time.Time          `json:"expires_at"`
	User              model.UserResponse `json:"user"`
	Roles             []string           `json:"roles"`
	Privileges        []string           `json:"privileges"`
	IsBusinessAccount bool               `json:"is_business_account"`
	BusinessApproved  bool               `json:"business_approved"`
	Preferences       model.Preferences  `json:"preferences"`
}

type AuthService interface {
	Signup(req *SignupRequest, meta RequestMeta) (*model.User, error)
	Login(req *LoginRequest, meta RequestMeta) (*Session, error)
	Logout(userID uuid.UUID, meta RequestMeta) error
	Authenticate(token string) (*model.User, *jwt.Claims, error)
	Session(token string) (*Session, error)
	IssueSession(user *model.User) (*Session, error)
	ResetPassword(email, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	jwt      *jwt.Manager
	audit    AuditService
	clock    clock.Clock
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, jm *jwt.Manager, audit AuditService, c clock.Clock) AuthService {
	return &authService{userRepo: userRepo, roleRepo: roleRepo, jwt: jm, audit: audit, clock: c}
}

func (s *authService) Signup(req *SignupRequest, meta RequestMeta) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	user := &model.User{
		Email:             req.Email,
		Name:              req.Name,
		Phone:             req.Phone,
		IsActive:          true,
		PreferredLanguage: "en",
		PreferredCurrency: "INR",
		NotifyEmail:       true,
		NotifyPush:        true,
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}
	if err := createCustomer(s.userRepo, s.roleRepo, user); err != nil {
		return nil, err
	}

	meta.UserID = &user.ID
	meta.UserName = user.Name
	s.audit.Record(meta.audit(model.ActionCreate, "user", user.ID.String(), nil, map[string]string{
		"email": user.Email,
		"name":  user.Name,
	}))
	return user, nil
}

// createCustomer inserts the user and grants the customer role.
func createCustomer(users repository.UserRepository, roles repository.RoleRepository, user *model.User) error {
	if err := users.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	role, err := roles.FindByName(model.RoleCustomer)
	if err != nil {
		return err
	}
	if err := users.AssignRoles(user, []model.Role{*role}); err != nil {
		return err
	}
	user.Roles = []model.Role{*role}
	return nil
}

func (s *authService) Login(req *LoginRequest, meta RequestMeta) (*Session, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	session, err := s.IssueSession(user)
	if err != nil {
		return nil, err
	}

	meta.UserID = &user.ID
	meta.UserName = user.Name
	s.audit.Record(meta.audit(model.ActionLogin, "user", user.ID.String(), nil, nil))
	return session, nil
}

// IssueSession rotates the token version, which signs out every other session.
func (s *authService) IssueSession(user *model.User) (*Session, error) {
	now := s.clock.Now()
	user.TokenVersion = uuid.NewString()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateTokenVersion(user.ID, user.TokenVersion); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(jwt.Subject{
		UserID:            user.ID,
		Email:             user.Email,
		Name:              user.Name,
		Roles:             user.RoleNames(),
		Privileges:        user.PrivilegeCodes(),
		IsBusinessAccount: user.IsBusinessAccount(),
		BusinessApproved:  user.BusinessApproved(),
		TokenVersion:      user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}

	session := sessionFor(user)
	session.Token = token
	session.ExpiresAt = now.Add(s.jwt.TTL())
	return session, nil
}

func (s *authService) Logout(userID uuid.UUID, meta RequestMeta) error {
	if err := s.userRepo.UpdateTokenVersion(userID, uuid.NewString()); err != nil {
		return err
	}
	meta.UserID = &userID
	s.audit.Record(meta.audit(model.ActionLogout, "user", userID.String(), nil, nil))
	return nil
}

// Authenticate validates the token and checks it against the stored token version.
func (s *authService) Authenticate(token string) (*model.User, *jwt.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil, ErrSessionExpired
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrSessionExpired
	}
	return user, claims, nil
}

func (s *authService) Session(token string) (*Session, error) {
	user, claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	session := sessionFor(user)
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *authService) ResetPassword(email, newPassword string) error {
	if len(newPassword) < 8 {
		return validator.New("password", "password must be at least 8 characters")
	}
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.NewString())
}

func sessionFor(user *model.User) *Session {
	return &Session{
		User:              user.ToResponse(),
		Roles:             user.RoleNames(),
		Privileges:        user.PrivilegeCodes(),
		IsBusinessAccount: user.IsBusinessAccount(),
		BusinessApproved:  user.BusinessApproved(),
		Preferences:       user.Preferences(),
	}
}
