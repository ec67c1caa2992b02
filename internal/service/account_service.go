package service

import (
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
	Image *string `json:"image" validate:"omitempty,url"`
}

type UpdatePreferencesRequest struct {
	Language      *string                     `json:"language" validate:"omitempty,lang"`
	Currency      *string                     `json:"currency" validate:"omitempty,currency"`
	Notifications *NotificationSettingsUpdate `json:"notifications"`
}

type NotificationSettingsUpdate struct {
	Email *bool `json:"email"`
	SMS   *bool `json:"sms"`
	Push  *bool `json:"push"`
}

type AccountService interface {
	Profile(userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest, meta RequestMeta) (*model.UserResponse, error)
	Preferences(userID uuid.UUID) (*model.Preferences, error)
	UpdatePreferences(userID uuid.UUID, req *UpdatePreferencesRequest) (*model.Preferences, error)
}

type accountService struct {
	userRepo repository.UserRepository
	audit    AuditService
}

func NewAccountService(userRepo repository.UserRepository, audit AuditService) AccountService {
	return &accountService{userRepo: userRepo, audit: audit}
}

func (s *accountService) load(userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) Profile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	res := user.ToResponse()
	return &res, nil
}

func (s *accountService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest, meta RequestMeta) (*model.UserResponse, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	user, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	before := user.ToResponse()
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
		user.Name = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
		user.Phone = *req.Phone
	}
	if req.Image != nil {
		fields["image"] = *req.Image
		user.Image = *req.Image
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
		meta.UserID = &userID
		meta.UserName = user.Name
		s.audit.Record(meta.audit(model.ActionUpdate, "user", userID.String(), before, fields))
	}

	res := user.ToResponse()
	return &res, nil
}

func (s *accountService) Preferences(userID uuid.UUID) (*model.Preferences, error) {
	user, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	prefs := user.Preferences()
	return &prefs, nil
}

func (s *accountService) UpdatePreferences(userID uuid.UUID, req *UpdatePreferencesRequest) (*model.Preferences, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	user, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Language != nil {
		user.PreferredLanguage = strings.ToLower(*req.Language)
		fields["preferred_language"] = user.PreferredLanguage
	}
	if req.Currency != nil {
		user.PreferredCurrency = strings.ToUpper(*req.Currency)
		fields["preferred_currency"] = user.PreferredCurrency
	}
	if n := req.Notifications; n != nil {
		if n.Email != nil {
			user.NotifyEmail = *n.Email
			fields["notify_email"] = *n.Email
		}
		if n.SMS != nil {
			user.NotifySMS = *n.SMS
			fields["notify_sms"] = *n.SMS
		}
		if n.Push != nil {
			user.NotifyPush = *n.Push
			fields["notify_push"] = *n.Push
		}
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	prefs := user.Preferences()
	return &prefs, nil
}
