package service

import (
	"strings"

	"newhill-spices/internal/i18n"
	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"
)

type TranslationRequest struct {
	EN string `json:"en" validate:"required"`
	HI string `json:"hi"`
	TA string `json:"ta"`
	KN string `json:"kn"`
	AR string `json:"ar"`
}

// Bundle is the UI string table for one language.
type Bundle struct {
	Lang     string            `json:"lang"`
	RTL      bool              `json:"rtl"`
	Messages map[string]string `json:"messages"`
}

type TranslationService interface {
	Bundle(lang string) (*Bundle, error)
	List() ([]model.TranslationKey, error)
	Upsert(key string, req *TranslationRequest, meta RequestMeta) (*model.TranslationKey, error)
	Delete(key string, meta RequestMeta) error
}

type translationService struct {
	repo  repository.TranslationRepository
	audit AuditService
}

func NewTranslationService(repo repository.TranslationRepository, audit AuditService) TranslationService {
	return &translationService{repo: repo, audit: audit}
}

func (s *translationService) Bundle(lang string) (*Bundle, error) {
	lang = strings.ToLower(lang)
	if !i18n.IsSupported(lang) {
		return nil, invalid("Unsupported language")
	}
	keys, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	messages := make(map[string]string, len(keys))
	for i := range keys {
		messages[keys[i].Key] = keys[i].Text(lang)
	}
	return &Bundle{Lang: lang, RTL: i18n.IsRTL(lang), Messages: messages}, nil
}

func (s *translationService) List() ([]model.TranslationKey, error) {
	return s.repo.FindAll()
}

func (s *translationService) Upsert(key string, req *TranslationRequest, meta RequestMeta) (*model.TranslationKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, validator.New("key", "key is required")
	}
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	t := &model.TranslationKey{Key: key, EN: req.EN, HI: req.HI, TA: req.TA, KN: req.KN, AR: req.AR}
	if err := s.repo.Upsert(t); err != nil {
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "translation", key, nil, req))
	return t, nil
}

func (s *translationService) Delete(key string, meta RequestMeta) error {
	if err := s.repo.Delete(key); err != nil {
		if repository.IsNotFound(err) {
			return ErrTranslationMissing
		}
		return err
	}
	s.audit.Record(meta.audit(model.ActionDelete, "translation", key, nil, nil))
	return nil
}
