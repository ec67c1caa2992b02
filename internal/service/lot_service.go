package service

import (
	"strings"
	"time"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
)

type LotRequest struct {
	BatchCode    string     `json:"batch_code" validate:"required,max=50"`
	OriginEstate string     `json:"origin_estate" validate:"max=255"`
	HarvestedOn  *time.Time `json:"harvested_on"`
	BestBefore   *time.Time `json:"best_before"`
	QCNotes      string     `json:"qc_notes"`
	TotalQty     int        `json:"total_qty" validate:"gte=0"`
	AvailableQty int        `json:"available_qty" validate:"gte=0"`
}

func (r *LotRequest) validate() error {
	r.BatchCode = strings.ToUpper(strings.TrimSpace(r.BatchCode))
	if err := validator.FirstError(r); err != nil {
		return err
	}
	if r.HarvestedOn != nil && r.BestBefore != nil && !r.BestBefore.After(*r.HarvestedOn) {
		return validator.New("best_before", "best_before must be after harvested_on")
	}
	if r.AvailableQty > r.TotalQty {
		return validator.New("available_qty", "available_qty must not exceed total_qty")
	}
	return nil
}

func (r *LotRequest) apply(l *model.Lot) {
	l.BatchCode = r.BatchCode
	l.OriginEstate = r.OriginEstate
	l.HarvestedOn = r.HarvestedOn
	l.BestBefore = r.BestBefore
	l.QCNotes = r.QCNotes
	l.TotalQty = r.TotalQty
	l.AvailableQty = r.AvailableQty
}

type LotService interface {
	List() ([]model.Lot, error)
	Create(req *LotRequest, meta RequestMeta) (*model.Lot, error)
	Update(id uuid.UUID, req *LotRequest, meta RequestMeta) (*model.Lot, error)
	Delete(id uuid.UUID, meta RequestMeta) error
}

type lotService struct {
	repo  repository.LotRepository
	audit AuditService
}

func NewLotService(repo repository.LotRepository, audit AuditService) LotService {
	return &lotService{repo: repo, audit: audit}
}

func (s *lotService) List() ([]model.Lot, error) {
	return s.repo.FindAll()
}

func (s *lotService) checkBatchCode(code string, excludeID uuid.UUID) error {
	exists, err := s.repo.BatchCodeExists(code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrBatchCodeExists
	}
	return nil
}

func (s *lotService) Create(req *LotRequest, meta RequestMeta) (*model.Lot, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := s.checkBatchCode(req.BatchCode, uuid.Nil); err != nil {
		return nil, err
	}
	lot := &model.Lot{}
	req.apply(lot)
	if err := s.repo.Create(lot); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrBatchCodeExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionCreate, "lot", lot.ID.String(), nil, lot))
	return lot, nil
}

func (s *lotService) Update(id uuid.UUID, req *LotRequest, meta RequestMeta) (*model.Lot, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	lot, err := s.repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	if req.BatchCode != lot.BatchCode {
		if err := s.checkBatchCode(req.BatchCode, id); err != nil {
			return nil, err
		}
	}
	before := *lot
	req.apply(lot)
	if err := s.repo.Update(lot); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrBatchCodeExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "lot", id.String(), before, lot))
	return lot, nil
}

// Delete detaches any variants still pointing at the lot.
func (s *lotService) Delete(id uuid.UUID, meta RequestMeta) error {
	if err := s.repo.Delete(id); err != nil {
		if repository.IsNotFound(err) {
			return ErrLotNotFound
		}
		return err
	}
	s.audit.Record(meta.audit(model.ActionDelete, "lot", id.String(), nil, nil))
	return nil
}
