package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/internal/ws"
	"newhill-spices/pkg/clock"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const activityFeedSize = 20

// AuditEntry describes one audited action. OldData/NewData are stored as JSON text.
type AuditEntry struct {
	UserID     *uuid.UUID
	ActorName  string
	Action     string
	Resource   string
	ResourceID string
	OldData    interface{}
	NewData    interface{}
	IPAddress  string
	UserAgent  string
}

type ActivityItem struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
}

type AuditListParams struct {
	UserID   *uuid.UUID
	Resource string
	Action   string
	Page     int
	Limit    int
}

type AuditPage struct {
	Logs       []model.AuditLog `json:"logs"`
	Pagination model.Pagination `json:"pagination"`
}

type AuditService interface {
	Record(entry AuditEntry)
	List(p AuditListParams) (*AuditPage, error)
	ActivityFeed() ([]ActivityItem, error)
}

type auditService struct {
	repo     repository.AuditRepository
	notifier ws.Notifier
	clock    clock.Clock
}

func NewAuditService(repo repository.AuditRepository, notifier ws.Notifier, c clock.Clock) AuditService {
	return &auditService{repo: repo, notifier: notifier, clock: c}
}

// Record persists the entry. Failures are logged and never reach the caller.
func (s *auditService) Record(e AuditEntry) {
	entry := &model.AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		OldData:    toJSONText(e.OldData),
		NewData:    toJSONText(e.NewData),
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Create(entry); err != nil {
		log.Printf("Failed to create audit log: %v", err)
		return
	}

	if s.notifier != nil {
		entry.User = &model.User{Name: e.ActorName}
		s.notifier.BroadcastAdmins(map[string]interface{}{
			"type":     "activity",
			"activity": toActivity(*entry, s.clock.Now()),
		})
	}
}

func (s *auditService) List(p AuditListParams) (*AuditPage, error) {
	page, limit := model.PageParams(p.Page, p.Limit, 50, 200)
	logs, total, err := s.repo.List(repository.AuditFilter{
		UserID: p.UserID, Resource: p.Resource, Action: p.Action, Page: page, Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return &AuditPage{Logs: logs, Pagination: model.NewPagination(page, limit, total)}, nil
}

func (s *auditService) ActivityFeed() ([]ActivityItem, error) {
	logs, err := s.repo.Latest(activityFeedSize)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	return lo.Map(logs, func(l model.AuditLog, _ int) ActivityItem {
		return toActivity(l, now)
	}), nil
}

func toActivity(l model.AuditLog, now time.Time) ActivityItem {
	return ActivityItem{
		ID:        l.ID,
		Type:      l.Resource,
		Message:   activityMessage(l),
		Timestamp: relativeTime(l.CreatedAt, now),
		Status:    activityStatus(l.Action),
	}
}

func activityMessage(l model.AuditLog) string {
	name := "Unknown user"
	if l.User != nil && l.User.Name != "" {
		name = l.User.Name
	}

	switch l.Resource {
	case "order":
		switch l.Action {
		case model.ActionCreate:
			return "New order placed by " + name
		case model.ActionUpdate:
			return fmt.Sprintf("Order %s status updated", l.ResourceID)
		default:
			return fmt.Sprintf("Order %s by %s", l.Action, name)
		}
	case "product":
		switch l.Action {
		case model.ActionCreate:
			return "New product added by " + name
		case model.ActionUpdate:
			return "Product updated by " + name
		default:
			return fmt.Sprintf("Product %s by %s", l.Action, name)
		}
	case "user":
		switch l.Action {
		case model.ActionCreate:
			return "New user registered: " + name
		case model.ActionLogin:
			return name + " signed in"
		default:
			return fmt.Sprintf("User %s: %s", l.Action, name)
		}
	case "payment":
		switch l.Action {
		case model.ActionCreate:
			return "Payment initiated by " + name
		case model.ActionUpdate:
			return "Payment status updated"
		default:
			return fmt.Sprintf("Payment %s by %s", l.Action, name)
		}
	default:
		return fmt.Sprintf("%s performed by %s", l.Action, name)
	}
}

func activityStatus(action string) string {
	switch action {
	case model.ActionCreate, model.ActionLogin:
		return "success"
	case model.ActionDelete:
		return "warning"
	default:
		return ""
	}
}

func relativeTime(at, now time.Time) string {
	minutes := int(now.Sub(at).Minutes())
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes < 1440:
		return plural(minutes/60, "hour") + " ago"
	default:
		return plural(minutes/1440, "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func toJSONText(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
