package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-hrms/internal/features/notification"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrRuleNotFound      = errors.New("automation rule not found")
	ErrUnknownActionType = errors.New("unknown action type")
)

type AutomationService interface {
	CreateRule(ctx context.Context, rule *Rule) (*Rule, error)
	GetRule(ctx context.Context, id primitive.ObjectID) (*Rule, error)
	ListRules(ctx context.Context) ([]Rule, error)
	UpdateRule(ctx context.Context, id primitive.ObjectID, update bson.M) error
	DeleteRule(ctx context.Context, id primitive.ObjectID) error

	// Dispatch finds active rules for the event and executes the actions of
	// every rule whose criteria match the record. Action failures are logged,
	// never returned, so callers are not rolled back by side effects.
	Dispatch(ctx context.Context, event string, record map[string]interface{})
}

type AutomationServiceImpl struct {
	ruleRepo     RuleRepository
	notification notification.NotificationService
	httpClient   *http.Client
	log          *zap.Logger
}

func NewAutomationService(ruleRepo RuleRepository, notifSvc notification.NotificationService, log *zap.Logger) AutomationService {
	return &AutomationServiceImpl{
		ruleRepo:     ruleRepo,
		notification: notifSvc,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log,
	}
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *Rule) (*Rule, error) {
	if rule.Name == "" || rule.Event == "" {
		return nil, errors.New("rule name and event are required")
	}
	for i := range rule.Actions {
		switch rule.Actions[i].Type {
		case ActionSendNotification, ActionWebhook, ActionRunScript:
		default:
			return nil, ErrUnknownActionType
		}
		rule.Actions[i].ID = uuid.NewString()
	}
	return s.ruleRepo.Create(ctx, rule)
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id primitive.ObjectID) (*Rule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context) ([]Rule, error) {
	return s.ruleRepo.FindAll(ctx)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	return s.ruleRepo.Update(ctx, id, update)
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id primitive.ObjectID) error {
	return s.ruleRepo.Delete(ctx, id)
}

func (s *AutomationServiceImpl) Dispatch(ctx context.Context, event string, record map[string]interface{}) {
	rules, err := s.ruleRepo.FindActiveByEvent(ctx, event)
	if err != nil {
		s.log.Error("automation dispatch failed to load rules", zap.String("event", event), zap.Error(err))
		return
	}

	for _, rule := range rules {
		if !MatchesCriteria(rule.Criteria, record) {
			continue
		}
		for _, action := range rule.Actions {
			if err := s.execute(ctx, event, action, record); err != nil {
				s.log.Error("automation action failed",
					zap.String("rule", rule.Name),
					zap.String("action_type", string(action.Type)),
					zap.Error(err))
			}
		}
	}
}

func (s *AutomationServiceImpl) execute(ctx context.Context, event string, action RuleAction, record map[string]interface{}) error {
	switch action.Type {
	case ActionSendNotification:
		return s.executeNotification(ctx, action, record)
	case ActionWebhook:
		return s.executeWebhook(ctx, event, action, record)
	case ActionRunScript:
		return s.executeScript(ctx, event, action, record)
	default:
		return ErrUnknownActionType
	}
}

func (s *AutomationServiceImpl) executeNotification(ctx context.Context, action RuleAction, record map[string]interface{}) error {
	userID := configString(action.Config, "user_id")
	if field := configString(action.Config, "user_field"); field != "" {
		userID = fmt.Sprintf("%v", record[field])
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid notification recipient %q: %w", userID, err)
	}

	title := configString(action.Config, "title")
	message := renderTemplate(configString(action.Config, "message"), record)
	return s.notification.Notify(ctx, oid, title, message, notification.NotificationTypeInfo, "")
}

func (s *AutomationServiceImpl) executeWebhook(ctx context.Context, event string, action RuleAction, record map[string]interface{}) error {
	url := configString(action.Config, "url")
	if url == "" {
		return errors.New("webhook action missing url")
	}

	body, err := json.Marshal(fiberPayload{Event: event, Record: record})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned %d", url, resp.StatusCode)
	}
	return nil
}

type fiberPayload struct {
	Event  string                 `json:"event"`
	Record map[string]interface{} `json:"record"`
}

func (s *AutomationServiceImpl) executeScript(ctx context.Context, event string, action RuleAction, record map[string]interface{}) error {
	source := configString(action.Config, "source")
	if source == "" {
		return errors.New("run_script action missing source")
	}

	script := tengo.NewScript([]byte(source))
	script.SetImports(stdlib.GetModuleMap("fmt", "text", "times", "json"))

	if err := script.Add("event", event); err != nil {
		return err
	}
	if err := script.Add("record", record); err != nil {
		return err
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("script compile: %w", err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script run: %w", err)
	}
	return nil
}

func configString(config map[string]interface{}, key string) string {
	if v, ok := config[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// renderTemplate substitutes {field} placeholders with record values.
func renderTemplate(tmpl string, record map[string]interface{}) string {
	out := tmpl
	for k, v := range record {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return out
}
