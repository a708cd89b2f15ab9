package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, object string, action string) error {
	subject, object, action, err := normalizeRequest(actor, object, action)
	if err != nil {
		return err
	}

	if err := s.ensureGrouping(subject, RoleEarner); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) Suspend(ctx context.Context, actor string, object string, action string) error {
	subject, object, action, err := normalizeRequest(actor, object, action)
	if err != nil {
		return err
	}
	has, err := s.enforcer.HasPolicy(subject, object, action, EffectDeny)
	if err != nil || has {
		return err
	}
	_, err = s.enforcer.AddPolicy(subject, object, action, EffectDeny)
	return err
}

func (s *ServiceImpl) Restore(ctx context.Context, actor string, object string, action string) error {
	subject, object, action, err := normalizeRequest(actor, object, action)
	if err != nil {
		return err
	}
	_, err = s.enforcer.RemovePolicy(subject, object, action, EffectDeny)
	return err
}

func normalizeRequest(actor, object, action string) (string, string, string, error) {
	subject, err := resolveSubject(actor)
	if err != nil {
		return "", "", "", err
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return "", "", "", ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return "", "", "", ErrInvalidAction
	}
	return subject, object, action, nil
}

func resolveSubject(actor string) (string, error) {
	actor = strings.TrimSpace(actor)
	if !strings.HasPrefix(actor, "user:") {
		return "", ErrInvalidActor
	}
	userID, err := snowflake.ParseString(strings.TrimPrefix(actor, "user:"))
	if err != nil || userID <= 0 {
		return "", ErrInvalidActor
	}
	return "user:" + userID.String(), nil
}

// ensureGrouping lazily links a user to its role the first time it is seen.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{RoleEarner, ObjectProviderEarnings, ActionView, EffectAllow},
		{RoleEarner, ObjectLabourEarnings, ActionView, EffectAllow},
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
