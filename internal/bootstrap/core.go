package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/wealthguard/internal/audit"
	"github.com/spec-kit/wealthguard/internal/authz"
	"github.com/spec-kit/wealthguard/internal/directory"
	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/observability"
	"github.com/spec-kit/wealthguard/internal/repository"
	"github.com/spec-kit/wealthguard/internal/service"
	"github.com/spec-kit/wealthguard/internal/session"
)

// CoreOptions seeds and configures the authorization core. Zero values select the
// built-in demo data, an in-memory session store and a no-op logger.
type CoreOptions struct {
	Identities    []domain.Identity
	Permissions   []authz.RolePermissions
	FamilyMembers []domain.FamilyMember
	Assets        []domain.Asset
	Documents     []domain.Document
	SessionStore  session.Store
	AuditOptions  []audit.Option
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// Core holds the process-scoped state of one portal instance.
type Core struct {
	Directory *directory.Directory
	Matrix    *authz.Matrix
	Engine    *authz.Engine
	Audit     *audit.Log
	Sessions  *session.Controller
	Portal    *service.PortalService
	Metrics   *observability.Metrics
}

// NewCore assembles the core from opts.
func NewCore(opts CoreOptions) (*Core, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	identities := opts.Identities
	if identities == nil {
		identities = directory.DefaultSeed()
	}
	permissions := opts.Permissions
	if permissions == nil {
		permissions = authz.DefaultRows()
	}
	members := opts.FamilyMembers
	if members == nil {
		members = repository.DefaultFamilyMembers()
	}
	assets := opts.Assets
	if assets == nil {
		assets = repository.DefaultAssets()
	}
	store := opts.SessionStore
	if store == nil {
		store = session.NewMemoryStore(0)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	dir, err := directory.New(identities...)
	if err != nil {
		return nil, fmt.Errorf("seed directory: %w", err)
	}
	matrix := authz.NewMatrix(permissions...)
	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	engine := authz.NewEngine(matrix, dir)

	auditOpts := append([]audit.Option{audit.WithLogger(logger)}, opts.AuditOptions...)
	auditLog := audit.NewLog(auditOpts...)

	controller := session.NewController(session.Dependencies{
		Identities: dir,
		Policy:     engine,
		Audit:      auditLog,
		Store:      store,
		Logger:     logger,
	})

	portal := service.NewPortalService(service.PortalDependencies{
		Engine:    engine,
		Directory: dir,
		Audit:     auditLog,
		Sessions:  controller,
		Families:  repository.NewFamilyMemberRepository(members...),
		Assets:    repository.NewAssetRepository(assets...),
		Documents: repository.NewDocumentRepository(opts.Documents...),
		Metrics:   metrics,
		Logger:    logger,
	})

	return &Core{
		Directory: dir,
		Matrix:    matrix,
		Engine:    engine,
		Audit:     auditLog,
		Sessions:  controller,
		Portal:    portal,
		Metrics:   metrics,
	}, nil
}
