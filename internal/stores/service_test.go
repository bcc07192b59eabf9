package stores

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubStoreRepo struct {
	bySlug  map[string]*models.Store
	byID    map[uuid.UUID]*models.Store
	created *models.Store
	public  []models.Store

	lastLimit  int
	lastOffset int
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{
		bySlug: map[string]*models.Store{},
		byID:   map[uuid.UUID]*models.Store{},
	}
}

func (s *stubStoreRepo) Create(ctx context.Context, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	s.created = store
	s.bySlug[store.Slug] = store
	s.byID[store.ID] = store
	return nil
}

func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if store, ok := s.byID[id]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	if store, ok := s.bySlug[slug]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) ListPublic(ctx context.Context, limit, offset int) ([]models.Store, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.public, nil
}

func (s *stubStoreRepo) Update(ctx context.Context, id uuid.UUID, in UpdateStoreInput) (*models.Store, error) {
	store, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.IsPrivate != nil {
		store.IsPrivate = *in.IsPrivate
	}
	if in.Status != nil {
		store.Status = *in.Status
	}
	return store, nil
}

type stubMemberWriter struct {
	added     bool
	storeID   uuid.UUID
	userID    uuid.UUID
	role      enums.MemberRole
	perms     permissions.Set
	invitedBy *uuid.UUID
}

func (s *stubMemberWriter) AddMember(ctx context.Context, storeID, userID uuid.UUID, role enums.MemberRole, perms permissions.Set, invitedBy *uuid.UUID) (*models.StoreMember, error) {
	s.added = true
	s.storeID = storeID
	s.userID = userID
	s.role = role
	s.perms = perms
	s.invitedBy = invitedBy
	return &models.StoreMember{StoreID: storeID, UserID: userID, Role: role}, nil
}

type storeTestSetup struct {
	service Service
	repo    *stubStoreRepo
	members *stubMemberWriter
}

func newStoreTestSetup(t *testing.T) *storeTestSetup {
	t.Helper()
	repo := newStubStoreRepo()
	memberWriter := &stubMemberWriter{}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		TxRunner: stubTxRunner{},
		StoreRepoFactory: func(tx *gorm.DB) storeRepository {
			return repo
		},
		MemberRepoFactory: func(tx *gorm.DB) ownerMembershipWriter {
			return memberWriter
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &storeTestSetup{service: svc, repo: repo, members: memberWriter}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{TxRunner: stubTxRunner{}}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(ServiceParams{Repo: newStubStoreRepo()}); err == nil {
		t.Fatal("expected error without transaction runner")
	}
}

func TestCreateRegistersOwnerMembership(t *testing.T) {
	setup := newStoreTestSetup(t)
	ownerID := uuid.New()

	store, err := setup.service.Create(context.Background(), ownerID, CreateStoreInput{
		Name: "Night Market",
		Slug: "night-market",
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if store.OwnerID != ownerID {
		t.Fatalf("owner = %s, want %s", store.OwnerID, ownerID)
	}
	if store.Status != enums.StoreStatusActive {
		t.Fatalf("status = %s, want active", store.Status)
	}

	if !setup.members.added {
		t.Fatal("expected owner membership to be created")
	}
	if setup.members.role != enums.MemberRoleOwner {
		t.Fatalf("role = %s, want owner", setup.members.role)
	}
	if got, want := len(setup.members.perms), len(permissions.All()); got != want {
		t.Fatalf("owner received %d permissions, want %d", got, want)
	}
	if setup.members.invitedBy == nil || *setup.members.invitedBy != ownerID {
		t.Fatal("owner membership should record the owner as inviter")
	}
}

func TestCreateRejectsInvalidSlug(t *testing.T) {
	setup := newStoreTestSetup(t)

	for _, slug := range []string{"Invalid Slug", "UPPER", "double--hyphen", "-leading", "trailing-", "ab"} {
		_, err := setup.service.Create(context.Background(), uuid.New(), CreateStoreInput{
			Name: "Night Market",
			Slug: slug,
		})
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("slug %q: code = %s, want validation", slug, pkgerrors.As(err).Code())
		}
	}
}

func TestCreateAcceptsHyphenatedSlug(t *testing.T) {
	setup := newStoreTestSetup(t)

	_, err := setup.service.Create(context.Background(), uuid.New(), CreateStoreInput{
		Name: "Night Market",
		Slug: "valid-slug-123",
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
}

func TestCreateConflictsOnDuplicateSlug(t *testing.T) {
	setup := newStoreTestSetup(t)
	ctx := context.Background()

	if _, err := setup.service.Create(ctx, uuid.New(), CreateStoreInput{Name: "First", Slug: "shared-slug"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := setup.service.Create(ctx, uuid.New(), CreateStoreInput{Name: "Second", Slug: "shared-slug"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("code = %s, want conflict", pkgerrors.As(err).Code())
	}
}

func TestGetByIDNotFound(t *testing.T) {
	setup := newStoreTestSetup(t)

	_, err := setup.service.GetByID(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("code = %s, want not found", pkgerrors.As(err).Code())
	}
}

func TestListPublicClampsLimits(t *testing.T) {
	setup := newStoreTestSetup(t)
	ctx := context.Background()

	if _, err := setup.service.ListPublic(ctx, 0, -5); err != nil {
		t.Fatalf("list public: %v", err)
	}
	if setup.repo.lastLimit != 20 || setup.repo.lastOffset != 0 {
		t.Fatalf("limit/offset = %d/%d, want 20/0", setup.repo.lastLimit, setup.repo.lastOffset)
	}

	if _, err := setup.service.ListPublic(ctx, 500, 10); err != nil {
		t.Fatalf("list public: %v", err)
	}
	if setup.repo.lastLimit != 50 || setup.repo.lastOffset != 10 {
		t.Fatalf("limit/offset = %d/%d, want 50/10", setup.repo.lastLimit, setup.repo.lastOffset)
	}
}

func TestUpdateRequiresOwner(t *testing.T) {
	setup := newStoreTestSetup(t)
	ctx := context.Background()
	ownerID := uuid.New()

	store, err := setup.service.Create(ctx, ownerID, CreateStoreInput{Name: "Night Market", Slug: "night-market"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	name := "Day Market"
	_, err = setup.service.Update(ctx, uuid.New(), store.ID, UpdateStoreInput{Name: &name})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("code = %s, want forbidden", pkgerrors.As(err).Code())
	}

	updated, err := setup.service.Update(ctx, ownerID, store.ID, UpdateStoreInput{Name: &name})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Day Market" {
		t.Fatalf("name = %q, want %q", updated.Name, "Day Market")
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	setup := newStoreTestSetup(t)
	ctx := context.Background()
	ownerID := uuid.New()

	store, err := setup.service.Create(ctx, ownerID, CreateStoreInput{Name: "Night Market", Slug: "night-market"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	bad := enums.StoreStatus("archived")
	_, err = setup.service.Update(ctx, ownerID, store.ID, UpdateStoreInput{Status: &bad})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("code = %s, want validation", pkgerrors.As(err).Code())
	}
}
