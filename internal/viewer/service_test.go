package viewer

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	mock_catalog "github.com/orgball2608/insta-stories-viewer/internal/catalog/mocks"
	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T, users []domain.User, err error) (*Service, *Store) {
	t.Helper()
	ctrl := gomock.NewController(t)
	cat := mock_catalog.NewMockCatalog(ctrl)
	cat.EXPECT().Users().Return(users, err).AnyTimes()

	cfg := &config.Config{}
	cfg.Viewer.Tick = 50 * time.Millisecond
	cfg.Viewer.Debounce = 300 * time.Millisecond

	store := NewStore()
	return NewService(Opts{
		Catalog: cat,
		Store:   store,
		Config:  cfg,
		Logger:  logger.NewNop(),
		Clock:   clockwork.NewFakeClock(),
	}), store
}

func TestServiceList(t *testing.T) {
	svc, store := newTestService(t, []domain.User{longUser("a", 2), longUser("b", 1)}, nil)
	store.MarkSeen("b")

	rows, err := svc.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 2 || rows[0].StoryCount != 2 || rows[0].Seen || !rows[1].Seen {
		t.Errorf("List() = %+v", rows)
	}
}

func TestServiceCatalogFailure(t *testing.T) {
	boom := errors.New("catalog down")
	svc, _ := newTestService(t, nil, boom)

	if _, err := svc.List(); !errors.Is(err, boom) {
		t.Errorf("List() error = %v, want catalog error", err)
	}
	if _, err := svc.Open(0); !errors.Is(err, boom) {
		t.Errorf("Open() error = %v, want catalog error", err)
	}
	if n := svc.Active(); n != 0 {
		t.Errorf("Active() = %d, want 0", n)
	}
}

func TestServiceOpenTracksSessions(t *testing.T) {
	svc, store := newTestService(t, []domain.User{longUser("a", 2)}, nil)

	s, err := svc.Open(0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if n := svc.Active(); n != 1 {
		t.Errorf("Active() = %d, want 1", n)
	}
	if idx, ok := store.StoryIndex("a"); !ok || idx != 0 {
		t.Errorf("open should record progress for a, got %d %v", idx, ok)
	}

	s.Stop()
	eventually(t, func() bool { return svc.Active() == 0 }, "stopped session still counted")
}

func TestServiceOpenBadIndex(t *testing.T) {
	svc, _ := newTestService(t, []domain.User{longUser("a", 1)}, nil)

	if _, err := svc.Open(-1); err == nil {
		t.Fatal("Open(-1) should fail")
	}
	if n := svc.Active(); n != 0 {
		t.Errorf("Active() = %d, want 0", n)
	}
}

func TestServiceStopEndsLiveSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	cat := mock_catalog.NewMockCatalog(ctrl)
	cat.EXPECT().Users().Return([]domain.User{longUser("a", 2)}, nil).AnyTimes()

	lc := fxtest.NewLifecycle(t)
	svc := NewService(Opts{
		Catalog: cat,
		Store:   NewStore(),
		Config:  &config.Config{},
		Logger:  logger.NewNop(),
		Clock:   clockwork.NewFakeClock(),
		LC:      lc,
	})
	lc.RequireStart()

	s, err := svc.Open(0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	lc.RequireStop()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session still running after stop")
	}
	eventually(t, func() bool { return svc.Active() == 0 }, "stopped session still counted")

	if _, err := svc.Open(0); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Open() after stop error = %v, want ErrSessionClosed", err)
	}
}
