package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/litsearch/internal/domain"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockIndex struct {
	stats domain.IndexStats
	err   error
}

func (m *mockIndex) Stats(_ context.Context) (domain.IndexStats, error) { return m.stats, m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

func liveIndex() *mockIndex {
	return &mockIndex{stats: domain.IndexStats{Name: "pubmed-tja", Exists: true, NumDocs: 5000, PercentIndexed: 1}}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, liveIndex(), &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"database", "index", "embedding"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
	if r.Index.NumDocs != 5000 {
		t.Errorf("expected 5000 docs, got %d", r.Index.NumDocs)
	}
}

func TestCheck_DBError(t *testing.T) {
	idx := liveIndex()
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, idx, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Err == nil {
		t.Error("expected report error")
	}
	if _, ok := r.Checks["index"]; ok {
		t.Error("index must not be checked when the database is down")
	}
}

func TestCheck_IndexMissing(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockIndex{stats: domain.IndexStats{Name: "pubmed-tja"}}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["index"] != CheckMissing {
		t.Errorf("expected index %q, got %q", CheckMissing, r.Checks["index"])
	}
	if _, ok := r.Checks["embedding"]; ok {
		t.Error("embedding check must be skipped when nil")
	}
}

func TestCheck_IndexError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockIndex{err: domain.ErrIndexUnavailable}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if !errors.Is(r.Err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", r.Err)
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockDBPinger{}, liveIndex(), &mockEmbeddingChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
}
