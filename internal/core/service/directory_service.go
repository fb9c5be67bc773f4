package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/api/metrics"
	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

const defaultFetchWorkers = 8

// DirectoryService builds the session directory for an identity. Both
// retrieval paths are read-only and safe to re-run at any time; every
// rebuild produces a fresh list that replaces, never merges into, the
// previous one, so a cancellation or status change cannot leave stale
// entries behind.
type DirectoryService struct {
	reader  ports.LedgerReader
	workers int
	log     zerolog.Logger
}

func NewDirectoryService(reader ports.LedgerReader, workers int, log zerolog.Logger) *DirectoryService {
	if workers <= 0 {
		workers = defaultFetchWorkers
	}
	return &DirectoryService{reader: reader, workers: workers, log: log}
}

// Rebuild derives the sessions addr participates in under the given role.
// An unregistered identity has no sessions by definition.
func (s *DirectoryService) Rebuild(ctx context.Context, addr domain.Address, role domain.Role) (*ports.Directory, error) {
	started := time.Now()

	var (
		dir *ports.Directory
		err error
	)
	switch role {
	case domain.RoleStudent:
		dir, err = s.buildForStudent(ctx, addr)
	case domain.RoleTutor:
		dir, err = s.buildForTutor(ctx, addr)
	default:
		dir = &ports.Directory{BuiltAt: time.Now().UTC()}
	}
	if err != nil {
		return nil, err
	}

	metrics.DirectoryRebuildDuration.WithLabelValues(string(role)).Observe(time.Since(started).Seconds())
	metrics.DirectorySessions.WithLabelValues(string(role)).Set(float64(len(dir.Sessions)))
	if dir.FailedFetches > 0 {
		metrics.DirectoryFetchFailures.Add(float64(dir.FailedFetches))
		s.log.Warn().
			Int("failed", dir.FailedFetches).
			Int("listed", len(dir.Sessions)).
			Str("role", string(role)).
			Msg("directory rebuilt with dropped sessions; list may under-report")
	}
	return dir, nil
}

// buildForStudent uses the ledger's per-student index: one id-list query,
// then one detail fetch per id. O(k) in the student's history length.
func (s *DirectoryService) buildForStudent(ctx context.Context, addr domain.Address) (*ports.Directory, error) {
	ids, err := s.reader.StudentHistory(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("student history: %w", err)
	}
	sessions, failed := s.fetchSessions(ctx, ids, nil)
	return &ports.Directory{Sessions: sessions, FailedFetches: failed, BuiltAt: time.Now().UTC()}, nil
}

// buildForTutor scans the entire id space because the ledger keeps no
// per-tutor index. O(n) in the global session counter: correct but not
// scalable, and fixing it needs a tutor-indexed query on the contract,
// which is outside this client's control.
func (s *DirectoryService) buildForTutor(ctx context.Context, addr domain.Address) (*ports.Directory, error) {
	count, err := s.reader.SessionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("session count: %w", err)
	}

	ids := make([]uint64, 0, count)
	for id := uint64(1); id <= count; id++ {
		ids = append(ids, id)
	}
	sessions, failed := s.fetchSessions(ctx, ids, func(sess *domain.Session) bool {
		return sess.Tutor.Equal(addr)
	})
	return &ports.Directory{Sessions: sessions, FailedFetches: failed, BuiltAt: time.Now().UTC()}, nil
}

// fetchSessions fetches session details concurrently over a fixed worker
// pool. Fetches are independent: a failed id is counted and skipped, never
// aborting or corrupting its siblings. keep filters the result when
// non-nil.
func (s *DirectoryService) fetchSessions(ctx context.Context, ids []uint64, keep func(*domain.Session) bool) ([]domain.Session, int) {
	if len(ids) == 0 {
		return nil, 0
	}

	workers := s.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		matched []domain.Session
		failed  int
	)
	work := make(chan uint64)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for id := range work {
				sess, err := s.reader.SessionInfo(ctx, id)
				mu.Lock()
				switch {
				case err != nil:
					failed++
					s.log.Debug().Err(err).Uint64("session_id", id).Msg("session fetch dropped")
				case keep == nil || keep(sess):
					matched = append(matched, *sess)
				}
				mu.Unlock()
			}
		}()
	}

	for _, id := range ids {
		work <- id
	}
	close(work)
	wg.Wait()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, failed
}
