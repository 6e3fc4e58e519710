package storage

import "context"

// instrumentedStore records hits, misses and write failures for a group.
type instrumentedStore struct {
	inner Store
	group string
}

func newInstrumentedStore(inner Store, group string) *instrumentedStore {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedStore{inner: inner, group: group}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := s.inner.Get(ctx, key)
	if ok {
		HitsTotal.WithLabelValues(s.group).Inc()
	} else {
		MissesTotal.WithLabelValues(s.group).Inc()
	}
	return val, ok
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.inner.Set(ctx, key, value)
	if err != nil {
		WriteErrorsTotal.WithLabelValues(s.group).Inc()
	}
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	err := s.inner.Delete(ctx, key)
	if err != nil {
		WriteErrorsTotal.WithLabelValues(s.group).Inc()
	}
	return err
}

func (s *instrumentedStore) Len(ctx context.Context) int {
	return s.inner.Len(ctx)
}

// Close unregisters the entries collector and closes the underlying store.
func (s *instrumentedStore) Close() error {
	unregisterEntriesCollector(s.group)
	return s.inner.Close()
}
