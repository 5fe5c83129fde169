package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pspicdash/domain/sheet"
	"pspicdash/internal/errors"
	"pspicdash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSheetSource struct {
	mock.Mock
}

func (m *MockSheetSource) Fetch(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
	args := m.Called(ctx, ref)
	table, _ := args.Get(0).(*sheet.Table)
	return table, args.Error(1)
}

var (
	acciones = sheet.Ref{Key: "acciones", SpreadsheetID: "s1", GID: "759616433"}
	procesos = sheet.Ref{Key: "procesos", SpreadsheetID: "s1", GID: "20459118"}
)

func table(key string, n int) *sheet.Table {
	t := &sheet.Table{Key: key, Headers: []string{"Zona"}}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, sheet.Row{"Zona": "Urbana"})
	}
	return t
}

func TestLoaderCachesWithinTTL(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, acciones).Return(table("acciones", 3), nil)

	loader := NewLoader(source, time.Minute)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	loader.now = func() time.Time { return now }

	first, err := loader.Fetch(context.Background(), acciones)
	require.NoError(t, err)
	second, err := loader.Fetch(context.Background(), acciones)
	require.NoError(t, err)

	assert.Same(t, first, second)
	source.AssertNumberOfCalls(t, "Fetch", 1)

	now = now.Add(time.Minute)
	_, err = loader.Fetch(context.Background(), acciones)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Fetch", 2)

	loader.Invalidate(acciones)
	_, err = loader.Fetch(context.Background(), acciones)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Fetch", 3)
}

func TestLoaderZeroTTLAlwaysFetches(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, acciones).Return(table("acciones", 1), nil)

	loader := NewLoader(source, 0)
	for i := 0; i < 3; i++ {
		_, err := loader.Fetch(context.Background(), acciones)
		require.NoError(t, err)
	}
	source.AssertNumberOfCalls(t, "Fetch", 3)
}

func TestLoaderLoadParallel(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, acciones).Return(table("acciones", 2), nil)
	source.On("Fetch", mock.Anything, procesos).Return(table("procesos", 5), nil)

	tables, err := NewLoader(source, time.Minute).Load(context.Background(), acciones, procesos)
	require.NoError(t, err)

	assert.Equal(t, 2, tables["acciones"].Len())
	assert.Equal(t, 5, tables["procesos"].Len())
	source.AssertExpectations(t)
}

func TestLoaderLoadFailure(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, acciones).Return(table("acciones", 2), nil)
	source.On("Fetch", mock.Anything, procesos).Return(nil, errors.SheetFetch("Error 404: No se pudo cargar la hoja procesos", nil))

	loader := NewLoader(source, time.Minute)
	tables, err := loader.Load(context.Background(), acciones, procesos)

	require.Error(t, err)
	assert.Nil(t, tables)
	assert.True(t, errors.IsSheetFailure(err))
	assert.Contains(t, err.Error(), "procesos")

	// failures are not cached
	source.ExpectedCalls = nil
	source.On("Fetch", mock.Anything, procesos).Return(table("procesos", 1), nil)
	_, err = loader.Fetch(context.Background(), procesos)
	assert.NoError(t, err)
}

func TestLoaderSharesConcurrentFetches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	source := ports.SheetSourceFunc(func(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
		calls.Add(1)
		<-release
		return table(ref.Key, 1), nil
	})

	loader := NewLoader(source, time.Minute)

	var wg sync.WaitGroup
	results := make([]*sheet.Table, 8)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = loader.Fetch(context.Background(), acciones)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestLoaderPurge(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, mock.Anything).Return(table("x", 1), nil)

	loader := NewLoader(source, time.Hour)
	_, _ = loader.Load(context.Background(), acciones, procesos)
	loader.Purge()
	_, _ = loader.Load(context.Background(), acciones, procesos)

	source.AssertNumberOfCalls(t, "Fetch", 4)
}

func TestLoaderPageFailureDoesNotCancelSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var accionesCalls atomic.Int32
	source := ports.SheetSourceFunc(func(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
		if ref.Key == "procesos" {
			<-started
			return nil, errors.SheetFetch("Error 500: No se pudo cargar la hoja procesos", nil)
		}
		if accionesCalls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return table(ref.Key, 4), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	loader := NewLoader(source, time.Minute)

	type result struct {
		tables map[string]*sheet.Table
		err    error
	}
	pageA := make(chan result, 1)
	go func() {
		tables, err := loader.Load(context.Background(), acciones, procesos)
		pageA <- result{tables, err}
	}()

	<-started
	pageB := make(chan result, 1)
	go func() {
		tables, err := loader.Load(context.Background(), acciones)
		pageB <- result{tables, err}
	}()

	a := <-pageA
	require.Error(t, a.err)
	assert.True(t, errors.IsSheetFailure(a.err))
	assert.Contains(t, a.err.Error(), "procesos")

	close(release)
	b := <-pageB
	require.NoError(t, b.err)
	assert.Equal(t, 4, b.tables["acciones"].Len())
	assert.Equal(t, int32(1), accionesCalls.Load())
}

func TestLoaderCallerCancelIsSheetFailure(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	source := ports.SheetSourceFunc(func(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
		<-release
		return table(ref.Key, 1), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(source, time.Minute).Fetch(ctx, acciones)

	require.Error(t, err)
	assert.True(t, errors.IsSheetFailure(err))
	assert.ErrorIs(t, err, context.Canceled)
}
