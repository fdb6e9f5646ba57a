package processor

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/logger"
	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/source"
)

const feed = "date,category,brand,description,channel,customer,phone,sales,cost\n" +
	"2024-01-10,가방,Chanel,handle,store,Kim,010-1234-5678,1000000,200000\n" +
	"2024-03-10,지갑,Chanel,edge,store,Kim,010-1234-5678,1200000,0\n" +
	"2024-03-20,신발,Gucci,heel,post,Lee,010-9876-5432,50000,0\n"

type fakeFetcher struct {
	payload source.Payload
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, location string) (source.Payload, error) {
	f.calls++
	if f.err != nil {
		return source.Payload{}, f.err
	}
	p := f.payload
	p.Location = location
	return p, nil
}

func newTestStore(f Fetcher) *Store {
	parser := dataset.NewParser(normalize.NewBrands(catalog.Default().Brands), dataset.Options{})
	s := NewStore(f, parser, retention.NewEngine(retention.DefaultConfig()), "ledger.csv", logger.Discard().Component("processor"))
	s.now = func() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestStoreLoad(t *testing.T) {
	f := &fakeFetcher{payload: source.Payload{Kind: source.KindCSV, Data: []byte(feed)}}
	s := newTestStore(f)

	_, ok := s.Snapshot()
	assert.False(t, ok)
	assert.Equal(t, StatusEmpty, s.State().Status)

	require.NoError(t, s.Load(context.Background()))
	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Records, 3)
	assert.Len(t, snap.Profiles, 2)
	assert.Equal(t, "2024-03-20", snap.Reference)
	assert.Equal(t, "ledger.csv", snap.Source)
	assert.Equal(t, 2, snap.Overview.TotalCustomers)

	st := s.State()
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, 2, st.Customers)
	assert.Empty(t, st.Error)

	kim, ok := snap.Profile("01012345678")
	require.True(t, ok)
	assert.Equal(t, 2, kim.VisitCount)
	assert.Len(t, snap.History("01012345678"), 2)
	assert.Empty(t, snap.History("000"))
}

func TestStoreKeepsSnapshotOnFailure(t *testing.T) {
	f := &fakeFetcher{payload: source.Payload{Kind: source.KindCSV, Data: []byte(feed)}}
	s := newTestStore(f)
	require.NoError(t, s.Load(context.Background()))

	f.err = fmt.Errorf("%w: boom", source.ErrTransport)
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, source.ErrTransport)

	st := s.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Contains(t, st.Error, "boom")
	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Records, 3)
}

func TestStoreEmptyFeed(t *testing.T) {
	f := &fakeFetcher{payload: source.Payload{Kind: source.KindCSV, Data: []byte("date,sales\n")}}
	s := newTestStore(f)

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, dataset.ErrNoRecords)
	assert.Equal(t, StatusEmpty, s.State().Status)
	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.True(t, snap.Empty())
	assert.NotNil(t, snap.Profiles)
}

func TestStoreReplace(t *testing.T) {
	s := newTestStore(&fakeFetcher{err: source.ErrTransport})

	require.NoError(t, s.Replace("upload.csv", []byte(feed)))
	assert.Equal(t, "upload.csv", s.State().Source)

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"date", "brand", "phone", "sales"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"2024-05-01", "hermes", "010-5555-6666", 300000}))
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	require.NoError(t, s.Replace("upload.xlsx", buf.Bytes()))
	snap, _ := s.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Hermes", snap.Records[0].Brand)

	err := s.Replace("broken.xlsx", []byte("not a zip"))
	assert.ErrorIs(t, err, dataset.ErrWorkbook)
	assert.Equal(t, StatusError, s.State().Status)
	snap, _ = s.Snapshot()
	assert.Len(t, snap.Records, 1)
}

func TestBuildNilRecords(t *testing.T) {
	snap := Build(dataset.Result{}, retention.NewEngine(retention.DefaultConfig()), "x", time.Now())
	assert.True(t, snap.Empty())
	assert.NotNil(t, snap.Records)
	assert.Empty(t, snap.Reference)

	var missing *Snapshot
	_, ok := missing.Profile("x")
	assert.False(t, ok)
}
