package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/listing"
	"github.com/kailas-cloud/landscan/internal/domain/search/query"
)

// --- Mocks ---

type mockStrategy struct {
	name    string
	pages   map[int][]listing.Raw
	errs    map[int]error
	onFetch func(page int)
	calls   []int
}

func (m *mockStrategy) Name() string { return m.name }

func (m *mockStrategy) Fetch(_ context.Context, _ query.Query, page int) ([]listing.Raw, error) {
	m.calls = append(m.calls, page)
	if m.onFetch != nil {
		m.onFetch(page)
	}
	if err := m.errs[page]; err != nil {
		return nil, err
	}
	return m.pages[page], nil
}

// endless returns full pages for every page number.
type endless struct {
	perPage int
	calls   int
}

func (e *endless) Name() string { return "endless" }

func (e *endless) Fetch(_ context.Context, _ query.Query, page int) ([]listing.Raw, error) {
	e.calls++
	out := make([]listing.Raw, e.perPage)
	for i := range out {
		out[i] = article(fmt.Sprintf("%d-%d", page, i), "사무실")
	}
	return out, nil
}

func article(id, typeLabel string) listing.Raw {
	return listing.Raw(fmt.Sprintf(
		`{"atclNo":%q,"atclNm":"매물 %s","cortarName":"서울시 강남구 역삼동","rletTpNm":%q,`+
			`"tradTpNm":"월세","prc":5000,"rentPrc":80,"spc1":66.12,"spc2":33.06}`,
		id, id, typeLabel))
}

func offices(prefix string, n int) []listing.Raw {
	out := make([]listing.Raw, n)
	for i := range out {
		out[i] = article(fmt.Sprintf("%s%d", prefix, i+1), "사무실")
	}
	return out
}

func newQuery(t *testing.T, maxResults int) query.Query {
	t.Helper()
	minArea, maxArea := 10.0, 50.0
	q, err := query.New(query.Params{
		RegionID:      "1168000000",
		PropertyTypes: []string{"D01"},
		TradeTypes:    []string{"B2"},
		MinAreaPyeong: &minArea,
		MaxAreaPyeong: &maxArea,
		MaxResults:    &maxResults,
	})
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func newService(strategies ...Strategy) *Service {
	return New(listing.NewNormalizer(listing.DefaultTypeTable()), strategies)
}

func ids(ls []listing.Normalized) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

// --- Tests ---

func TestSearch_CapAcrossPagesInOrder(t *testing.T) {
	primary := &mockStrategy{name: "cortar", pages: map[int][]listing.Raw{
		1: {
			article("p1-1", "사무실"),
			article("p1-x", "상가"),
			article("p1-2", "사무실"),
			article("p1-y", "건물"),
			article("p1-3", "사무실"),
		},
		2: offices("p2-", 4),
	}}
	svc := newService(primary)

	res := svc.Search(context.Background(), newQuery(t, 5))

	want := []string{"p1-1", "p1-2", "p1-3", "p2-1", "p2-2"}
	got := ids(res.Listings)
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, l := range res.Listings {
		if l.PropertyType != "사무실" {
			t.Errorf("unexpected property type %q", l.PropertyType)
		}
	}
	if res.Pages != 2 || res.Filtered != 2 || res.Partial {
		t.Errorf("unexpected stats: pages=%d filtered=%d partial=%v", res.Pages, res.Filtered, res.Partial)
	}
	if len(primary.calls) != 2 {
		t.Errorf("expected 2 page fetches, got %v", primary.calls)
	}
	if res.ID == "" {
		t.Error("expected a search id")
	}
}

func TestSearch_FallbackUsedWhenPrimaryEmpty(t *testing.T) {
	primary := &mockStrategy{name: "cortar", pages: map[int][]listing.Raw{1: {}}}
	fallback := &mockStrategy{name: "geo", pages: map[int][]listing.Raw{1: offices("g", 2)}}
	svc := newService(primary, fallback)

	res := svc.Search(context.Background(), newQuery(t, 50))

	if got := ids(res.Listings); len(got) != 2 || got[0] != "g1" || got[1] != "g2" {
		t.Errorf("expected fallback data, got %v", got)
	}
	// page 2: both empty, search stops
	if len(primary.calls) != 2 || len(fallback.calls) != 2 {
		t.Errorf("expected both strategies tried per page, got primary=%v fallback=%v", primary.calls, fallback.calls)
	}
}

func TestSearch_FallbackNotConsultedWhenPrimaryHasData(t *testing.T) {
	primary := &mockStrategy{name: "cortar", pages: map[int][]listing.Raw{1: offices("c", 3)}}
	fallback := &mockStrategy{name: "geo", pages: map[int][]listing.Raw{1: offices("g", 3)}}
	svc := newService(primary, fallback)

	res := svc.Search(context.Background(), newQuery(t, 3))

	if got := ids(res.Listings); got[0] != "c1" {
		t.Errorf("expected primary data, got %v", got)
	}
	if len(fallback.calls) != 0 {
		t.Errorf("fallback should not be called, got %v", fallback.calls)
	}
}

func TestSearch_ErrorsTreatedAsEmpty(t *testing.T) {
	primary := &mockStrategy{name: "cortar", errs: map[int]error{
		1: domain.NewFetchError("cortar", 1, 503, errors.New("Service Unavailable")),
	}}
	fallback := &mockStrategy{name: "geo", pages: map[int][]listing.Raw{1: offices("g", 1)}}
	svc := newService(primary, fallback)

	res := svc.Search(context.Background(), newQuery(t, 50))

	if len(res.Listings) != 1 || res.Listings[0].ID != "g1" {
		t.Errorf("expected fallback listing after primary error, got %v", ids(res.Listings))
	}
	if res.Partial {
		t.Error("upstream errors must not mark the result partial")
	}
}

func TestSearch_BothFailOnFirstPage(t *testing.T) {
	primary := &mockStrategy{name: "cortar", errs: map[int]error{1: domain.NewFetchError("cortar", 1, 0, errors.New("timeout"))}}
	fallback := &mockStrategy{name: "geo", errs: map[int]error{1: fmt.Errorf("%w: unknown region", domain.ErrStrategyUnavailable)}}
	svc := newService(primary, fallback)

	res := svc.Search(context.Background(), newQuery(t, 50))

	if len(res.Listings) != 0 {
		t.Errorf("expected empty result, got %v", ids(res.Listings))
	}
	if res.Listings == nil {
		t.Error("expected non-nil empty listings")
	}
}

func TestSearch_TerminatesOnEmptyFirstPage(t *testing.T) {
	primary := &mockStrategy{name: "cortar"}
	fallback := &mockStrategy{name: "geo"}
	svc := newService(primary, fallback)

	res := svc.Search(context.Background(), newQuery(t, 50))

	if len(res.Listings) != 0 || res.Pages != 1 {
		t.Errorf("expected empty result after 1 page, got %d listings over %d pages", len(res.Listings), res.Pages)
	}
	if len(primary.calls) != 1 || len(fallback.calls) != 1 {
		t.Errorf("expected a single page attempt, got primary=%v fallback=%v", primary.calls, fallback.calls)
	}
}

func TestSearch_NonMatchingPageIsSkipped(t *testing.T) {
	primary := &mockStrategy{name: "cortar", pages: map[int][]listing.Raw{
		1: {article("s1", "상가"), article("s2", "상가")},
		2: offices("o", 2),
	}}
	svc := newService(primary)

	res := svc.Search(context.Background(), newQuery(t, 50))

	if got := ids(res.Listings); len(got) != 2 || got[0] != "o1" {
		t.Errorf("expected page 2 offices, got %v", got)
	}
	if res.Filtered != 2 {
		t.Errorf("expected 2 filtered, got %d", res.Filtered)
	}
	if len(primary.calls) != 3 {
		t.Errorf("expected pages 1..3, got %v", primary.calls)
	}
}

func TestSearch_MalformedRecordsDoNotAbortPage(t *testing.T) {
	primary := &mockStrategy{name: "cortar", pages: map[int][]listing.Raw{
		1: {
			article("a", "사무실"),
			listing.Raw(`{"atclNo":"bad","rletTpNm":"사무실","spc1":"넓음"}`),
			listing.Raw(`"not an object"`),
			article("b", "사무실"),
		},
	}}
	svc := newService(primary)

	res := svc.Search(context.Background(), newQuery(t, 50))

	if got := ids(res.Listings); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected a, b; got %v", got)
	}
	if res.Malformed != 2 {
		t.Errorf("expected 2 malformed, got %d", res.Malformed)
	}
}

func TestSearch_PageCeiling(t *testing.T) {
	src := &endless{perPage: 3}
	svc := New(listing.NewNormalizer(listing.DefaultTypeTable()), []Strategy{src}, WithMaxPages(50))

	res := svc.Search(context.Background(), newQuery(t, 1000))

	if src.calls != MaxPages {
		t.Errorf("expected %d page attempts, got %d", MaxPages, src.calls)
	}
	if res.Pages != MaxPages || len(res.Listings) != 3*MaxPages {
		t.Errorf("unexpected result: pages=%d listings=%d", res.Pages, len(res.Listings))
	}
}

func TestSearch_CustomMaxPages(t *testing.T) {
	src := &endless{perPage: 1}
	svc := New(listing.NewNormalizer(listing.DefaultTypeTable()), []Strategy{src}, WithMaxPages(3))

	res := svc.Search(context.Background(), newQuery(t, 100))

	if src.calls != 3 || len(res.Listings) != 3 {
		t.Errorf("expected 3 pages, got calls=%d listings=%d", src.calls, len(res.Listings))
	}
}

func TestSearch_CapInvariant(t *testing.T) {
	for _, maxResults := range []int{1, 2, 7, 29, 30, 31, 1000} {
		t.Run(fmt.Sprint(maxResults), func(t *testing.T) {
			src := &endless{perPage: 3}
			res := newService(src).Search(context.Background(), newQuery(t, maxResults))

			if len(res.Listings) > maxResults {
				t.Errorf("got %d listings, cap %d", len(res.Listings), maxResults)
			}
			if src.calls > MaxPages {
				t.Errorf("got %d page attempts", src.calls)
			}
		})
	}
}

func TestSearch_CanceledBeforeStart(t *testing.T) {
	primary := &mockStrategy{name: "cortar", pages: map[int][]listing.Raw{1: offices("c", 3)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newService(primary).Search(ctx, newQuery(t, 50))

	if !res.Partial {
		t.Error("expected partial result")
	}
	if len(primary.calls) != 0 {
		t.Errorf("expected no fetches, got %v", primary.calls)
	}
}

func TestSearch_CanceledMidSearchKeepsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	primary := &mockStrategy{
		name:  "cortar",
		pages: map[int][]listing.Raw{1: offices("c", 2), 2: offices("d", 2)},
		onFetch: func(page int) {
			if page == 2 {
				cancel()
			}
		},
		errs: map[int]error{2: context.Canceled},
	}
	fallback := &mockStrategy{name: "geo", pages: map[int][]listing.Raw{2: offices("g", 2)}}

	res := newService(primary, fallback).Search(ctx, newQuery(t, 50))

	if !res.Partial {
		t.Error("expected partial result")
	}
	if got := ids(res.Listings); len(got) != 2 || got[0] != "c1" || got[1] != "c2" {
		t.Errorf("expected page 1 listings, got %v", got)
	}
	if len(fallback.calls) != 0 {
		t.Errorf("fallback must not run after cancellation, got %v", fallback.calls)
	}
}

func TestWithMaxPages_OutOfRange(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, MaxPages},
		{-1, MaxPages},
		{11, MaxPages},
		{5, 5},
	}
	for _, tt := range tests {
		svc := New(nil, nil, WithMaxPages(tt.in))
		if svc.maxPages != tt.want {
			t.Errorf("WithMaxPages(%d) = %d, want %d", tt.in, svc.maxPages, tt.want)
		}
	}
}

type sessionKey struct{}

// sessionStrategy records the session value seen by Fetch.
type sessionStrategy struct {
	seen []any
}

func (s *sessionStrategy) Name() string { return "session" }

func (s *sessionStrategy) Fetch(ctx context.Context, _ query.Query, _ int) ([]listing.Raw, error) {
	s.seen = append(s.seen, ctx.Value(sessionKey{}))
	return nil, nil
}

func TestSearch_SessionPerSearch(t *testing.T) {
	var n int
	st := &sessionStrategy{}
	svc := New(listing.NewNormalizer(listing.DefaultTypeTable()), []Strategy{st},
		WithSession(func(ctx context.Context) context.Context {
			n++
			return context.WithValue(ctx, sessionKey{}, n)
		}))

	svc.Search(context.Background(), newQuery(t, 5))
	svc.Search(context.Background(), newQuery(t, 5))

	if n != 2 {
		t.Fatalf("expected one session per search, got %d", n)
	}
	if len(st.seen) != 2 || st.seen[0] != 1 || st.seen[1] != 2 {
		t.Errorf("fetches did not see their own session: %v", st.seen)
	}
}
