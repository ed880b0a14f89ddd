package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"veritas/internal/platform/config"
	"veritas/internal/verification/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/circuit"
	"veritas/pkg/platform/sentinel"
)

type JudgeSuite struct {
	suite.Suite
}

func TestJudgeSuite(t *testing.T) {
	suite.Run(t, new(JudgeSuite))
}

func (s *JudgeSuite) newClient(baseURL string) *HTTPClient {
	client, err := NewHTTPClient(config.JudgeConfig{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		Backoff:    time.Millisecond,
	})
	s.Require().NoError(err)
	return client
}

func sampleRequest() Request {
	return Request{
		EntityName: "John Smith",
		EntityType: string(models.IndividualForeign),
		Origin:     "foreign",
		Discrepancies: []RequestDiscrepancy{
			{Field: "nationality", Values: []string{"USA", "American"}},
		},
		SourceDocumentCategories: []string{"passport", "proof of address"},
	}
}

// ============================================================
// HTTP Client
// ============================================================

func (s *JudgeSuite) TestEvaluateDecodesVerdicts() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/evaluate", r.URL.Path)

		var req Request
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal("John Smith", req.EntityName)

		json.NewEncoder(w).Encode(Response{
			EvaluatedDiscrepancies: []Verdict{
				{Field: "nationality", Values: []string{"USA", "American"}, IsGenuineDiscrepancy: false, Explanation: "same nationality, different rendering"},
			},
		})
	}))
	defer srv.Close()

	resp, err := s.newClient(srv.URL).Evaluate(context.Background(), sampleRequest())

	s.Require().NoError(err)
	s.Require().Len(resp.EvaluatedDiscrepancies, 1)
	s.False(resp.EvaluatedDiscrepancies[0].IsGenuineDiscrepancy)
}

func (s *JudgeSuite) TestEvaluateRetriesTransientFailures() {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(Response{
			EvaluatedDiscrepancies: []Verdict{{Field: "nationality", IsGenuineDiscrepancy: false, Explanation: "formatting"}},
		})
	}))
	defer srv.Close()

	resp, err := s.newClient(srv.URL).Evaluate(context.Background(), sampleRequest())

	s.Require().NoError(err)
	s.NotNil(resp)
	s.Equal(3, calls)
}

func (s *JudgeSuite) TestEvaluateReportsUnavailableAfterRetries() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := s.newClient(srv.URL).Evaluate(context.Background(), sampleRequest())

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func (s *JudgeSuite) TestEvaluateDoesNotRetryMalformedBody() {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := s.newClient(srv.URL).Evaluate(context.Background(), sampleRequest())

	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrMalformedResponse)
	s.Equal(1, calls)
}

func (s *JudgeSuite) TestEvaluateRejectsVerdictWithoutField() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{
			EvaluatedDiscrepancies: []Verdict{{Values: []string{"a", "b"}}},
		})
	}))
	defer srv.Close()

	_, err := s.newClient(srv.URL).Evaluate(context.Background(), sampleRequest())

	s.ErrorIs(err, sentinel.ErrMalformedResponse)
}

func (s *JudgeSuite) TestEvaluateRejectsResponseMissingVerdicts() {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		json.NewEncoder(w).Encode(Response{})
	}))
	defer srv.Close()

	_, err := s.newClient(srv.URL).Evaluate(context.Background(), sampleRequest())

	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrMalformedResponse)
	s.Equal(1, calls)
}

func (s *JudgeSuite) TestEvaluateShortCircuitsWhenCircuitOpen() {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(config.JudgeConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Backoff: time.Millisecond,
	}, WithBreaker(circuit.New("judge",
		circuit.WithFailureThreshold(1),
		circuit.WithCooldown(time.Hour),
	)))
	s.Require().NoError(err)

	_, err = client.Evaluate(context.Background(), sampleRequest())
	s.Require().Error(err)
	s.Equal(1, calls)
	s.True(client.Degraded())

	_, err = client.Evaluate(context.Background(), sampleRequest())
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(1, calls)
}

func (s *JudgeSuite) TestNewHTTPClientRequiresBaseURL() {
	_, err := NewHTTPClient(config.JudgeConfig{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// ============================================================
// Request construction and verdict handling
// ============================================================

func (s *JudgeSuite) TestNewRequestCarriesSources() {
	entity := models.Entity{
		ID:             id.EntityID(uuid.New()),
		Name:           "John Smith",
		Classification: models.IndividualForeign,
		Fields:         models.NewFieldSources(models.IndividualForeign),
	}
	entity.Fields.Add(models.FieldNationality, models.SourcedValue{Value: "USA", DocumentName: "Passport", DocumentCategory: "passport"})
	entity.Fields.Add(models.FieldNationality, models.SourcedValue{Value: "American", DocumentName: "Visa", DocumentCategory: "visa"})

	discrepancies := []models.Discrepancy{{
		Field:          models.FieldNationality,
		DistinctValues: []string{"USA", "American"},
		Sources: map[string][]models.SourcedValue{
			"USA":      {{Value: "USA", DocumentName: "Passport", DocumentCategory: "passport"}},
			"American": {{Value: "American", DocumentName: "Visa", DocumentCategory: "visa"}},
		},
	}}

	req := NewRequest(entity, discrepancies, "passport, proof of address, visa")

	s.Equal("foreign", req.Origin)
	s.Require().Len(req.Discrepancies, 1)
	s.Equal([]string{"USA", "American"}, req.Discrepancies[0].Values)
	s.Len(req.Discrepancies[0].Sources, 2)
	s.Equal([]string{"passport", "visa"}, req.SourceDocumentCategories)
}

func (s *JudgeSuite) TestFallbackMarksEveryDiscrepancyGenuine() {
	req := sampleRequest()
	req.Discrepancies = append(req.Discrepancies, RequestDiscrepancy{Field: "legal_name", Values: []string{"A", "B"}})

	resp := FallbackAllGenuine(req)

	s.Require().Len(resp.EvaluatedDiscrepancies, 2)
	for _, v := range resp.EvaluatedDiscrepancies {
		s.True(v.IsGenuineDiscrepancy)
		s.NotEmpty(v.Explanation)
	}
}

func (s *JudgeSuite) TestSplitPartitionsVerdicts() {
	req := sampleRequest()
	req.Discrepancies = []RequestDiscrepancy{
		{Field: "legal_name", Values: []string{"A", "B"}},
		{Field: "nationality", Values: []string{"USA", "American"}},
	}

	genuine, resolved := Split(req, &Response{
		EvaluatedDiscrepancies: []Verdict{
			{Field: "legal_name", Values: []string{"A", "B"}, IsGenuineDiscrepancy: true, Explanation: "different persons"},
			{Field: "nationality", Values: []string{"USA", "American"}, IsGenuineDiscrepancy: false, Explanation: "formatting"},
		},
	})

	s.Require().Len(genuine, 1)
	s.Equal(models.FieldLegalName, genuine[0].Field)
	s.Require().Len(resolved, 1)
	s.Equal(models.FieldNationality, resolved[0].Field)
}

func (s *JudgeSuite) TestSplitKeepsUnansweredDiscrepanciesGenuine() {
	req := sampleRequest()
	req.Discrepancies = []RequestDiscrepancy{
		{Field: "legal_name", Values: []string{"A", "B"}},
		{Field: "nationality", Values: []string{"USA", "American"}},
	}

	genuine, resolved := Split(req, &Response{
		EvaluatedDiscrepancies: []Verdict{
			{Field: "nationality", Values: []string{"USA", "American"}, IsGenuineDiscrepancy: false, Explanation: "formatting"},
		},
	})

	s.Require().Len(genuine, 1)
	s.Equal(models.FieldLegalName, genuine[0].Field)
	s.Contains(genuine[0].Explanation, "unresolved")
	s.Require().Len(resolved, 1)
	s.Equal(models.FieldNationality, resolved[0].Field)
}

// ============================================================
// Fingerprint
// ============================================================

func (s *JudgeSuite) TestFingerprintIgnoresDiscrepancyOrder() {
	a := sampleRequest()
	a.Discrepancies = []RequestDiscrepancy{
		{Field: "legal_name", Values: []string{"A", "B"}},
		{Field: "nationality", Values: []string{"USA", "American"}},
	}
	b := sampleRequest()
	b.Discrepancies = []RequestDiscrepancy{
		{Field: "nationality", Values: []string{"USA", "American"}},
		{Field: "legal_name", Values: []string{"A", "B"}},
	}

	s.Equal(Fingerprint(a), Fingerprint(b))
}

func (s *JudgeSuite) TestFingerprintSeparatesEntities() {
	a := sampleRequest()
	b := sampleRequest()
	b.EntityName = "Jane Smith"

	s.NotEqual(Fingerprint(a), Fingerprint(b))
}

// ============================================================
// Verdict cache
// ============================================================

type fakeCmdable struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	sets   int
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}}
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

type stubJudge struct {
	calls int
	resp  *Response
	err   error
}

func (j *stubJudge) Evaluate(ctx context.Context, req Request) (*Response, error) {
	j.calls++
	if j.err != nil {
		return nil, j.err
	}
	return j.resp, nil
}

func (s *JudgeSuite) TestCachedJudgeServesSecondCallFromCache() {
	inner := &stubJudge{resp: &Response{
		EvaluatedDiscrepancies: []Verdict{{Field: "nationality", IsGenuineDiscrepancy: false, Explanation: "formatting"}},
	}}
	cache := newFakeCmdable()
	cached := NewCachedJudge(inner, cache, time.Hour, nil)

	first, err := cached.Evaluate(context.Background(), sampleRequest())
	s.Require().NoError(err)

	second, err := cached.Evaluate(context.Background(), sampleRequest())
	s.Require().NoError(err)

	s.Equal(1, inner.calls)
	s.Equal(first.EvaluatedDiscrepancies, second.EvaluatedDiscrepancies)
	s.Equal(1, cache.sets)
}

func (s *JudgeSuite) TestCachedJudgeDoesNotCacheFailures() {
	inner := &stubJudge{err: errors.New("judge down")}
	cache := newFakeCmdable()
	cached := NewCachedJudge(inner, cache, time.Hour, nil)

	_, err := cached.Evaluate(context.Background(), sampleRequest())

	s.Error(err)
	s.Equal(0, cache.sets)
}

func (s *JudgeSuite) TestNilCacheReturnsInnerJudge() {
	inner := &stubJudge{resp: &Response{}}
	s.Same(Judge(inner), NewCachedJudge(inner, nil, time.Hour, nil))
}
