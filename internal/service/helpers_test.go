package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/repository"
)

var errBoom = errors.New("boom")

func newCatalog(t *testing.T) *HerbCatalog {
	t.Helper()
	repo, err := repository.NewHerbRepository("")
	require.NoError(t, err)
	return NewHerbCatalog(repo)
}

func newLocationRepo(t *testing.T) *repository.LocationRepository {
	t.Helper()
	repo, err := repository.NewLocationRepository("")
	require.NoError(t, err)
	return repo
}

type fixedWeather struct {
	weather entities.Weather
	err     error
}

func (f fixedWeather) CurrentWeather(ctx context.Context, _ string) (entities.Weather, error) {
	if f.err != nil {
		return entities.Weather{}, f.err
	}
	if err := ctx.Err(); err != nil {
		return entities.Weather{}, err
	}
	return f.weather, nil
}

type fakeGeolocation struct {
	coords entities.Coordinates
	err    error
	block  bool
}

func (f fakeGeolocation) Locate(ctx context.Context) (entities.Coordinates, error) {
	if f.block {
		<-ctx.Done()
		return entities.Coordinates{}, ctx.Err()
	}
	return f.coords, f.err
}

type fakeGeocoder struct {
	place entities.Place
	err   error
}

func (f fakeGeocoder) ReverseGeocode(context.Context, entities.Coordinates) (entities.Place, error) {
	return f.place, f.err
}

type fakeRemedies struct {
	result *entities.RemedyResult
	err    error
	panic  bool
	calls  int
}

func (f *fakeRemedies) QueryRemedy(context.Context, string) (*entities.RemedyResult, error) {
	f.calls++
	if f.panic {
		panic("remedy client exploded")
	}
	return f.result, f.err
}

type routerOpts struct {
	weather  WeatherProvider
	geo      GeolocationProvider
	geocoder ReverseGeocoder
	remedies RemedyClient
	timeout  time.Duration
}

func newRouter(t *testing.T, o routerOpts) *IntentRouter {
	t.Helper()
	if o.weather == nil {
		o.weather = fixedWeather{weather: entities.Weather{Temperature: 35, Humidity: 50, Condition: "sunny"}}
	}
	if o.geo == nil {
		o.geo = fakeGeolocation{err: ErrNoSharedLocation}
	}
	if o.geocoder == nil {
		o.geocoder = fakeGeocoder{}
	}
	if o.remedies == nil {
		o.remedies = &fakeRemedies{result: &entities.RemedyResult{Status: "fail", Message: "nothing"}}
	}

	return NewIntentRouter(
		newCatalog(t),
		NewLocationService(newLocationRepo(t), o.weather),
		o.geo,
		o.geocoder,
		o.remedies,
		o.timeout,
		zap.NewNop(),
	)
}

// manualScheduler fires callbacks only when told to.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	d       time.Duration
	stopped bool
	fired   bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{f: f, d: d}
	s.pending = append(s.pending, t)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// FireAll runs every pending, unstopped callback and returns how many ran.
func (s *manualScheduler) FireAll() int {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.pending = nil
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (s *manualScheduler) LastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return 0
	}
	return s.pending[len(s.pending)-1].d
}

type fakeOracle struct {
	mu        sync.Mutex
	start     *entities.QuizStart
	startErr  error
	answerErr error
	answers   map[int]entities.QuizAnswer
	// gate, when set, blocks SubmitAnswer until it is closed.
	gate chan struct{}
}

func (f *fakeOracle) StartQuiz(context.Context) (*entities.QuizStart, error) {
	return f.start, f.startErr
}

func (f *fakeOracle) SubmitAnswer(_ context.Context, questionID int, option string) (*entities.QuizAnswer, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	a, ok := f.answers[questionID]
	if !ok {
		return nil, errors.New("question not found")
	}
	a.Correct = a.Correct && option != "wrong"
	return &a, nil
}

func twoQuestionOracle() *fakeOracle {
	q1 := &entities.QuizQuestion{ID: 1, Question: "Q1", Options: []string{"Brahmi", "wrong"}}
	q2 := &entities.QuizQuestion{ID: 2, Question: "Q2", Options: []string{"Pitta", "wrong"}}
	return &fakeOracle{
		start: &entities.QuizStart{Question: q1, TotalQuestions: 2},
		answers: map[int]entities.QuizAnswer{
			1: {Correct: true, Explanation: "E1", Next: q2},
			2: {Correct: true, Explanation: "E2"},
		},
	}
}

type memTranscript struct {
	mu   sync.Mutex
	msgs []*entities.TranscriptMessage
}

func (m *memTranscript) Append(_ context.Context, msg *entities.TranscriptMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memTranscript) List(_ context.Context, chatID int64, limit int) ([]*entities.TranscriptMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.TranscriptMessage
	for _, msg := range m.msgs {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memTranscript) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.msgs[:0]
	for _, msg := range m.msgs {
		if msg.ChatID != chatID {
			kept = append(kept, msg)
		}
	}
	m.msgs = kept
	return nil
}

func (m *memTranscript) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	kept := m.msgs[:0]
	for _, msg := range m.msgs {
		if msg.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, msg)
	}
	m.msgs = kept
	return n, nil
}

type memResults struct {
	mu      sync.Mutex
	results []*entities.QuizResult
}

func (m *memResults) Save(_ context.Context, r *entities.QuizResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memResults) ListByChat(_ context.Context, chatID int64, _ int) ([]*entities.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.QuizResult
	for _, r := range m.results {
		if r.ChatID == chatID {
			out = append(out, r)
		}
	}
	return out, nil
}
