package deck

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/store"
)

// fakeRepository serves canned stage results. TopicQuestions and
// RandomQuestions honour exclusions and limits the way the SQL store does,
// but in a fixed order so tests stay deterministic.
type fakeRepository struct {
	mu sync.Mutex

	recent      []string
	outstanding []string
	stale       []string
	weakTopics  []string
	topics      map[string][]string
	bank        []string

	errs map[string]error

	calls         []string
	recentLimit   int
	staleCutoff   time.Time
	staleLimit    int
	randomLimit   int
	randomExclude []string
}

func (f *fakeRepository) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeRepository) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, name)
}

func (f *fakeRepository) RecentMistakes(_ context.Context, _ string, limit int) ([]string, error) {
	if err := f.record(StageRecentMistakes); err != nil {
		return nil, err
	}
	f.recentLimit = limit
	return take(f.recent, limit), nil
}

func (f *fakeRepository) OutstandingMistakes(_ context.Context, _ string) ([]string, error) {
	if err := f.record(StageOutstandingMistakes); err != nil {
		return nil, err
	}
	return f.outstanding, nil
}

func (f *fakeRepository) StaleMastered(_ context.Context, _ string, before time.Time, limit int) ([]string, error) {
	if err := f.record(StageStaleVerification); err != nil {
		return nil, err
	}
	f.staleCutoff = before
	f.staleLimit = limit
	return take(f.stale, limit), nil
}

func (f *fakeRepository) WeakTopics(_ context.Context, _ string, _ float64) ([]string, error) {
	if err := f.record(StageWeakTopics); err != nil {
		return nil, err
	}
	return f.weakTopics, nil
}

func (f *fakeRepository) TopicQuestions(_ context.Context, topicID string, exclude []string) ([]string, error) {
	if err := f.record("topic_questions:" + topicID); err != nil {
		return nil, err
	}
	return without(f.topics[topicID], exclude), nil
}

func (f *fakeRepository) RandomQuestions(_ context.Context, exclude []string, limit int) ([]string, error) {
	if err := f.record(StageRandomFill); err != nil {
		return nil, err
	}
	f.randomLimit = limit
	f.randomExclude = exclude
	return take(without(f.bank, exclude), limit), nil
}

func take(ids []string, n int) []string {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}

func without(ids, exclude []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(exclude, id) {
			out = append(out, id)
		}
	}
	return out
}

func questionIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%03d", prefix, i+1)
	}
	return ids
}

// fakeStore is an in-memory Writer, Queries and UnitOfWork. Within works on a
// copy of the state and only publishes it when fn succeeds, so a failing unit
// of work leaves nothing behind.
type fakeStore struct {
	mu    sync.Mutex
	state *fakeState

	// failOn makes the named Writer method fail inside a unit of work.
	failOn map[string]error
}

type fakeState struct {
	questions map[string]string
	decks     map[uuid.UUID]*domain.Deck
	events    []domain.AnswerEvent
	qstats    map[[2]string]domain.UserQuestionStat
	tstats    map[[2]string]domain.UserTopicStat
}

func newFakeStore(questions map[string]string) *fakeStore {
	return &fakeStore{
		state: &fakeState{
			questions: questions,
			decks:     map[uuid.UUID]*domain.Deck{},
			qstats:    map[[2]string]domain.UserQuestionStat{},
			tstats:    map[[2]string]domain.UserTopicStat{},
		},
		failOn: map[string]error{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		questions: s.questions,
		decks:     make(map[uuid.UUID]*domain.Deck, len(s.decks)),
		events:    slices.Clone(s.events),
		qstats:    make(map[[2]string]domain.UserQuestionStat, len(s.qstats)),
		tstats:    make(map[[2]string]domain.UserTopicStat, len(s.tstats)),
	}
	for id, d := range s.decks {
		c.decks[id] = cloneDeck(d)
	}
	for k, v := range s.qstats {
		c.qstats[k] = v
	}
	for k, v := range s.tstats {
		c.tstats[k] = v
	}
	return c
}

func cloneDeck(d *domain.Deck) *domain.Deck {
	cp := *d
	cp.Items = make([]domain.DeckItem, len(d.Items))
	for i, item := range d.Items {
		cp.Items[i] = item
		if item.AnsweredCorrectly != nil {
			v := *item.AnsweredCorrectly
			cp.Items[i].AnsweredCorrectly = &v
		}
	}
	return &cp
}

func (f *fakeStore) Within(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := &fakeWriter{state: f.state.clone(), failOn: f.failOn}
	if err := fn(ctx, w); err != nil {
		return err
	}
	f.state = w.state
	return nil
}

func (f *fakeStore) GetDeck(_ context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.state.decks[deckID]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return cloneDeck(d), nil
}

func (f *fakeStore) TopicStats(_ context.Context, userID string) ([]domain.UserTopicStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["TopicStats"]; err != nil {
		return nil, err
	}
	var out []domain.UserTopicStat
	for k, v := range f.state.tstats {
		if k[0] == userID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b domain.UserTopicStat) int {
		switch {
		case a.SuccessRate < b.SuccessRate:
			return -1
		case a.SuccessRate > b.SuccessRate:
			return 1
		}
		return 0
	})
	return out, nil
}

func (f *fakeStore) deckCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.state.decks)
}

type fakeWriter struct {
	state  *fakeState
	failOn map[string]error
}

func (w *fakeWriter) CreateDeck(_ context.Context, d *domain.Deck) error {
	if err := w.failOn["CreateDeck"]; err != nil {
		return err
	}
	if _, ok := w.state.decks[d.ID]; ok {
		return store.ErrDuplicate
	}
	header := *d
	header.Items = nil
	w.state.decks[d.ID] = &header
	return nil
}

func (w *fakeWriter) InsertItems(_ context.Context, items []domain.DeckItem) error {
	if err := w.failOn["InsertItems"]; err != nil {
		return err
	}
	for _, item := range items {
		d, ok := w.state.decks[item.DeckID]
		if !ok {
			return store.ErrInvalidEntity
		}
		d.Items = append(d.Items, item)
	}
	return nil
}

func (w *fakeWriter) GetDeck(_ context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	d, ok := w.state.decks[deckID]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return cloneDeck(d), nil
}

func (w *fakeWriter) QuestionTopic(_ context.Context, questionID string) (string, error) {
	topic, ok := w.state.questions[questionID]
	if !ok {
		return "", store.ErrQuestionNotFound
	}
	return topic, nil
}

func (w *fakeWriter) MarkItem(_ context.Context, deckID uuid.UUID, questionID string, correct bool) error {
	d, ok := w.state.decks[deckID]
	if !ok {
		return store.ErrDeckItemNotFound
	}
	item, ok := d.Item(questionID)
	if !ok {
		return store.ErrDeckItemNotFound
	}
	item.AnsweredCorrectly = &correct
	return nil
}

func (w *fakeWriter) InsertAnswerEvent(_ context.Context, ev *domain.AnswerEvent) error {
	if err := w.failOn["InsertAnswerEvent"]; err != nil {
		return err
	}
	w.state.events = append(w.state.events, *ev)
	return nil
}

func (w *fakeWriter) GetQuestionStat(_ context.Context, userID, questionID string) (*domain.UserQuestionStat, error) {
	s, ok := w.state.qstats[[2]string{userID, questionID}]
	if !ok {
		s = domain.UserQuestionStat{UserID: userID, QuestionID: questionID}
	}
	return &s, nil
}

func (w *fakeWriter) SaveQuestionStat(_ context.Context, s *domain.UserQuestionStat) error {
	w.state.qstats[[2]string{s.UserID, s.QuestionID}] = *s
	return nil
}

func (w *fakeWriter) GetTopicStat(_ context.Context, userID, topicID string) (*domain.UserTopicStat, error) {
	s, ok := w.state.tstats[[2]string{userID, topicID}]
	if !ok {
		s = domain.UserTopicStat{UserID: userID, TopicID: topicID}
	}
	return &s, nil
}

func (w *fakeWriter) SaveTopicStat(_ context.Context, s *domain.UserTopicStat) error {
	if err := w.failOn["SaveTopicStat"]; err != nil {
		return err
	}
	w.state.tstats[[2]string{s.UserID, s.TopicID}] = *s
	return nil
}

func (w *fakeWriter) DeleteUserData(_ context.Context, userID string) error {
	if err := w.failOn["DeleteUserData"]; err != nil {
		return err
	}
	for id, d := range w.state.decks {
		if d.UserID == userID {
			delete(w.state.decks, id)
		}
	}
	w.state.events = slices.DeleteFunc(w.state.events, func(ev domain.AnswerEvent) bool {
		return ev.UserID == userID
	})
	for k := range w.state.qstats {
		if k[0] == userID {
			delete(w.state.qstats, k)
		}
	}
	for k := range w.state.tstats {
		if k[0] == userID {
			delete(w.state.tstats, k)
		}
	}
	return nil
}

var errBoom = errors.New("connection reset by peer")
