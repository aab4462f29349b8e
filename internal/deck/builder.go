package deck

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default scheduling policy.
const (
	DefaultSize               = 20
	DefaultRecentMistakes     = 5
	DefaultStaleChecks        = 2
	DefaultStaleAfter         = 7 * 24 * time.Hour
	DefaultWeakTopicThreshold = domain.PassingSuccessRate
)

// Stage names, used in logs, spans and StoreError.Operation.
const (
	StageRecentMistakes      = "recent_mistakes"
	StageOutstandingMistakes = "outstanding_mistakes"
	StageStaleVerification   = "stale_verification"
	StageWeakTopics          = "weak_topics"
	StageRandomFill          = "random_fill"
)

var tracer = otel.Tracer("github.com/phrazzld/drill-api/internal/deck")

// Options configures the Builder.
type Options struct {
	// Size caps the number of questions in a deck.
	Size int
	// RecentMistakes is how many recently missed questions are carried over.
	RecentMistakes int
	// StaleChecks is how many mastered-but-stale questions are re-verified.
	StaleChecks int
	// StaleAfter is the age after which a mastered answer counts as stale.
	StaleAfter time.Duration
	// WeakTopicThreshold is the topic success rate below which a topic is weak.
	WeakTopicThreshold float64
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns the exam-preparation policy.
func DefaultOptions() Options {
	return Options{
		Size:               DefaultSize,
		RecentMistakes:     DefaultRecentMistakes,
		StaleChecks:        DefaultStaleChecks,
		StaleAfter:         DefaultStaleAfter,
		WeakTopicThreshold: DefaultWeakTopicThreshold,
	}
}

func (o Options) validate() error {
	switch {
	case o.Size <= 0:
		return domain.NewValidationError("size", "must be positive", domain.ErrValidation)
	case o.RecentMistakes < 0:
		return domain.NewValidationError("recent_mistakes", "cannot be negative", domain.ErrValidation)
	case o.StaleChecks < 0:
		return domain.NewValidationError("stale_checks", "cannot be negative", domain.ErrValidation)
	case o.StaleAfter <= 0:
		return domain.NewValidationError("stale_after", "must be positive", domain.ErrValidation)
	}
	return nil
}

// Builder selects the questions of a user's next practice session.
//
// It applies five stages in fixed priority order: recent mistakes, outstanding
// mistakes, stale mastered questions, weak topics and random fill. Each stage
// appends ids that are not yet present until the deck is full, at which point
// the remaining stages are skipped. Stages run sequentially because each one
// excludes what the previous ones selected.
//
// The Builder only reads; it is safe for concurrent use.
type Builder struct {
	repo   Repository
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a Builder reading from repo.
func NewBuilder(repo Repository, opts Options, logger *slog.Logger) (*Builder, error) {
	if repo == nil {
		return nil, domain.NewValidationError("repo", "cannot be nil", domain.ErrValidation)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		repo:   repo,
		opts:   opts,
		logger: logger.With(slog.String("component", "deck_builder")),
	}, nil
}

// Size returns the configured deck capacity.
func (b *Builder) Size() int {
	return b.opts.Size
}

// BuildDailyDeck returns the ordered question ids for userID's next session:
// at most Size ids, none repeated. Any store failure aborts the whole build
// with a *StoreError; no partial deck is returned.
func (b *Builder) BuildDailyDeck(ctx context.Context, userID string) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)

	ctx, span := tracer.Start(ctx, "deck.BuildDailyDeck",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("deck.size", b.opts.Size),
		))
	defer span.End()

	d := newDraft(b.opts.Size)
	for _, st := range b.stages() {
		if d.full() {
			break
		}
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		before := d.count()
		if err := b.runStage(ctx, st, userID, d); err != nil {
			log.Error("deck stage failed",
				slog.String("stage", st.name),
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, newStoreError(st.name, err)
		}

		log.Debug("deck stage completed",
			slog.String("stage", st.name),
			slog.String("user_id", userID),
			slog.Int("added", d.count()-before),
			slog.Int("deck_size", d.count()))
	}

	ids := d.result()
	span.SetAttributes(attribute.Int("deck.length", len(ids)))
	return ids, nil
}

type stage struct {
	name string
	run  func(ctx context.Context, userID string, d *draft) error
}

func (b *Builder) stages() []stage {
	return []stage{
		{StageRecentMistakes, b.recentMistakes},
		{StageOutstandingMistakes, b.outstandingMistakes},
		{StageStaleVerification, b.staleVerification},
		{StageWeakTopics, b.weakTopics},
		{StageRandomFill, b.randomFill},
	}
}

func (b *Builder) runStage(ctx context.Context, st stage, userID string, d *draft) error {
	ctx, span := tracer.Start(ctx, "deck.stage."+st.name)
	defer span.End()

	before := d.count()
	if err := st.run(ctx, userID, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("deck.added", d.count()-before))
	return nil
}

func (b *Builder) recentMistakes(ctx context.Context, userID string, d *draft) error {
	if b.opts.RecentMistakes == 0 {
		return nil
	}
	ids, err := b.repo.RecentMistakes(ctx, userID, b.opts.RecentMistakes)
	if err != nil {
		return err
	}
	d.pushAll(ids)
	return nil
}

func (b *Builder) outstandingMistakes(ctx context.Context, userID string, d *draft) error {
	ids, err := b.repo.OutstandingMistakes(ctx, userID)
	if err != nil {
		return err
	}
	d.pushAll(ids)
	return nil
}

func (b *Builder) staleVerification(ctx context.Context, userID string, d *draft) error {
	if b.opts.StaleChecks == 0 {
		return nil
	}
	cutoff := b.opts.Now().UTC().Add(-b.opts.StaleAfter)
	ids, err := b.repo.StaleMastered(ctx, userID, cutoff, b.opts.StaleChecks)
	if err != nil {
		return err
	}
	d.pushAll(ids)
	return nil
}

func (b *Builder) weakTopics(ctx context.Context, userID string, d *draft) error {
	topics, err := b.repo.WeakTopics(ctx, userID, b.opts.WeakTopicThreshold)
	if err != nil {
		return err
	}
	for _, topicID := range topics {
		if d.full() {
			break
		}
		ids, err := b.repo.TopicQuestions(ctx, topicID, d.exclusions())
		if err != nil {
			return err
		}
		// A topic whose questions are all in the deck adds nothing.
		d.pushAll(ids)
	}
	return nil
}

func (b *Builder) randomFill(ctx context.Context, _ string, d *draft) error {
	ids, err := b.repo.RandomQuestions(ctx, d.exclusions(), d.remaining())
	if err != nil {
		return err
	}
	d.pushAll(ids)
	return nil
}

// draft is the deck under construction: an ordered, duplicate-free,
// size-capped list of question ids.
type draft struct {
	ids  []string
	seen map[string]struct{}
	size int
}

func newDraft(size int) *draft {
	return &draft{
		ids:  make([]string, 0, size),
		seen: make(map[string]struct{}, size),
		size: size,
	}
}

func (d *draft) push(id string) bool {
	if d.full() {
		return false
	}
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	d.ids = append(d.ids, id)
	return true
}

func (d *draft) pushAll(ids []string) {
	for _, id := range ids {
		if d.full() {
			return
		}
		d.push(id)
	}
}

func (d *draft) count() int { return len(d.ids) }

func (d *draft) full() bool { return len(d.ids) >= d.size }

func (d *draft) remaining() int { return d.size - len(d.ids) }

// exclusions returns a copy of the selected ids, safe to hand to a repository.
func (d *draft) exclusions() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

func (d *draft) result() []string {
	if len(d.ids) > d.size {
		return d.ids[:d.size]
	}
	return d.ids
}
