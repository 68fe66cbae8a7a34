package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Lesson event filters. Empty means any.
	Wallet   string
	Track    string
	LessonID string
	Kind     string
}

// apply adds the shared sequence/time/limit clauses to a selector.
func (o QueryOpts) apply(s *entsql.Selector) *entsql.Selector {
	if o.After > 0 {
		s = s.Where(entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		s = s.Where(entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		s = s.Where(entsql.GTE("timestamp", formatTime(o.From)))
	}
	if !o.To.IsZero() {
		s = s.Where(entsql.LTE("timestamp", formatTime(o.To)))
	}
	s = s.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		s = s.Limit(o.Limit)
	}
	return s
}

// LessonEventData captures one learner action inside a lesson view.
type LessonEventData struct {
	ViewID     string
	Wallet     string
	Track      string
	LessonID   string
	Kind       string
	QuestionID string
	ChoiceID   string
	Correct    bool
	XP         int
	Detail     string
}

// LessonEventRecord is a stored lesson event.
type LessonEventRecord struct {
	LessonEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLessonEvent records a learner action.
	AppendLessonEvent(ctx context.Context, data LessonEventData) error

	// QueryLessonEvents returns lesson events, newest first.
	QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEventRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event by id, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
}

// eventRepo implements EventRepo backed by the ent SQL driver and the
// global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
