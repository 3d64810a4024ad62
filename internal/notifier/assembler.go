package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/claves/redmine-messenger/internal/format"
	"github.com/claves/redmine-messenger/internal/locale"
	"github.com/claves/redmine-messenger/internal/types"
)

// Resolver is the full mention capability the assembler needs.
// Satisfied by *mention.Resolver.
type Resolver interface {
	UserResolver
	format.Resolver
}

// AssemblerOptions configures the Assembler behavior.
type AssemblerOptions struct {
	RateLimitPerMinute int // default 60, per project
	DefaultLanguage    language.Tag
}

// DefaultAssemblerOptions returns sensible defaults.
func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{
		RateLimitPerMinute: 60,
		DefaultLanguage:    language.English,
	}
}

// projectRateLimiter tracks rate limits per project.
type projectRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time
	rate       rate.Limit
	burst      int
}

func newProjectRateLimiter(perMinute int) *projectRateLimiter {
	return &projectRateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
		rate:       rate.Limit(float64(perMinute) / 60.0),
		burst:      max(1, perMinute/10), // 10% burst, minimum 1
	}
}

func (p *projectRateLimiter) Allow(project string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	limiter, exists := p.limiters[project]
	if !exists {
		limiter = rate.NewLimiter(p.rate, p.burst)
		p.limiters[project] = limiter
	}
	p.lastAccess[project] = time.Now()
	return limiter.Allow()
}

// Evict removes project rate limiters that haven't been accessed within maxAge.
func (p *projectRateLimiter) Evict(maxAge time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for project, last := range p.lastAccess {
		if last.Before(cutoff) {
			delete(p.limiters, project)
			delete(p.lastAccess, project)
		}
	}
}

// Assembler orchestrates one event into one outbound message: recipient
// filtering, field assembly, title formatting, and a single sink call.
// It holds no per-event state; everything is built fresh per invocation.
type Assembler struct {
	logger   *zap.Logger
	sender   Sender
	resolver Resolver
	fields   *FieldBuilder
	limiter  *projectRateLimiter
	opts     AssemblerOptions
}

// NewAssembler creates an Assembler.
func NewAssembler(logger *zap.Logger, sender Sender, resolver Resolver, opts AssemblerOptions) *Assembler {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}
	if opts.DefaultLanguage == (language.Tag{}) {
		opts.DefaultLanguage = language.English
	}
	return &Assembler{
		logger:   logger.Named("assembler"),
		sender:   sender,
		resolver: resolver,
		fields:   NewFieldBuilder(resolver),
		limiter:  newProjectRateLimiter(opts.RateLimitPerMinute),
		opts:     opts,
	}
}

// Start begins the background eviction loop for stale rate limiters.
// Non-blocking.
func (a *Assembler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.limiter.Evict(time.Hour)
			}
		}
	}()
}

// OnCreated dispatches a created-issue event. A suppressed event returns
// a no-op outcome, never an error; a sink failure is propagated unchanged.
func (a *Assembler) OnCreated(ctx context.Context, ev types.Event, cfg types.ProjectConfig) (types.Outcome, error) {
	return a.dispatch(ctx, ev, cfg, locale.KeyIssueCreated)
}

// OnUpdated dispatches an updated-issue event. Updates without an
// associated change record are a no-op.
func (a *Assembler) OnUpdated(ctx context.Context, ev types.Event, cfg types.ProjectConfig) (types.Outcome, error) {
	if ev.Change == nil {
		return a.suppress(ev, types.SuppressNoChange), nil
	}
	return a.dispatch(ctx, ev, cfg, locale.KeyIssueUpdated)
}

func (a *Assembler) dispatch(ctx context.Context, ev types.Event, cfg types.ProjectConfig, titleKey string) (types.Outcome, error) {
	channels, reason := Recipients(ev, cfg, a.resolver)
	if reason != types.SuppressNone {
		return a.suppress(ev, reason), nil
	}

	if !a.limiter.Allow(ev.Project.Identifier) {
		return a.suppress(ev, types.SuppressRateLimited), nil
	}

	payload := a.buildPayload(ev, cfg, titleKey, channels)

	if err := a.sender.Send(ctx, payload); err != nil {
		dispatchTotal.WithLabelValues(string(ev.Kind), "error").Inc()
		a.logger.Error("Delivery failed",
			zap.String("project", ev.Project.Identifier),
			zap.Int64("issue", ev.ID),
			zap.Error(err),
		)
		return types.Outcome{}, fmt.Errorf("deliver %s notification: %w", ev.Kind, err)
	}

	dispatchTotal.WithLabelValues(string(ev.Kind), "delivered").Inc()
	a.logger.Info("Dispatched notification",
		zap.String("project", ev.Project.Identifier),
		zap.Int64("issue", ev.ID),
		zap.String("kind", string(ev.Kind)),
		zap.Int("channels", len(channels)),
	)
	return types.Outcome{Delivered: true}, nil
}

// buildPayload formats the outbound message under the configured default
// language. The locale switch is released before the payload is handed to
// the sink, so a slow delivery never stalls other dispatches; the restore
// runs on every exit path.
func (a *Assembler) buildPayload(ev types.Event, cfg types.ProjectConfig, titleKey string, channels []string) types.Payload {
	restore := locale.Switch(a.opts.DefaultLanguage)
	defer restore()

	payload := types.Payload{
		Channels: channels,
		Endpoint: cfg.WebhookURL,
		Text:     a.title(ev, cfg, titleKey),
		Project:  ev.Project.Identifier,
	}
	if ev.Kind == types.EventUpdated {
		payload.Attachment = a.fields.BuildUpdated(ev, cfg)
	} else {
		payload.Attachment = a.fields.BuildCreated(ev, cfg)
	}
	return payload
}

// title renders the localized message title: project link, issue link
// with an optional mention suffix, and the acting user.
func (a *Assembler) title(ev types.Event, cfg types.ProjectConfig, titleKey string) string {
	projectLink := format.Link(ev.Project.URL, format.Escape(ev.Project.Name))

	issueURL := ev.URL
	if ev.Kind == types.EventUpdated && ev.Change != nil {
		issueURL = fmt.Sprintf("%s#change-%d", ev.URL, ev.Change.ID)
	}
	issueText := format.Markup(fmt.Sprintf("#%d: %s", ev.ID, ev.Subject))
	issueLink := format.Link(issueURL, issueText)

	mentions := ""
	if cfg.AutoMentions || cfg.DefaultMentions != "" {
		mentions = format.Mentions(cfg.AutoMentions, cfg.DefaultMentions, ev.Description, a.resolver)
	}

	return fmt.Sprintf(locale.Label(titleKey), projectLink, issueLink+mentions, ev.Actor().Name())
}

func (a *Assembler) suppress(ev types.Event, reason types.SuppressReason) types.Outcome {
	dispatchTotal.WithLabelValues(string(ev.Kind), string(reason)).Inc()
	a.logger.Debug("Notification suppressed",
		zap.String("project", ev.Project.Identifier),
		zap.Int64("issue", ev.ID),
		zap.String("reason", string(reason)),
	)
	return types.Outcome{Reason: reason}
}
