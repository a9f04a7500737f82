// Package flow implements the question-answering pipeline for DiaBuddy.
//
// The pipeline is a fixed sequence of steps over a per-question state:
// categorize, retrieve, check sufficiency, then either request more
// information or generate an answer plus follow-up questions. Each step
// consumes the previous state and returns a new one, so steps are testable
// in isolation. Step failures degrade the state instead of aborting the
// request; the only hard failures are validation and an uninitialized agent.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/diabeai/diabuddy/internal/corpus"
	"github.com/diabeai/diabuddy/internal/genai"
	"github.com/diabeai/diabuddy/internal/models"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 3

// ErrNotInitialized is returned when AnswerQuestion is called before
// Initialize has completed.
var ErrNotInitialized = errors.New("agent not initialized")

// DocumentIndex is the retrieval index the agent builds and queries.
// Implemented by vectorstore.Store.
type DocumentIndex interface {
	Build(ctx context.Context, category models.Category, chunks []string) (int, error)
	Search(ctx context.Context, category models.Category, query string, k int) (string, error)
	ChunkCounts() map[models.Category]int
}

// SourceLoader loads the text of one document source.
// Implemented by corpus.Loader.
type SourceLoader interface {
	Load(ctx context.Context, source string) (string, error)
}

// Agent owns the category indexes and the hosted model client, and runs the
// answer pipeline. Construct with NewAgent, call Initialize once during
// startup, then serve AnswerQuestion calls; the indexes are immutable after
// Initialize, so concurrent questions are safe.
type Agent struct {
	genaiClient      genai.ClientInterface
	index            DocumentIndex
	loader           SourceLoader
	splitter         *corpus.Splitter
	sources          map[models.Category][]string
	topK             int
	modelTimeout     time.Duration
	modelSufficiency bool
	initialized      atomic.Bool
}

// Option configures an Agent.
type Option func(*Agent)

// WithTopK sets the number of chunks retrieved per question.
func WithTopK(k int) Option {
	return func(a *Agent) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithModelTimeout bounds every hosted model call. Zero disables the bound.
func WithModelTimeout(d time.Duration) Option {
	return func(a *Agent) { a.modelTimeout = d }
}

// WithModelSufficiencyCheck switches the sufficiency step from the default
// non-empty-context predicate to a model-judged YES/NO call. The two designs
// differ for borderline retrievals: low-relevance but non-empty context
// passes the predicate but may be rejected by the model.
func WithModelSufficiencyCheck() Option {
	return func(a *Agent) { a.modelSufficiency = true }
}

// WithSources replaces the ingestion source table.
func WithSources(sources map[models.Category][]string) Option {
	return func(a *Agent) { a.sources = sources }
}

// WithLoader replaces the document source loader.
func WithLoader(loader SourceLoader) Option {
	return func(a *Agent) { a.loader = loader }
}

// WithSplitter replaces the text splitter.
func WithSplitter(splitter *corpus.Splitter) Option {
	return func(a *Agent) { a.splitter = splitter }
}

// NewAgent creates an Agent over the given model client and document index.
func NewAgent(genaiClient genai.ClientInterface, index DocumentIndex, opts ...Option) *Agent {
	a := &Agent{
		genaiClient: genaiClient,
		index:       index,
		loader:      corpus.NewLoader(),
		splitter:    corpus.NewSplitter(corpus.DefaultChunkSize, corpus.DefaultChunkOverlap),
		sources:     corpus.DocumentSources,
		topK:        DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize builds the index for every category. Loading is best-effort per
// source: a source that fails to load is logged and skipped, and a category
// whose index cannot be built falls back to an empty index. Only a store
// that cannot even hold an empty index fails startup. Re-running Initialize
// rebuilds every index from scratch.
func (a *Agent) Initialize(ctx context.Context) error {
	slog.Info("Agent.Initialize: building category indexes", "categories", len(models.Categories()))
	start := time.Now()

	for _, category := range models.Categories() {
		chunks := a.loadCategory(ctx, category)
		count, err := a.index.Build(ctx, category, chunks)
		if err != nil {
			slog.Error("Agent.Initialize: index build failed, falling back to empty index", "category", category, "error", err)
			if _, err := a.index.Build(ctx, category, nil); err != nil {
				return fmt.Errorf("failed to build fallback index for %s: %w", category, err)
			}
			continue
		}
		slog.Info("Agent.Initialize: category index built", "category", category, "chunks", count)
	}

	a.initialized.Store(true)
	slog.Info("Agent.Initialize: agent ready", "elapsed", time.Since(start))
	return nil
}

// Ready reports whether Initialize has completed.
func (a *Agent) Ready() bool {
	return a.initialized.Load()
}

// ChunkCounts reports the per-category index sizes.
func (a *Agent) ChunkCounts() map[models.Category]int {
	return a.index.ChunkCounts()
}

// loadCategory loads and splits every source of a category, skipping sources
// that fail.
func (a *Agent) loadCategory(ctx context.Context, category models.Category) []string {
	var chunks []string
	for _, source := range a.sources[category] {
		text, err := a.loader.Load(ctx, source)
		if err != nil {
			slog.Warn("Agent.loadCategory: failed to load a document source, skipping", "category", category, "source", source, "error", err)
			continue
		}
		chunks = append(chunks, a.splitter.Split(text)...)
	}
	return chunks
}

// AnswerQuestion runs the pipeline for one question. Pipeline-internal
// failures are converted into degraded but well-formed results (the fixed
// apology or request-more-info responses); an error is returned only for
// invalid input or an uninitialized agent.
func (a *Agent) AnswerQuestion(ctx context.Context, req models.AnswerQuestionRequest) (models.AnswerQuestionResult, error) {
	if !a.initialized.Load() {
		return models.AnswerQuestionResult{}, ErrNotInitialized
	}
	if err := req.Validate(); err != nil {
		return models.AnswerQuestionResult{}, err
	}

	state := models.QnAState{
		Question:            strings.TrimSpace(req.Question),
		ConversationHistory: req.ConversationHistory,
	}
	if models.IsValidCategory(req.Category) {
		state.Category = req.Category
	} else {
		state = a.categorizeQuestion(ctx, state)
	}

	state = a.retrieveDocuments(ctx, state)
	state = a.checkSufficiency(ctx, state)

	if state.NeedsMoreInfo {
		state = requestMoreInfo(state)
	} else {
		var err error
		state, err = a.generateAnswer(ctx, state)
		if err != nil {
			slog.Error("Agent.AnswerQuestion: answer generation failed", "error", err, "category", state.Category)
			return models.AnswerQuestionResult{Answer: apologyAnswer, FollowupQuestions: apologyFollowups}, nil
		}
		state = a.generateFollowups(ctx, state)
	}

	answer := state.Answer
	if answer == "" {
		answer = emptyAnswerFallback
	}
	slog.Info("Agent.AnswerQuestion: question answered", "category", state.Category, "needsMoreInfo", state.NeedsMoreInfo, "followups", len(state.FollowupQuestions))
	return models.AnswerQuestionResult{Answer: answer, FollowupQuestions: state.FollowupQuestions}, nil
}

// categorizeQuestion classifies the question into one of the five
// categories. The raw label is coerced through models.ParseCategory; a
// failed model call degrades to the general category rather than erroring.
func (a *Agent) categorizeQuestion(ctx context.Context, state models.QnAState) models.QnAState {
	next := state
	raw, err := a.generate(ctx, []genai.Message{
		genai.SystemMessage(categorizeSystemPrompt),
		genai.UserMessage(state.Question),
	})
	if err != nil {
		slog.Warn("Agent.categorizeQuestion: classification failed, defaulting to general", "error", err)
		next.Category = models.CategoryGeneral
		return next
	}
	next.Category = models.ParseCategory(raw)
	slog.Debug("Agent.categorizeQuestion: question categorized", "category", next.Category)
	return next
}

// retrieveDocuments searches the resolved category's index for the question.
// A failed search degrades to empty context with NeedsMoreInfo set.
func (a *Agent) retrieveDocuments(ctx context.Context, state models.QnAState) models.QnAState {
	next := state
	if next.Category == "" {
		next.Category = models.CategoryGeneral
	}

	docs, err := a.index.Search(ctx, next.Category, next.Question, a.topK)
	if err != nil {
		slog.Error("Agent.retrieveDocuments: retrieval failed", "category", next.Category, "error", err)
		next.RelevantDocs = ""
		next.NeedsMoreInfo = true
		return next
	}
	next.RelevantDocs = docs
	return next
}

// checkSufficiency decides whether the retrieved context is enough to answer.
// The default is a pure predicate on non-empty context. In model mode the
// decision is delegated to a YES/NO model call, falling back to the
// predicate when that call fails.
func (a *Agent) checkSufficiency(ctx context.Context, state models.QnAState) models.QnAState {
	next := state
	hasDocs := strings.TrimSpace(next.RelevantDocs) != ""

	if !a.modelSufficiency || !hasDocs {
		next.NeedsMoreInfo = next.NeedsMoreInfo || !hasDocs
		return next
	}

	raw, err := a.generate(ctx, []genai.Message{
		genai.SystemMessage(sufficiencySystemPrompt),
		genai.UserMessage(fmt.Sprintf(
			"Question: %s\n\nAvailable information: %s\n\nIs there enough information to answer this question accurately? Answer with YES or NO only.",
			next.Question, next.RelevantDocs)),
	})
	if err != nil {
		slog.Warn("Agent.checkSufficiency: model check failed, falling back to predicate", "error", err)
		return next
	}
	next.NeedsMoreInfo = strings.HasPrefix(strings.ToUpper(strings.TrimSpace(raw)), "NO")
	return next
}

// requestMoreInfo terminates the pipeline with the fixed clarification
// response.
func requestMoreInfo(state models.QnAState) models.QnAState {
	next := state
	next.Answer = moreInfoAnswer
	next.FollowupQuestions = append([]string(nil), moreInfoFollowups...)
	return next
}

// generateAnswer produces the grounded answer, threading prior conversation
// turns as role-tagged messages. This is the one step whose failure aborts
// the pipeline, since there is no degraded answer other than the apology.
func (a *Agent) generateAnswer(ctx context.Context, state models.QnAState) (models.QnAState, error) {
	messages := make([]genai.Message, 0, len(state.ConversationHistory)+2)
	messages = append(messages, genai.SystemMessage(answerSystemPrompt))
	for _, turn := range state.ConversationHistory {
		if turn.Role == "user" {
			messages = append(messages, genai.UserMessage(turn.Content))
		} else {
			messages = append(messages, genai.AssistantMessage(turn.Content))
		}
	}

	docs := state.RelevantDocs
	if strings.TrimSpace(docs) == "" {
		docs = noContextPlaceholder
	}
	messages = append(messages, genai.UserMessage(fmt.Sprintf(
		"Context information: %s\n\nQuestion: %s\n\nAnswer the question based on the context provided.",
		docs, state.Question)))

	answer, err := a.generate(ctx, messages)
	if err != nil {
		return state, err
	}

	next := state
	next.Answer = answer
	return next, nil
}

// generateFollowups asks for three follow-up questions and parses them from
// the model's numbered list. Parsing or call failure substitutes the fixed
// fallback list.
func (a *Agent) generateFollowups(ctx context.Context, state models.QnAState) models.QnAState {
	next := state
	if next.Answer == "" {
		next.FollowupQuestions = nil
		return next
	}

	raw, err := a.generate(ctx, []genai.Message{
		genai.SystemMessage(followupSystemPrompt),
		genai.UserMessage(fmt.Sprintf(
			"User question: %s\nYour answer: %s\nGenerate 3 potential follow-up questions:",
			next.Question, next.Answer)),
	})
	if err != nil {
		slog.Warn("Agent.generateFollowups: generation failed, using fallback questions", "error", err)
		next.FollowupQuestions = append([]string(nil), FallbackFollowupQuestions...)
		return next
	}

	questions := ParseNumberedList(raw)
	if len(questions) == 0 {
		slog.Debug("Agent.generateFollowups: no numbered list in model output, using fallback questions")
		questions = append([]string(nil), FallbackFollowupQuestions...)
	}
	next.FollowupQuestions = questions
	return next
}

// generate runs one chat completion, applying the configured per-call timeout.
func (a *Agent) generate(ctx context.Context, messages []genai.Message) (string, error) {
	if a.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.modelTimeout)
		defer cancel()
	}
	return a.genaiClient.GenerateWithMessages(ctx, messages)
}
