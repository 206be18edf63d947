package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remedy/llm"
	"remedy/llm/qa"
	"remedy/pubsub"
)

// scriptedAnswerer replays one scripted outcome per call.
type scriptedAnswerer struct {
	script []func() (qa.Answer, error)
	calls  int
}

func (s *scriptedAnswerer) Answer(ctx context.Context, question string) (qa.Answer, error) {
	if s.calls >= len(s.script) {
		return qa.Answer{}, errors.New("unexpected call")
	}
	step := s.script[s.calls]
	s.calls++
	return step()
}

func answerWith(text string, citedTypes ...string) func() (qa.Answer, error) {
	return func() (qa.Answer, error) {
		return qa.Answer{Text: text, CitedTypes: citedTypes}, nil
	}
}

func failWith(err error) func() (qa.Answer, error) {
	return func() (qa.Answer, error) { return qa.Answer{}, err }
}

func nextEvent(t *testing.T, ch <-chan pubsub.Event[*schema.Message]) pubsub.Event[*schema.Message] {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return pubsub.Event[*schema.Message]{}
	}
}

func TestNewSessionSeedsGreeting(t *testing.T) {
	sess := NewSession(context.Background(), &scriptedAnswerer{}, zerolog.Nop())
	defer sess.Close()

	history, err := sess.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, schema.Assistant, history[0].Role)
	assert.Equal(t, Greeting, history[0].Content)
}

func TestAskAppendsSourcesAndDisclaimer(t *testing.T) {
	answerer := &scriptedAnswerer{script: []func() (qa.Answer, error){
		answerWith("Crocin contains paracetamol.", "medicine", "disease"),
	}}
	sess := NewSession(context.Background(), answerer, zerolog.Nop())
	defer sess.Close()

	require.NoError(t, sess.Ask("What is Crocin?"))

	history, err := sess.History()
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, schema.User, history[1].Role)
	assert.Equal(t, "What is Crocin?", history[1].Content)

	assert.Equal(t, schema.Assistant, history[2].Role)
	assert.Equal(t,
		"Crocin contains paracetamol.\n\nSources: medicine, disease\n\n"+Disclaimer,
		history[2].Content)
}

func TestAskGenerationFailureIsTurnLocal(t *testing.T) {
	turnErr := llm.WrapGeneration(errors.New("service unreachable"))
	answerer := &scriptedAnswerer{script: []func() (qa.Answer, error){
		answerWith("First answer.", "medicine"),
		failWith(turnErr),
		answerWith("Third answer.", "symptom"),
	}}
	sess := NewSession(context.Background(), answerer, zerolog.Nop())
	defer sess.Close()

	require.NoError(t, sess.Ask("turn one"))

	err := sess.Ask("turn two")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrGeneration))

	require.NoError(t, sess.Ask("turn three"))

	// Turn 1 history is intact, turn 2 kept only the user message, and
	// turn 3 proceeded on the same session.
	history, err := sess.History()
	require.NoError(t, err)
	require.Len(t, history, 6)

	assert.Equal(t, Greeting, history[0].Content)
	assert.Equal(t, "turn one", history[1].Content)
	assert.Contains(t, history[2].Content, "First answer.")
	assert.Equal(t, "turn two", history[3].Content)
	assert.Equal(t, "turn three", history[4].Content)
	assert.Contains(t, history[5].Content, "Third answer.")
}

func TestAskPublishesTurnEvents(t *testing.T) {
	answerer := &scriptedAnswerer{script: []func() (qa.Answer, error){
		answerWith("All good.", "medicine"),
		failWith(llm.WrapGeneration(errors.New("boom"))),
	}}
	sess := NewSession(context.Background(), answerer, zerolog.Nop())
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := sess.Broker().Subscribe(ctx)

	require.NoError(t, sess.Ask("works"))

	started := nextEvent(t, events)
	assert.Equal(t, pubsub.TurnStartedEvent, started.Type)
	assert.Equal(t, "works", started.Payload.Content)

	answered := nextEvent(t, events)
	assert.Equal(t, pubsub.TurnAnsweredEvent, answered.Type)
	assert.Contains(t, answered.Payload.Content, "All good.")
	assert.Contains(t, answered.Payload.Content, Disclaimer)

	_ = sess.Ask("fails")

	started = nextEvent(t, events)
	assert.Equal(t, pubsub.TurnStartedEvent, started.Type)

	failed := nextEvent(t, events)
	assert.Equal(t, pubsub.TurnFailedEvent, failed.Type)
	assert.Equal(t, schema.System, failed.Payload.Role)
	assert.Contains(t, failed.Payload.Content, "Error:")
	assert.Contains(t, failed.Payload.Content, "boom")
}

func TestAskWithoutCitedTypesSkipsSourcesLine(t *testing.T) {
	answerer := &scriptedAnswerer{script: []func() (qa.Answer, error){
		answerWith("Plain answer."),
	}}
	sess := NewSession(context.Background(), answerer, zerolog.Nop())
	defer sess.Close()

	require.NoError(t, sess.Ask("anything"))

	history, err := sess.History()
	require.NoError(t, err)
	content := history[len(history)-1].Content
	assert.NotContains(t, content, "Sources:")
	assert.Contains(t, content, Disclaimer)
}

func TestCloseShutsDownBroker(t *testing.T) {
	sess := NewSession(context.Background(), &scriptedAnswerer{}, zerolog.Nop())
	events := sess.Broker().Subscribe(context.Background())

	sess.Close()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "subscription channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("subscription channel not closed after Close")
	}
}
