package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type taskDone struct {
	taskID string
}

type otherEvent struct {
	taskID string
}

func TestPublisher_Publish_NoSubscribers(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *taskDone) {
		t.Error("should not be called")
	})
	publisher.Publish(&otherEvent{taskID: "t1"})

	output := logBuffer.String()
	require.NotEmpty(t, output)
	require.True(t, strings.Contains(output, "no matching subscribers"))
}

func TestPublisher_Publish_MatchingSubscriber(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	var got string
	publisher.Subscribe(func(e *taskDone) {
		got = e.taskID
	})
	publisher.Publish(&taskDone{taskID: "t42"})
	require.Equal(t, "t42", got)
}

func TestPublisher_Publish_RecoversPanic(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *taskDone) {
		panic("boom")
	})
	called := false
	publisher.Subscribe(func(e *taskDone) {
		called = true
	})

	publisher.Publish(&taskDone{taskID: "t1"})

	require.True(t, called)
	require.Contains(t, logBuffer.String(), "panicked")
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	handler := func(e *taskDone) {}
	publisher.Subscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())
	publisher.Unsubscribe(handler)
	require.Equal(t, 0, publisher.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	handler := func(e *taskDone) {}
	require.True(t, MatchSignature(handler, []interface{}{&taskDone{}}))
	require.False(t, MatchSignature(handler, []interface{}{&otherEvent{}}))
	require.False(t, MatchSignature(handler, []interface{}{&taskDone{}, &taskDone{}}))
	require.False(t, MatchSignature("not a func", []interface{}{&taskDone{}}))
}
