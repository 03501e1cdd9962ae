package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() { b.Publish(TopicDashboardUpdate, nil) })
}

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var order []string
	b.Subscribe(TopicDashboardUpdate, func(string, any) { order = append(order, "first") })
	b.Subscribe(TopicDashboardUpdate, func(string, any) { order = append(order, "second") })
	b.Subscribe(TopicTimerSet, func(string, any) { order = append(order, "timer") })

	b.Publish(TopicDashboardUpdate, nil)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_WildcardAndPayload(t *testing.T) {
	b := NewBus()
	var got []Published
	b.Subscribe("", func(topic string, payload any) {
		got = append(got, Published{Topic: topic, Payload: payload})
	})

	b.Publish(TopicTimerSet, TimerSet{Minutes: 25})
	b.Publish(TopicDashboardUpdate, nil)

	assert.Equal(t, []Published{
		{Topic: TopicTimerSet, Payload: TimerSet{Minutes: 25}},
		{Topic: TopicDashboardUpdate},
	}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsubscribe := b.Subscribe(TopicDashboardUpdate, func(string, any) { calls++ })

	b.Publish(TopicDashboardUpdate, nil)
	unsubscribe()
	unsubscribe()
	b.Publish(TopicDashboardUpdate, nil)

	assert.Equal(t, 1, calls)
}

func TestBus_HandlerMayPublish(t *testing.T) {
	b := NewBus()
	updates := 0
	b.Subscribe(TopicTimerSet, func(string, any) { b.Publish(TopicDashboardUpdate, nil) })
	b.Subscribe(TopicDashboardUpdate, func(string, any) { updates++ })

	b.Publish(TopicTimerSet, TimerSet{Minutes: 5})

	assert.Equal(t, 1, updates)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Publish(TopicDashboardUpdate, nil)
	r.Publish(TopicTimerSet, TimerSet{Minutes: 1})
	r.Publish(TopicDashboardUpdate, nil)

	assert.Equal(t, 2, r.Count(TopicDashboardUpdate))
	assert.Len(t, r.Events(), 3)

	r.Reset()
	assert.Empty(t, r.Events())
}
