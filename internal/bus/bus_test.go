package bus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/radx-adapter/internal/bus"
	"github.com/codeninja55/radx-adapter/internal/model"
)

func TestPublish_DeliversToSubscriber(t *testing.T) {
	b := bus.New(4, nil)
	ch := b.Subscribe("AE1")

	ref := model.InstanceRef{SOPInstanceUID: "1.2.3"}
	assert.True(t, b.Publish("AE1", ref))

	select {
	case got := <-ch:
		assert.Equal(t, ref, got)
	case <-time.After(time.Second):
		t.Fatal("expected published ref to arrive")
	}
}

func TestPublish_NoSubscriberReturnsFalse(t *testing.T) {
	b := bus.New(4, nil)
	assert.False(t, b.Publish("UNKNOWN_AE", model.InstanceRef{}))
}

func TestPublish_FullChannelReturnsFalse(t *testing.T) {
	b := bus.New(1, nil)
	b.Subscribe("AE1")

	require.True(t, b.Publish("AE1", model.InstanceRef{SOPInstanceUID: "1"}))
	assert.False(t, b.Publish("AE1", model.InstanceRef{SOPInstanceUID: "2"}))
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	b := bus.New(4, nil)
	ch := b.Subscribe("AE1")
	b.Unsubscribe("AE1")

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after Unsubscribe")

	assert.False(t, b.Publish("AE1", model.InstanceRef{}))
}

func TestSubscribe_ReplacesPriorChannel(t *testing.T) {
	b := bus.New(4, nil)
	b.Subscribe("AE1")
	second := b.Subscribe("AE1")

	ref := model.InstanceRef{SOPInstanceUID: "1"}
	require.True(t, b.Publish("AE1", ref))

	select {
	case got := <-second:
		assert.Equal(t, ref, got)
	case <-time.After(time.Second):
		t.Fatal("expected ref delivered to the replacement channel")
	}
}

func TestNew_NonPositiveCapacityFallsBackToDefault(t *testing.T) {
	b := bus.New(0, nil)
	ch := b.Subscribe("AE1")
	for i := 0; i < bus.DefaultCapacity; i++ {
		require.True(t, b.Publish("AE1", model.InstanceRef{SOPInstanceUID: "x"}))
	}
	assert.Len(t, ch, bus.DefaultCapacity)
}
