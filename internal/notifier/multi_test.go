package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	err   error
	calls int
}

func (fc *fakeChannel) Notify(_ context.Context, _ Message) error {
	fc.calls++
	return fc.err
}

func TestMultiNotifier_FirstChannelSuccessSkipsRest(t *testing.T) {
	primary := &fakeChannel{}
	backup := &fakeChannel{}
	mn := NewMultiNotifier(zerolog.Nop(), primary, backup)

	err := mn.Notify(context.Background(), Message{Body: "hello"})

	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, backup.calls)
}

func TestMultiNotifier_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeChannel{err: errors.New("telegram down")}
	backup := &fakeChannel{}
	mn := NewMultiNotifier(zerolog.Nop(), primary, backup)

	err := mn.Notify(context.Background(), Message{Body: "hello"})

	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, backup.calls)
}

func TestMultiNotifier_AllChannelsFailingReturnsJoinedError(t *testing.T) {
	primary := &fakeChannel{err: errors.New("telegram down")}
	backup := &fakeChannel{err: errors.New("discord down")}
	mn := NewMultiNotifier(zerolog.Nop(), primary, backup)

	err := mn.Notify(context.Background(), Message{Body: "hello"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram down")
	assert.Contains(t, err.Error(), "discord down")
}

func TestMultiNotifier_NoChannelsDropsMessage(t *testing.T) {
	mn := NewMultiNotifier(zerolog.Nop())

	assert.NoError(t, mn.Notify(context.Background(), Message{Body: "hello"}))
}

func TestMultiNotifier_SkipsNilChannels(t *testing.T) {
	backup := &fakeChannel{}
	mn := NewMultiNotifier(zerolog.Nop(), nil, backup)

	err := mn.Notify(context.Background(), Message{Body: "hello"})

	require.NoError(t, err)
	assert.Equal(t, 1, backup.calls)
}
