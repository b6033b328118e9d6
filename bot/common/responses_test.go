package common

import (
	"errors"
	"fmt"
	"testing"

	"wheelhouse/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	rejection := &service.RejectionError{Err: service.ErrShapeRejected, Reason: "unrecognized wager shape", WagerIndex: 0}

	assert.Equal(t, "wager 1: unrecognized wager shape", UserMessage(rejection))
	assert.Equal(t, "wager 1: unrecognized wager shape", UserMessage(fmt.Errorf("spin: %w", rejection)))
	assert.Contains(t, UserMessage(service.ErrServiceBusy), "busy")
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("pq: connection refused")))
}

func TestIdentify(t *testing.T) {
	t.Run("guild member nickname wins", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{Nick: "Spinner", User: &discordgo.User{ID: "123456789", Username: "alice"}},
		}}
		id, name, err := Identify(i)
		require.NoError(t, err)
		assert.Equal(t, int64(123456789), id)
		assert.Equal(t, "Spinner", name)
	})

	t.Run("direct message falls back to username", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			User: &discordgo.User{ID: "42", Username: "bob"},
		}}
		id, name, err := Identify(i)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.Equal(t, "bob", name)
	})

	t.Run("no user", func(t *testing.T) {
		_, _, err := Identify(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}})
		assert.Error(t, err)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "abc"}}}
		_, _, err := Identify(i)
		assert.Error(t, err)
	})
}
