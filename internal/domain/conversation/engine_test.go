//go:build unit

package conversation_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/conversation"
	"tablebook/internal/domain/policy"
	"tablebook/internal/pkg/clock"
	"tablebook/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) *conversation.Engine {
	t.Helper()
	cfg := builder.NewPolicyConfigBuilder().MustBuild()
	return conversation.NewEngine(cfg, clock.NewMockClock(testNow))
}

// fillRequired collects every required field with valid values.
func fillRequired(t *testing.T, e *conversation.Engine) {
	t.Helper()
	at, err := policy.ParseTimeOfDay("19:00")
	require.NoError(t, err)

	result := e.UpdateContext(conversation.Updates{
		conversation.FieldDate:      testNow.AddDate(0, 0, 7),
		conversation.FieldTime:      at,
		conversation.FieldPartySize: 4,
		conversation.FieldName:      "Alice Carter",
		conversation.FieldPhone:     "555-123-4567",
	})
	require.Empty(t, result.Errors)
}

func TestNewEngine(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, conversation.StateGreeting, e.State())
	assert.Equal(t, conversation.RequiredFields(), e.MissingFields())
}

func TestTransitionTo(t *testing.T) {
	t.Run("completed is terminal", func(t *testing.T) {
		e := newEngine(t)
		fillRequired(t, e)
		require.NoError(t, e.TransitionTo(conversation.StateConfirming))
		require.NoError(t, e.TransitionTo(conversation.StateCompleted))

		// No transition out of completed, whatever the target.
		for _, target := range conversation.OrderedStates() {
			err := e.TransitionTo(target)
			var transitionErr *conversation.StateTransitionError
			require.ErrorAs(t, err, &transitionErr, target.String())
			assert.Equal(t, conversation.StateCompleted, e.State())
		}
	})

	t.Run("confirming requires all required fields", func(t *testing.T) {
		e := newEngine(t)
		err := e.TransitionTo(conversation.StateConfirming)
		var transitionErr *conversation.StateTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, conversation.StateGreeting, e.State(), "state unchanged on rejection")

		fillRequired(t, e)
		assert.NoError(t, e.TransitionTo(conversation.StateConfirming))
	})

	t.Run("completed only from confirming", func(t *testing.T) {
		e := newEngine(t)
		fillRequired(t, e)
		err := e.TransitionTo(conversation.StateCompleted)
		var transitionErr *conversation.StateTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})

	t.Run("collection states allow jumps for corrections", func(t *testing.T) {
		e := newEngine(t)
		require.NoError(t, e.TransitionTo(conversation.StateCollectingPhone))
		require.NoError(t, e.TransitionTo(conversation.StateCollectingDate))
		assert.NoError(t, e.TransitionTo(conversation.StateGreeting))
	})

	t.Run("unknown state rejected", func(t *testing.T) {
		e := newEngine(t)
		err := e.TransitionTo(conversation.State("daydreaming"))
		assert.Error(t, err)
	})
}

func TestUpdateContext(t *testing.T) {
	at, _ := policy.ParseTimeOfDay("19:00")

	t.Run("batch update collects multiple fields", func(t *testing.T) {
		e := newEngine(t)
		result := e.UpdateContext(conversation.Updates{
			conversation.FieldDate:      testNow.AddDate(0, 0, 7),
			conversation.FieldPartySize: 4,
		})
		assert.ElementsMatch(t, []conversation.Field{conversation.FieldDate, conversation.FieldPartySize}, result.Updated)
		assert.Empty(t, result.Corrections)
		assert.Empty(t, result.Errors)
	})

	t.Run("replacing a set field is a correction", func(t *testing.T) {
		e := newEngine(t)
		e.UpdateContext(conversation.Updates{conversation.FieldDate: testNow.AddDate(0, 0, 7)})

		result := e.UpdateContext(conversation.Updates{conversation.FieldDate: testNow.AddDate(0, 0, 8)})
		assert.Equal(t, []conversation.Field{conversation.FieldDate}, result.Corrections)
		assert.Empty(t, result.Updated)
	})

	t.Run("setting the same value again is not a correction", func(t *testing.T) {
		e := newEngine(t)
		date := testNow.AddDate(0, 0, 7)
		e.UpdateContext(conversation.Updates{conversation.FieldDate: date})

		result := e.UpdateContext(conversation.Updates{conversation.FieldDate: date})
		assert.Empty(t, result.Corrections)
		assert.Equal(t, []conversation.Field{conversation.FieldDate}, result.Updated)
	})

	t.Run("invalid value reverts only the offending field", func(t *testing.T) {
		e := newEngine(t)
		goodDate := testNow.AddDate(0, 0, 7)
		e.UpdateContext(conversation.Updates{conversation.FieldDate: goodDate})

		result := e.UpdateContext(conversation.Updates{
			conversation.FieldDate:      testNow.AddDate(0, 0, -1),
			conversation.FieldPartySize: 4,
		})
		assert.Contains(t, result.Errors, conversation.FieldDate)
		assert.Equal(t, []conversation.Field{conversation.FieldPartySize}, result.Updated)

		require.NotNil(t, e.Context().Date())
		assert.Equal(t, policy.DateOf(goodDate), *e.Context().Date(), "prior value restored")
	})

	t.Run("validation failures per rule", func(t *testing.T) {
		cases := []struct {
			name    string
			updates conversation.Updates
		}{
			{"past date", conversation.Updates{conversation.FieldDate: testNow.AddDate(0, 0, -1)}},
			{"date beyond horizon", conversation.Updates{conversation.FieldDate: testNow.AddDate(0, 0, 31)}},
			{"party size zero", conversation.Updates{conversation.FieldPartySize: 0}},
			{"party size too large", conversation.Updates{conversation.FieldPartySize: 9}},
			{"invalid phone", conversation.Updates{conversation.FieldPhone: "123"}},
			{"invalid email", conversation.Updates{conversation.FieldEmail: "not-an-email"}},
			{"empty name", conversation.Updates{conversation.FieldName: "   "}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				e := newEngine(t)
				result := e.UpdateContext(tc.updates)
				assert.Empty(t, result.Updated)
				assert.Len(t, result.Errors, 1)
				for f := range tc.updates {
					v, _ := fieldBoxed(e.Context(), f)
					assert.Nil(t, v, "rejected value must not stick")
				}
			})
		}
	})

	t.Run("today is a valid date", func(t *testing.T) {
		e := newEngine(t)
		result := e.UpdateContext(conversation.Updates{conversation.FieldDate: testNow})
		assert.Empty(t, result.Errors)
	})

	t.Run("horizon boundary is a valid date", func(t *testing.T) {
		e := newEngine(t)
		result := e.UpdateContext(conversation.Updates{conversation.FieldDate: testNow.AddDate(0, 0, 30)})
		assert.Empty(t, result.Errors)
	})

	// Dates come off the wire as UTC midnight; the window must judge the
	// calendar day even when the clock runs in another location.
	t.Run("boundary dates survive a non-UTC clock", func(t *testing.T) {
		cfg := builder.NewPolicyConfigBuilder().MustBuild()

		east := conversation.NewEngine(cfg, clock.NewMockClock(testNow.In(time.FixedZone("UTC+9", 9*3600))))
		boundary := time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC) // today + 30 days
		result := east.UpdateContext(conversation.Updates{conversation.FieldDate: boundary})
		assert.Empty(t, result.Errors)

		west := conversation.NewEngine(cfg, clock.NewMockClock(testNow.In(time.FixedZone("UTC-8", -8*3600))))
		today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
		result = west.UpdateContext(conversation.Updates{conversation.FieldDate: today})
		assert.Empty(t, result.Errors)
	})

	t.Run("unknown field reported without failing the batch", func(t *testing.T) {
		e := newEngine(t)
		result := e.UpdateContext(conversation.Updates{
			conversation.Field("favorite_color"): "blue",
			conversation.FieldTime:               at,
		})
		assert.Contains(t, result.Errors, conversation.Field("favorite_color"))
		assert.Equal(t, []conversation.Field{conversation.FieldTime}, result.Updated)
	})
}

// fieldBoxed reads a field back through the public getters.
func fieldBoxed(c *conversation.Context, f conversation.Field) (any, bool) {
	switch f {
	case conversation.FieldDate:
		if c.Date() == nil {
			return nil, true
		}
		return *c.Date(), true
	case conversation.FieldTime:
		if c.Time() == nil {
			return nil, true
		}
		return *c.Time(), true
	case conversation.FieldPartySize:
		if c.PartySize() == nil {
			return nil, true
		}
		return *c.PartySize(), true
	case conversation.FieldName:
		if c.Name() == nil {
			return nil, true
		}
		return *c.Name(), true
	case conversation.FieldPhone:
		if c.Phone() == nil {
			return nil, true
		}
		return *c.Phone(), true
	case conversation.FieldEmail:
		if c.Email() == nil {
			return nil, true
		}
		return *c.Email(), true
	default:
		return nil, false
	}
}

func TestAutoAdvanceState(t *testing.T) {
	at, _ := policy.ParseTimeOfDay("19:00")

	t.Run("follows the canonical collection order", func(t *testing.T) {
		e := newEngine(t)
		require.NoError(t, e.TransitionTo(conversation.StateCollectingDate))

		e.UpdateContext(conversation.Updates{conversation.FieldDate: testNow.AddDate(0, 0, 7)})
		state, moved := e.AutoAdvanceState()
		assert.True(t, moved)
		assert.Equal(t, conversation.StateCollectingTime, state)

		e.UpdateContext(conversation.Updates{conversation.FieldTime: at})
		state, _ = e.AutoAdvanceState()
		assert.Equal(t, conversation.StateCollectingPartySize, state)
	})

	t.Run("skips fields collected out of order", func(t *testing.T) {
		e := newEngine(t)
		require.NoError(t, e.TransitionTo(conversation.StateCollectingDate))

		// Date and time arrive in one utterance with the party size.
		e.UpdateContext(conversation.Updates{
			conversation.FieldDate:      testNow.AddDate(0, 0, 7),
			conversation.FieldTime:      at,
			conversation.FieldPartySize: 4,
		})
		state, moved := e.AutoAdvanceState()
		assert.True(t, moved)
		assert.Equal(t, conversation.StateCollectingName, state)
	})

	t.Run("moves to confirming when complete", func(t *testing.T) {
		e := newEngine(t)
		require.NoError(t, e.TransitionTo(conversation.StateCollectingDate))
		fillRequired(t, e)

		state, moved := e.AutoAdvanceState()
		assert.True(t, moved)
		assert.Equal(t, conversation.StateConfirming, state)
	})

	t.Run("no-op in greeting and confirming", func(t *testing.T) {
		e := newEngine(t)
		state, moved := e.AutoAdvanceState()
		assert.False(t, moved)
		assert.Equal(t, conversation.StateGreeting, state)

		fillRequired(t, e)
		require.NoError(t, e.TransitionTo(conversation.StateConfirming))
		_, moved = e.AutoAdvanceState()
		assert.False(t, moved)
	})
}

func TestReset(t *testing.T) {
	e := newEngine(t)
	fillRequired(t, e)
	require.NoError(t, e.TransitionTo(conversation.StateConfirming))
	require.NoError(t, e.TransitionTo(conversation.StateCompleted))

	// TransitionTo cannot leave completed, but Reset can.
	e.Reset()
	assert.Equal(t, conversation.StateGreeting, e.State())
	assert.Nil(t, e.Context().Date())
	assert.Equal(t, conversation.RequiredFields(), e.MissingFields())
}

func TestProgress(t *testing.T) {
	e := newEngine(t)

	p := e.Progress()
	assert.Equal(t, 0, p.Percentage)
	assert.False(t, p.IsComplete)
	assert.Len(t, p.MissingFields, 5)

	at, _ := policy.ParseTimeOfDay("19:00")
	e.UpdateContext(conversation.Updates{
		conversation.FieldDate: testNow.AddDate(0, 0, 7),
		conversation.FieldTime: at,
	})
	p = e.Progress()
	assert.Equal(t, 40, p.Percentage)

	fillRequired(t, e)
	p = e.Progress()
	assert.True(t, p.IsComplete)
	assert.Equal(t, 100, p.Percentage)
	assert.Empty(t, p.MissingFields)
}
