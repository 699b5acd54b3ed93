package semi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynopses(t *testing.T) {
	s := buildTestSemI(t)
	preds := s.Predicates()

	t.Run("declared alternatives in order", func(t *testing.T) {
		syns, err := preds.Synopses("_able_a_1")
		require.NoError(t, err)
		require.Len(t, syns, 2)
		assert.Len(t, syns[0], 2)
		assert.Len(t, syns[1], 3)
	})

	t.Run("abstract predicate has zero synopses", func(t *testing.T) {
		syns, err := preds.Synopses("existential_q")
		require.NoError(t, err)
		assert.Empty(t, syns)
	})

	t.Run("unknown predicate", func(t *testing.T) {
		_, err := preds.Synopses("_ghost_v_1")
		assert.ErrorIs(t, err, ErrUnknownPredicate)
	})
}

func TestFindSynopsis(t *testing.T) {
	s := buildTestSemI(t)

	t.Run("exact match", func(t *testing.T) {
		syn, err := s.FindSynopsis("can_able", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG1", Value: "i"},
			{Role: "ARG2", Value: "p"},
		})
		require.NoError(t, err)
		require.Len(t, syn, 3)
		assert.Equal(t, "ARG0", syn[0].Role)
	})

	t.Run("more specific observed types are compatible", func(t *testing.T) {
		// e2 < e and h < p: a real utterance may instantiate subtypes.
		syn, err := s.FindSynopsis("can_able", []Arg{
			{Role: "ARG0", Value: "e2"},
			{Role: "ARG1", Value: "e"},
			{Role: "ARG2", Value: "h"},
		})
		require.NoError(t, err)
		assert.Len(t, syn, 3)
	})

	t.Run("more general observed types are compatible", func(t *testing.T) {
		syn, err := s.FindSynopsis("can_able", []Arg{
			{Role: "ARG0", Value: "i"},
			{Role: "ARG1", Value: "u"},
			{Role: "ARG2", Value: "u"},
		})
		require.NoError(t, err)
		assert.Len(t, syn, 3)
	})

	t.Run("missing required argument fails", func(t *testing.T) {
		_, err := s.FindSynopsis("can_able", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG2", Value: "p"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoMatchingSynopsis)

		var nse *NoSynopsisError
		require.True(t, errors.As(err, &nse))
		assert.Equal(t, "can_able", nse.Predicate)
		require.Len(t, nse.Rejected, 1)
		assert.Contains(t, nse.Rejected[0].Reason, "ARG1")
	})

	t.Run("optional argument may be absent", func(t *testing.T) {
		syn, err := s.FindSynopsis("_predicate_v_of", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG1", Value: "i"},
			{Role: "ARG2", Value: "p"},
		})
		require.NoError(t, err)
		assert.Len(t, syn, 4)
	})

	t.Run("optional argument may be present", func(t *testing.T) {
		_, err := s.FindSynopsis("_predicate_v_of", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG1", Value: "i"},
			{Role: "ARG2", Value: "p"},
			{Role: "ARG3", Value: "i"},
		})
		assert.NoError(t, err)
	})

	t.Run("extra observed role fails", func(t *testing.T) {
		_, err := s.FindSynopsis("can_able", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG1", Value: "i"},
			{Role: "ARG2", Value: "p"},
			{Role: "ARG9", Value: "u"},
		})
		require.Error(t, err)
		var nse *NoSynopsisError
		require.True(t, errors.As(err, &nse))
		assert.Contains(t, nse.Rejected[0].Reason, "ARG9")
	})

	t.Run("incompatible observed type fails with reason", func(t *testing.T) {
		// e and p have no common descendant in the test fragment.
		_, err := s.FindSynopsis("can_able", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG1", Value: "i"},
			{Role: "ARG2", Value: "e"},
		})
		require.Error(t, err)
		var nse *NoSynopsisError
		require.True(t, errors.As(err, &nse))
		assert.Contains(t, nse.Rejected[0].Reason, "incompatible")
		assert.Contains(t, nse.Rejected[0].Reason, "ARG2")
	})

	t.Run("first matching alternative wins", func(t *testing.T) {
		syn, err := s.FindSynopsis("_able_a_1", []Arg{
			{Role: "ARG0", Value: "e"},
			{Role: "ARG1", Value: "h"},
		})
		require.NoError(t, err)
		assert.Len(t, syn, 2)
		assert.Equal(t, "p", syn[1].Value)
	})
}

func TestFindSynopsisSecondAlternative(t *testing.T) {
	s := buildTestSemI(t)

	// Three observed arguments only fit the second _able_a_1 frame.
	syn, err := s.FindSynopsis("_able_a_1", []Arg{
		{Role: "ARG0", Value: "e"},
		{Role: "ARG1", Value: "i"},
		{Role: "ARG2", Value: "h"},
	})
	require.NoError(t, err)
	assert.Len(t, syn, 3)
}

func TestFindSynopsisUnknownPredicate(t *testing.T) {
	s := buildTestSemI(t)
	_, err := s.FindSynopsis("_ghost_v_1", nil)
	assert.ErrorIs(t, err, ErrUnknownPredicate)
}

func TestFindSynopsisZeroSynopses(t *testing.T) {
	s := buildTestSemI(t)
	_, err := s.FindSynopsis("existential_q", []Arg{{Role: "ARG0", Value: "x"}})
	require.Error(t, err)

	var nse *NoSynopsisError
	require.True(t, errors.As(err, &nse))
	assert.Contains(t, nse.Rejected[0].Reason, "no synopses")
}

func TestFindSynopsisNormalizesCase(t *testing.T) {
	s := buildTestSemI(t)
	syn, err := s.FindSynopsis("CAN_ABLE", []Arg{
		{Role: "arg0", Value: "E"},
		{Role: "arg1", Value: "I"},
		{Role: "arg2", Value: "P"},
	})
	require.NoError(t, err)
	assert.Len(t, syn, 3)
}
