package money

import (
	"math"
	"testing"

	"github.com/chris/split-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		participants []string
		payer        string
		want         []models.Split
	}{
		{
			name:         "Even",
			total:        300,
			participants: []string{"u1", "u2", "u3"},
			payer:        "u1",
			want:         []models.Split{{UserID: "u1", ShareAmount: 100}, {UserID: "u2", ShareAmount: 100}, {UserID: "u3", ShareAmount: 100}},
		},
		{
			name:         "Remainder Goes To Payer First",
			total:        100,
			participants: []string{"u1", "u2", "u3"},
			payer:        "u3",
			want:         []models.Split{{UserID: "u1", ShareAmount: 33}, {UserID: "u2", ShareAmount: 33}, {UserID: "u3", ShareAmount: 34}},
		},
		{
			name:         "Remainder Continues In List Order",
			total:        101,
			participants: []string{"u1", "u2", "u3"},
			payer:        "u2",
			want:         []models.Split{{UserID: "u1", ShareAmount: 34}, {UserID: "u2", ShareAmount: 34}, {UserID: "u3", ShareAmount: 33}},
		},
		{
			name:         "Payer Not Participating",
			total:        5,
			participants: []string{"u1", "u2"},
			payer:        "u9",
			want:         []models.Split{{UserID: "u1", ShareAmount: 3}, {UserID: "u2", ShareAmount: 2}},
		},
		{
			name:         "Less Than One Unit Each",
			total:        2,
			participants: []string{"u1", "u2", "u3", "u4"},
			payer:        "u4",
			want:         []models.Split{{UserID: "u1", ShareAmount: 1}, {UserID: "u2", ShareAmount: 0}, {UserID: "u3", ShareAmount: 0}, {UserID: "u4", ShareAmount: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(tt.total, tt.participants, tt.payer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			sum, err := Sum(got)
			require.NoError(t, err)
			assert.Equal(t, tt.total, sum)
		})
	}

	t.Run("No Participants", func(t *testing.T) {
		_, err := Allocate(100, nil, "u1")
		assert.ErrorIs(t, err, ErrNoParticipants)
	})
}

func TestSumOverflow(t *testing.T) {
	_, err := Sum([]models.Split{{UserID: "a", ShareAmount: math.MaxInt64}, {UserID: "b", ShareAmount: 1}})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestNormalizeCurrency(t *testing.T) {
	code, err := NormalizeCurrency(" inr ")
	require.NoError(t, err)
	assert.Equal(t, "INR", code)

	_, err = NormalizeCurrency("XXZ")
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = NormalizeCurrency("")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestParseMajor(t *testing.T) {
	t.Run("Two Decimals", func(t *testing.T) {
		v, err := ParseMajor("12.34", "USD")
		require.NoError(t, err)
		assert.Equal(t, int64(1234), v)
	})

	t.Run("Whole Units", func(t *testing.T) {
		v, err := ParseMajor("7", "EUR")
		require.NoError(t, err)
		assert.Equal(t, int64(700), v)
	})

	t.Run("Zero Decimal Currency", func(t *testing.T) {
		v, err := ParseMajor("500", "JPY")
		require.NoError(t, err)
		assert.Equal(t, int64(500), v)

		_, err = ParseMajor("500.5", "JPY")
		assert.Error(t, err)
	})

	t.Run("Too Precise", func(t *testing.T) {
		_, err := ParseMajor("0.001", "USD")
		assert.Error(t, err)
	})

	t.Run("Not A Number", func(t *testing.T) {
		_, err := ParseMajor("ten", "USD")
		assert.Error(t, err)
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$10.50", Format(1050, "USD"))
}
