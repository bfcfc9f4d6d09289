package utils

import (
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	t.Parallel()

	id := GenerateID()
	_, err := uuid.Parse(id)
	require.NoError(t, err, "GenerateID should return a valid UUID")
	require.NotEqual(t, id, GenerateID())
}

func TestGenerateBidID_SortsInGenerationOrder(t *testing.T) {
	t.Parallel()

	at := time.Now()
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, GenerateBidID(at))
	}

	require.True(t, sort.StringsAreSorted(ids), "ids minted in the same millisecond must stay ordered")

	parsed, err := ulid.Parse(ids[0])
	require.NoError(t, err)
	require.Equal(t, ulid.Timestamp(at), parsed.Time())
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		require.Regexp(t, pattern, GenerateCode())
	}
}
