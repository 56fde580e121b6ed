package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/services"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_UnknownWhenCorpusEmpty(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "冷聚变什么时候商用"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), services.UnknownPrefix)
}

func TestAskCmd_KnownWithStrongHits(t *testing.T) {
	hits := []domain.RetrievalHit{
		{UID: "a", Text: "定投要点一", BaseSimilarity: 0.8, CogWeight: 1, TimeWeight: 1, FinalScore: 0.8},
		{UID: "b", Text: "定投要点二", BaseSimilarity: 0.7, CogWeight: 1, TimeWeight: 1, FinalScore: 0.7},
		{UID: "c", Text: "定投要点三", BaseSimilarity: 0.6, CogWeight: 1, TimeWeight: 1, FinalScore: 0.6},
	}
	cleanup := setupTestServices(hits)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "怎么定投"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), services.KnownPrefix)
	assert.Contains(t, buf.String(), "定投要点一")
}

func TestAskCmd_MetaFlagPrintsJSON(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--meta", "冷聚变"})
	defer func() {
		rootCmd.SetArgs(nil)
		askShowMeta = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"route": "Unknown"`)
	assert.Contains(t, buf.String(), `"hit_count": 0`)
}

func TestAskCmd_RecordsSession(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--session", "s-test", "冷聚变"})
	defer func() {
		rootCmd.SetArgs(nil)
		askSession = "local"
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	var turns int
	sessions.Do("s-test", func(s *services.Session) {
		turns = s.Turns
	})
	assert.Equal(t, 1, turns)
}
