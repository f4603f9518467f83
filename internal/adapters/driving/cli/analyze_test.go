package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight-cli/internal/core/ports/driving"
)

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze [doc-id] [query]", analyzeCmd.Use)
}

func TestAnalyzeCmd_RequiresTwoArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze", "doc-only"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestAnalyzeCmd_CoveredClaim(t *testing.T) {
	cleanup, docID := setupTestServices("")
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", docID, "46M, knee surgery"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Decision: Yes")
	assert.Contains(t, buf.String(), "Age:    46")
}

func TestAnalyzeCmd_ExcludedClaim(t *testing.T) {
	cleanup, docID := setupTestServices("")
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", docID, "30F, cosmetic surgery, elective"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Decision: No")
	assert.Contains(t, buf.String(), "Not covered")
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	cleanup, docID := setupTestServices("")
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "--json", docID, "46M, knee surgery"})
	defer func() {
		rootCmd.SetArgs(nil)
		analyzeJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	var result driving.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "46M, knee surgery", result.Query)
	assert.Equal(t, 46, result.Intent.Age)
}

func TestAnalyzeCmd_UnknownDocument(t *testing.T) {
	cleanup, _ := setupTestServices("")
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze", "no-such-doc", "knee surgery"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}
