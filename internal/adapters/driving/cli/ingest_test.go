package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [page-id]", ingestCmd.Use)
}

func TestIngestCmd_RechunksPage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	id := seedIndexedPage(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", id})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "indexed")
}

func TestIngestCmd_ByURL(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedIndexedPage(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--url", "https://example.com/about"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestURL = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "indexed")
}

func TestIngestCmd_UnknownPage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}
