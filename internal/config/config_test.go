package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsListSplitsAndTrims(t *testing.T) {
	t.Setenv("TEST_LIST", " chest pain , crushing ,,suicide ")

	assert.Equal(t, []string{"chest pain", "crushing", "suicide"}, getEnvAsList("TEST_LIST", ""))
}

func TestGetEnvAsListFallback(t *testing.T) {
	assert.Equal(t, []string{"pill", "drug", "dose"}, getEnvAsList("TEST_LIST_UNSET", "pill,drug,dose"))
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("TEST_INT", "not a number")

	assert.Equal(t, 4, getEnvAsInt("TEST_INT", 4))
}

func TestGetEnvAsDurationIsMilliseconds(t *testing.T) {
	t.Setenv("TEST_MS", "2500")

	assert.Equal(t, 2500*time.Millisecond, getEnvAsDuration("TEST_MS", 10000))
}

func TestLoadAppliesOverrides(t *testing.T) {
	t.Setenv("RAG_TOP_K", "3")
	t.Setenv("COLLECTION_GENERAL", "med_general")
	t.Setenv("EMERGENCY_KEYWORDS", "one,two")

	cfg := Load()

	assert.Equal(t, 3, cfg.Rag.TopK)
	assert.Equal(t, "med_general", cfg.Rag.GeneralCollection)
	assert.Equal(t, []string{"one", "two"}, cfg.Safety.EmergencyKeywords)
}
