package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFetchLevel(t *testing.T) {
	level, err := ParseFetchLevel("")
	require.NoError(t, err)
	assert.Equal(t, FetchIDOnly, level)

	level, err = ParseFetchLevel("detailed")
	require.NoError(t, err)
	assert.Equal(t, FetchDetailed, level)

	_, err = ParseFetchLevel("everything")
	assert.Error(t, err)
}

func TestMergeMultiLang(t *testing.T) {
	th := "วิทยาศาสตร์"
	en := "Science"

	merged := MergeMultiLang(&th, nil)
	require.NotNil(t, merged)
	assert.Equal(t, &th, merged.TH)
	assert.Nil(t, merged.EN)

	merged = MergeMultiLang(&th, &en)
	require.NotNil(t, merged)
	assert.Equal(t, &th, merged.TH)
	assert.Equal(t, &en, merged.EN)

	assert.Nil(t, MergeMultiLang(nil, nil))
}

func TestModelSerializesAsVariantShape(t *testing.T) {
	id := uuid.New()
	code := "10204"

	m := Student{
		Level:   FetchCompact,
		Compact: &StudentCompact{ID: id, StudentCode: code},
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id.String(), decoded["id"])
	assert.Equal(t, code, decoded["student_code"])
	// The level tag is never part of the wire shape.
	_, hasLevel := decoded["Level"]
	assert.False(t, hasLevel)
}

func TestModelIDOnlySerialization(t *testing.T) {
	id := uuid.New()
	m := Student{Level: FetchIDOnly, IDOnly: &StudentIDOnly{ID: id}}
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(raw))
}
