package jsonmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/processor"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    JSONMap
		expectError bool
		errorMsg    string
	}{
		{
			name:     "Valid object",
			input:    `{"@context": "https://www.w3.org/ns/activitystreams", "id": "https://a.example/u1", "type": "Person"}`,
			expected: JSONMap{"@context": "https://www.w3.org/ns/activitystreams", "id": "https://a.example/u1", "type": "Person"},
		},
		{
			name:     "Surrounding whitespace",
			input:    "\n  {\"id\": \"x\"}  \n",
			expected: JSONMap{"id": "x"},
		},
		{
			name:        "Empty input",
			input:       "",
			expectError: true,
			errorMsg:    "failed to unmarshal JSON document",
		},
		{
			name:        "Malformed JSON",
			input:       `{invalid}`,
			expectError: true,
			errorMsg:    "failed to unmarshal JSON document",
		},
		{
			name:        "Trailing value",
			input:       `{"id": "x"} {"id": "y"}`,
			expectError: true,
			errorMsg:    "trailing data",
		},
		{
			name:        "Trailing garbage",
			input:       `{"id": "x"}garbage`,
			expectError: true,
			errorMsg:    "trailing data",
		},
		{
			name:        "Array at top level",
			input:       `[{"id": "x"}]`,
			expectError: true,
			errorMsg:    "not an object",
		},
		{
			name:        "Null at top level",
			input:       `null`,
			expectError: true,
			errorMsg:    "not an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse([]byte(tt.input))

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, result)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONMap_Accessors(t *testing.T) {
	m := JSONMap{
		"@context": []interface{}{"https://www.w3.org/ns/activitystreams", map[string]interface{}{"toot": "http://joinmastodon.org/ns#"}},
		"id":       "https://a.example/users/alice",
		"type":     "Person",
	}

	assert.Equal(t, "https://a.example/users/alice", m.ID())
	assert.Equal(t, []string{"Person"}, m.Type())
	assert.True(t, m.IsSupportedContext())
	assert.Len(t, m.Context(), 2)

	multi := JSONMap{"type": []interface{}{"Note", "Document"}, "id": float64(3)}
	assert.Equal(t, []string{"Note", "Document"}, multi.Type())
	assert.Equal(t, "", multi.ID(), "non-string ids are not identifiers")
	assert.False(t, multi.IsSupportedContext())

	var nilMap JSONMap
	assert.Equal(t, "", nilMap.ID())
	assert.Nil(t, nilMap.Type())
	assert.False(t, nilMap.IsSupportedContext())
}

func TestJSONMap_Clone(t *testing.T) {
	m := JSONMap{"id": "x", "tag": []interface{}{map[string]interface{}{"name": "#go"}}}

	c, err := m.Clone()
	require.NoError(t, err)
	assert.Equal(t, m, c)

	c["tag"].([]interface{})[0].(map[string]interface{})["name"] = "#rust"
	assert.Equal(t, "#go", m["tag"].([]interface{})[0].(map[string]interface{})["name"])
}

func TestJSONMap_ToJSON(t *testing.T) {
	data, err := JSONMap{"id": "x"}.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "x"}`, string(data))

	var nilMap JSONMap
	_, err = nilMap.ToJSON()
	assert.Error(t, err)
}

func TestJSONMap_Canonicalize(t *testing.T) {
	loader, err := processor.NewStaticDocumentLoader(map[string]interface{}{
		"https://www.w3.org/ns/activitystreams": map[string]interface{}{
			"@context": map[string]interface{}{
				"@vocab": "https://www.w3.org/ns/activitystreams#",
				"id":     "@id",
				"type":   "@type",
			},
		},
	}, nil)
	require.NoError(t, err)

	note := JSONMap{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id":       "https://a.example/notes/1",
		"type":     "Note",
		"content":  "hello",
	}
	signed := JSONMap{
		"@context":  []string{"https://www.w3.org/ns/activitystreams"},
		"content":   "hello",
		"type":      "Note",
		"id":        "https://a.example/notes/1",
		"signature": map[string]interface{}{"type": "RsaSignature2017", "signatureValue": "abc"},
	}

	d1, err := note.Canonicalize(processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	d2, err := signed.Canonicalize(processor.WithDocumentLoader(loader))
	require.NoError(t, err)

	assert.Len(t, d1, 32)
	assert.Equal(t, d1, d2, "signature must not be part of the digest")

	withProof := mustClone(t, note)
	withProof["proof"] = map[string]interface{}{"type": "DataIntegrityProof", "cryptosuite": "eddsa-jcs-2022", "proofValue": "z58"}
	d3, err := withProof.Canonicalize(processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, d1, d3, "integrity proof must not be part of the digest")

	edited := mustClone(t, note)
	edited["content"] = "bye"
	d4, err := edited.Canonicalize(processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	assert.NotEqual(t, d1, d4)

	nq, err := note.CanonicalForm(processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	assert.Contains(t, string(nq), `"hello"`)
}

func mustClone(t *testing.T, m JSONMap) JSONMap {
	t.Helper()
	c, err := m.Clone()
	require.NoError(t, err)
	return c
}
