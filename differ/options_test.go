package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truespec/truespec/specdoc"
)

func TestDiffWithOptionsBytes(t *testing.T) {
	base := []byte(`{"paths":{"/pets":{"get":{"responses":{"200":{}}}}}}`)
	head := []byte("openapi: 3.0.3\n")

	rep, err := DiffWithOptions(WithBaseBytes(base), WithHeadBytes(head))
	require.NoError(t, err)
	require.Len(t, rep.Items, 1)
	assert.Equal(t, CodeOperationRemoved, rep.Items[0].Code)
}

func TestDiffWithOptionsDocs(t *testing.T) {
	doc := specdoc.Doc{"openapi": "3.0.3"}
	rep, err := DiffWithOptions(WithBase(doc), WithHead(doc))
	require.NoError(t, err)
	assert.Empty(t, rep.Items)
}

func TestDiffWithOptionsValidation(t *testing.T) {
	doc := specdoc.Doc{"openapi": "3.0.3"}

	tests := []struct {
		name string
		opts []Option
	}{
		{"no base", []Option{WithHead(doc)}},
		{"no head", []Option{WithBase(doc)}},
		{"two bases", []Option{WithBase(doc), WithBaseBytes([]byte("{}")), WithHead(doc)}},
		{"two heads", []Option{WithBase(doc), WithHead(doc), WithHeadBytes([]byte("{}"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DiffWithOptions(tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestDiffWithOptionsInvalidInput(t *testing.T) {
	doc := specdoc.Doc{"openapi": "3.0.3"}

	// A non-map document loads to nil and is rejected.
	_, err := DiffWithOptions(WithBaseBytes([]byte("[]")), WithHead(doc))
	assert.Error(t, err)

	_, err = DiffWithOptions(WithBase(doc), WithHeadBytes([]byte("   ")))
	assert.Error(t, err)
}

func TestDiffWithOptionsLoadError(t *testing.T) {
	doc := specdoc.Doc{"openapi": "3.0.3"}
	_, err := DiffWithOptions(WithBaseBytes([]byte("key: [unclosed")), WithHead(doc))
	assert.Error(t, err)
}
