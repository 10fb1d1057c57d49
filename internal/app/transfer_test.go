package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

func newTestTransfer(t *testing.T) (*TransferService, *QuoteService, *changeRecorder) {
	t.Helper()

	recorder := &changeRecorder{}
	svc, _, _ := newTestService(recorder)
	require.NoError(t, svc.Load(context.Background()))

	transfer := NewTransferService(TransferServiceConfig{
		Store:  svc,
		Logger: discardLogger(),
	})

	return transfer, svc, recorder
}

func TestNewTransferService_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		NewTransferService(TransferServiceConfig{})
	})
}

func TestTransferService_Export(t *testing.T) {
	transfer, svc, _ := newTestTransfer(t)

	doc, err := transfer.Export(context.Background())
	require.NoError(t, err)

	var exported []domain.Quote
	require.NoError(t, json.Unmarshal(doc, &exported))
	assert.Equal(t, svc.Quotes(), exported)

	assert.Contains(t, string(doc), "\n  {", "export should be pretty-printed")
}

func TestTransferService_ImportRoundTrip(t *testing.T) {
	transfer, svc, _ := newTestTransfer(t)

	doc, err := transfer.Export(context.Background())
	require.NoError(t, err)

	before := len(svc.Quotes())

	count, err := transfer.Import(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, before, count, "every exported quote imported")
	assert.Len(t, svc.Quotes(), before*2, "import appends rather than replaces")
}

func TestTransferService_Import_SanitizesEntries(t *testing.T) {
	transfer, svc, recorder := newTestTransfer(t)

	count, err := transfer.Import(context.Background(), []byte(`[
		{"text": "  padded  ", "category": "  Zen  "}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	quotes := svc.Quotes()
	assert.Equal(t, domain.Quote{Text: "padded", Category: "Zen"}, quotes[len(quotes)-1])

	changes := recorder.recorded()
	require.Len(t, changes, 1)
	assert.Equal(t, ports.ChangeImport, changes[0].Kind)
}

func TestTransferService_Import_Rejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed JSON", doc: `{"text": "unterminated`},
		{name: "not an array", doc: `{"text": "a", "category": "b"}`},
		{name: "array of wrong shapes", doc: `[1, 2, 3]`},
		{name: "entry with empty text", doc: `[{"text": "ok", "category": "C"}, {"text": "  ", "category": "C"}]`},
		{name: "entry with missing category", doc: `[{"text": "ok"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer, svc, recorder := newTestTransfer(t)
			before := svc.Quotes()

			count, err := transfer.Import(context.Background(), []byte(tt.doc))

			require.Error(t, err)
			assert.Zero(t, count)
			assert.Equal(t, before, svc.Quotes(), "rejected document must not half-apply")
			assert.Empty(t, recorder.recorded())
		})
	}
}

func TestTransferService_Import_ErrorClassification(t *testing.T) {
	transfer, _, _ := newTestTransfer(t)

	_, err := transfer.Import(context.Background(), []byte(`not json`))
	assert.True(t, domain.IsImport(err))

	_, err = transfer.Import(context.Background(), []byte(`"a string"`))
	assert.True(t, domain.IsImport(err))

	_, err = transfer.Import(context.Background(), []byte(`[{"text": " ", "category": "C"}]`))
	assert.True(t, domain.IsValidation(err))
}
