package form

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bossnaboss212/center/internal/db"
)

type committed struct {
	conversationID int64
	values         map[string]string
}

func productFlow(calls *[]committed) *Flow {
	return &Flow{
		Name: "product",
		Steps: []Step{
			{Field: "name", Prompt: "Nom du produit ?"},
			{Field: "code", Prompt: "Code ?", Parse: Upper("")},
			{Field: "price", Prompt: "Prix ?", Parse: Amount("Prix invalide, essayez encore.")},
			{Field: "stock", Prompt: "Stock ?", Parse: Int("Quantité invalide, essayez encore.")},
		},
		Commit: func(_ context.Context, conversationID int64, values map[string]string) (string, error) {
			*calls = append(*calls, committed{conversationID, values})
			return "Produit ajouté ✅", nil
		},
	}
}

func jobFlow(calls *[]committed) *Flow {
	return &Flow{
		Name: "job",
		Steps: []Step{
			{Field: "name", Prompt: "Votre nom ?"},
			{Field: "contact", Prompt: "Contact ?"},
		},
		Commit: func(_ context.Context, conversationID int64, values map[string]string) (string, error) {
			*calls = append(*calls, committed{conversationID, values})
			return "Merci !", nil
		},
	}
}

func newEngine(t *testing.T, flows ...*Flow) *Engine {
	t.Helper()
	return NewEngine(&SQLStore{DB: db.NewTestDB(t)}, flows...)
}

func TestAdvanceIdle(t *testing.T) {
	var calls []committed
	e := newEngine(t, productFlow(&calls))

	res, err := e.Advance(context.Background(), 42, "hello")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestFlowCompletes(t *testing.T) {
	ctx := context.Background()
	var calls []committed
	e := newEngine(t, productFlow(&calls))

	prompt, err := e.Start(ctx, 42, "product", nil)
	require.NoError(t, err)
	assert.Equal(t, "Nom du produit ?", prompt)

	for i, answer := range []string{"Bread", "brd", "500"} {
		res, err := e.Advance(ctx, 42, answer)
		require.NoError(t, err, "step %d", i)
		require.NotNil(t, res)
		assert.False(t, res.Completed)
	}

	res, err := e.Advance(ctx, 42, "10")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, "Produit ajouté ✅", res.Reply)

	require.Len(t, calls, 1, spew.Sdump(calls))
	assert.Equal(t, int64(42), calls[0].conversationID)
	assert.Equal(t, map[string]string{
		"name":  "Bread",
		"code":  "BRD",
		"price": "500.00",
		"stock": "10",
	}, calls[0].values)

	active, err := e.Active(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestInvalidPriceReprompts(t *testing.T) {
	ctx := context.Background()
	var calls []committed
	e := newEngine(t, productFlow(&calls))

	e.Start(ctx, 42, "product", nil)
	e.Advance(ctx, 42, "Bread")
	e.Advance(ctx, 42, "BRD")

	res, err := e.Advance(ctx, 42, "cinq cents")
	require.NoError(t, err)
	assert.True(t, res.Invalid)
	assert.Equal(t, "Prix invalide, essayez encore.", res.Reply)
	assert.Empty(t, calls)

	// Still on the price step.
	res, err = e.Advance(ctx, 42, "12,5")
	require.NoError(t, err)
	assert.False(t, res.Invalid)
	assert.Equal(t, "Stock ?", res.Reply)

	res, _ = e.Advance(ctx, 42, "3")
	require.True(t, res.Completed)
	require.Len(t, calls, 1)
	assert.Equal(t, "12.50", calls[0].values["price"])
}

func TestCompetingFlowDiscardsPrevious(t *testing.T) {
	ctx := context.Background()
	var products, jobs []committed
	e := newEngine(t, productFlow(&products), jobFlow(&jobs))

	e.Start(ctx, 42, "product", nil)
	e.Advance(ctx, 42, "Bread")

	prompt, err := e.Start(ctx, 42, "job", nil)
	require.NoError(t, err)
	assert.Equal(t, "Votre nom ?", prompt)

	active, _ := e.Active(ctx, 42)
	assert.Equal(t, "job", active)

	e.Advance(ctx, 42, "Awa")
	res, err := e.Advance(ctx, 42, "+237 600")
	require.NoError(t, err)
	assert.True(t, res.Completed)

	assert.Empty(t, products)
	require.Len(t, jobs, 1)
	assert.Equal(t, map[string]string{"name": "Awa", "contact": "+237 600"}, jobs[0].values)
}

func TestConversationsAreIndependent(t *testing.T) {
	ctx := context.Background()
	var jobs []committed
	e := newEngine(t, jobFlow(&jobs))

	e.Start(ctx, 1, "job", nil)
	e.Start(ctx, 2, "job", nil)
	e.Advance(ctx, 1, "Awa")
	e.Advance(ctx, 2, "Binta")
	e.Advance(ctx, 1, "a@x")

	require.Len(t, jobs, 1)
	assert.Equal(t, "Awa", jobs[0].values["name"])

	active, _ := e.Active(ctx, 2)
	assert.Equal(t, "job", active)
}

func TestPresetValuesReachCommit(t *testing.T) {
	ctx := context.Background()
	var calls []committed
	e := newEngine(t, jobFlow(&calls))

	e.Start(ctx, 42, "job", map[string]string{"source": "menu"})
	e.Advance(ctx, 42, "Awa")
	e.Advance(ctx, 42, "a@x")

	require.Len(t, calls, 1)
	assert.Equal(t, "menu", calls[0].values["source"])
}

func TestCommitErrorResetsToIdle(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	e := newEngine(t,
		&Flow{
			Name:  "fails",
			Steps: []Step{{Field: "x", Prompt: "x ?"}},
			Commit: func(context.Context, int64, map[string]string) (string, error) {
				return "", boom
			},
		},
		&Flow{
			Name:  "rejects",
			Steps: []Step{{Field: "x", Prompt: "x ?"}},
			Commit: func(context.Context, int64, map[string]string) (string, error) {
				return "", Invalid("Produit introuvable. Recommencez.")
			},
		},
	)

	e.Start(ctx, 42, "fails", nil)
	_, err := e.Advance(ctx, 42, "1")
	assert.ErrorIs(t, err, boom)
	active, _ := e.Active(ctx, 42)
	assert.Empty(t, active)

	e.Start(ctx, 42, "rejects", nil)
	res, err := e.Advance(ctx, 42, "1")
	require.NoError(t, err)
	assert.True(t, res.Invalid)
	assert.Equal(t, "Produit introuvable. Recommencez.", res.Reply)
	active, _ = e.Active(ctx, 42)
	assert.Empty(t, active)
}

func TestResetAndUnknownFlow(t *testing.T) {
	ctx := context.Background()
	var calls []committed
	e := newEngine(t, jobFlow(&calls))

	_, err := e.Start(ctx, 42, "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownFlow)

	e.Start(ctx, 42, "job", nil)
	require.NoError(t, e.Reset(ctx, 42))

	res, err := e.Advance(ctx, 42, "Awa")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestStaleFlowIsCleared(t *testing.T) {
	ctx := context.Background()
	st := &SQLStore{DB: db.NewTestDB(t)}
	require.NoError(t, st.Save(ctx, &Session{ConversationID: 42, Flow: "retired"}))

	var calls []committed
	e := NewEngine(st, jobFlow(&calls))
	res, err := e.Advance(ctx, 42, "x")
	require.NoError(t, err)
	assert.Nil(t, res)

	s, _ := st.Load(ctx, 42)
	assert.Nil(t, s)
}

func TestNewEnginePanicsOnDuplicate(t *testing.T) {
	var calls []committed
	assert.Panics(t, func() {
		NewEngine(nil, jobFlow(&calls), jobFlow(&calls))
	})
	assert.Panics(t, func() {
		NewEngine(nil, &Flow{Name: "empty"})
	})
}

func TestParsers(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		parse   Parser
		input   string
		want    string
		invalid bool
	}{
		{"text trims", Text(""), "  Awa  ", "Awa", false},
		{"text blank", Text(""), "   ", "", true},
		{"optional dash", Optional(), "-", "", false},
		{"optional value", Optional(), " avance ", "avance", false},
		{"upper", Upper(""), " brd ", "BRD", false},
		{"amount comma", Amount("x"), "12,5", "12.50", false},
		{"amount rounds", Amount("x"), "0.335", "0.34", false},
		{"amount bad", Amount("x"), "abc", "", true},
		{"int", Int("x"), " 7 ", "7", false},
		{"int negative", Int("x"), "-3", "-3", false},
		{"int decimal", Int("x"), "1.5", "", true},
		{"choice", OneOf("x", "cash", "mobile", "virement"), "Mobile", "mobile", false},
		{"choice bad", OneOf("x", "cash", "mobile", "virement"), "cheque", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(ctx, tt.input)
			if tt.invalid {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
