package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestParseView(t *testing.T) {
	t.Run("defaults to all", func(t *testing.T) {
		view, err := ParseView("")
		require.NoError(t, err)
		assert.Equal(t, ViewAll, view)
	})

	t.Run("accepts known views", func(t *testing.T) {
		for _, name := range []string{"all", "out", "overdue"} {
			view, err := ParseView(name)
			require.NoError(t, err)
			assert.Equal(t, View(name), view)
		}
	})

	t.Run("rejects unknown views", func(t *testing.T) {
		_, err := ParseView("everything")
		require.Error(t, err)
		assert.NotNil(t, AsValidation(err))
	})
}

func TestState_Apply_OffsetAndOrder(t *testing.T) {
	state := Patrons.NewState()

	err := state.Apply(Directive{Offset: intPtr(20), Order: "email"}, Patrons)
	require.NoError(t, err)
	assert.Equal(t, 20, state.Offset)
	assert.Equal(t, "email", state.Order)

	// Offsets are not clamped
	err = state.Apply(Directive{Offset: intPtr(-5)}, Patrons)
	require.NoError(t, err)
	assert.Equal(t, -5, state.Offset)
}

func TestState_Apply_RejectsUnknownSortKey(t *testing.T) {
	state := Books.NewState()

	err := state.Apply(Directive{Order: "1; DROP TABLE books"}, Books)
	require.Error(t, err)

	ve := AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "order")
	// State keeps its previous sort key
	assert.Equal(t, "title", state.Order)
}

func TestState_Apply_RejectsUnknownSearchColumn(t *testing.T) {
	state := Patrons.NewState()

	err := state.Apply(Directive{SearchOn: "password", Search: "x"}, Patrons)
	require.Error(t, err)
	require.NotNil(t, AsValidation(err))
	assert.Empty(t, state.Predicates)
}

func TestState_Apply_SearchAccumulatesAcrossColumns(t *testing.T) {
	state := Loans.NewState()

	require.NoError(t, state.Apply(Directive{SearchOn: "last-name", Search: "Sm"}, Loans))
	require.NoError(t, state.Apply(Directive{SearchOn: "title", Search: "Du"}, Loans))

	require.Len(t, state.Predicates, 2)
	assert.Equal(t, "last-name", state.Predicates[0].Column)
	assert.Equal(t, "Sm", state.Predicates[0].Value)
	assert.Equal(t, "title", state.Predicates[1].Column)
	assert.Equal(t, "WHERE last-name begins with Sm AND title begins with Du", state.Description())
}

func TestState_Apply_SearchOnSameColumnReplaces(t *testing.T) {
	state := Patrons.NewState()

	require.NoError(t, state.Apply(Directive{SearchOn: "last-name", Search: "Sm"}, Patrons))
	require.NoError(t, state.Apply(Directive{SearchOn: "last-name", Search: "Smi"}, Patrons))

	require.Len(t, state.Predicates, 1)
	assert.Equal(t, "Smi", state.Predicates[0].Value)
	assert.Equal(t, "WHERE last-name begins with Smi", state.Description())
}

func TestState_Apply_SearchIsIdempotent(t *testing.T) {
	once := Patrons.NewState()
	require.NoError(t, once.Apply(Directive{SearchOn: "email", Search: "ada"}, Patrons))

	twice := Patrons.NewState()
	require.NoError(t, twice.Apply(Directive{SearchOn: "email", Search: "ada"}, Patrons))
	require.NoError(t, twice.Apply(Directive{SearchOn: "email", Search: "ada"}, Patrons))

	assert.Equal(t, once.Predicates, twice.Predicates)
	assert.Equal(t, once.Description(), twice.Description())
}

func TestState_Apply_SearchOffClearsFiltersAndDescription(t *testing.T) {
	state := Patrons.NewState()
	require.NoError(t, state.Apply(Directive{SearchOn: "last-name", Search: "Sm"}, Patrons))
	require.NoError(t, state.Apply(Directive{SearchOn: "address", Search: "12"}, Patrons))
	require.NotEmpty(t, state.Predicates)

	require.NoError(t, state.Apply(Directive{SearchOff: true}, Patrons))
	assert.Empty(t, state.Predicates)
	assert.Equal(t, "", state.Description())
}

func TestState_Description_EmptyByDefault(t *testing.T) {
	state := Books.NewState()
	assert.Equal(t, "", state.Description())
}

func TestRuleset_OrderClause(t *testing.T) {
	assert.Equal(t, "patrons.last_name ASC, patrons.first_name ASC", Patrons.OrderClause("name"))
	// Unknown keys fall back to the default order
	assert.Equal(t, Patrons.OrderClause("name"), Patrons.OrderClause("bogus"))
	assert.Equal(t, "books.title ASC", Loans.OrderClause("title"))
}
