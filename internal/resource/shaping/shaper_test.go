package shaping

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAuthor struct {
	ID    string
	Name  string
	Age   int
	Genre string
}

func (a testAuthor) ShapeFields() []Field {
	return []Field{
		Value("id", a.ID),
		Value("name", a.Name),
		Value("age", a.Age),
		Value("genre", a.Genre),
	}
}

type testBook struct {
	Key   string
	Title string
}

func (b testBook) ShapeFields() []Field {
	return []Field{
		Value("key", b.Key),
		Value("title", b.Title),
	}
}

func (testBook) IdentityField() string { return "key" }

type noIdentity struct{}

func (noIdentity) ShapeFields() []Field {
	return []Field{Value("name", "x")}
}

func sampleAuthor() testAuthor {
	return testAuthor{ID: "a-1", Name: "Stephen King", Age: 70, Genre: "Horror"}
}

func TestShapeWithoutFieldsIncludesEverythingInOrder(t *testing.T) {
	author := sampleAuthor()

	empty, err := Shape(author, "")
	require.NoError(t, err)
	blank, err := Shape(author, " , ,")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "age", "genre"}, empty.Keys())
	assert.Equal(t, empty, blank)

	v, ok := empty.Get("age")
	require.True(t, ok)
	assert.Equal(t, 70, v)
}

func TestShapeSelectsRequestedFieldsInRequestOrder(t *testing.T) {
	entity, err := Shape(sampleAuthor(), " Genre , NAME ")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "genre", "name"}, entity.Keys(),
		"identity is prepended and fields keep their declared casing")
}

func TestShapeIncludesIdentityExactlyOnce(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   []string
	}{
		{name: "only id", fields: "Id", want: []string{"id"}},
		{name: "id after others", fields: "name,id", want: []string{"name", "id"}},
		{name: "id twice", fields: "id,ID, name", want: []string{"id", "name"}},
		{name: "id omitted", fields: "age", want: []string{"id", "age"}},
		{name: "all", fields: "", want: []string{"id", "name", "age", "genre"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entity, err := Shape(sampleAuthor(), tc.fields)
			require.NoError(t, err)
			assert.Equal(t, tc.want, entity.Keys())
		})
	}
}

func TestShapeHonoursCustomIdentityField(t *testing.T) {
	entity, err := Shape(testBook{Key: "b-1", Title: "It"}, "title")
	require.NoError(t, err)

	assert.Equal(t, []string{"key", "title"}, entity.Keys())
}

func TestShapeUnknownField(t *testing.T) {
	entity, err := Shape(sampleAuthor(), "name,publisher")

	require.Error(t, err)
	assert.Nil(t, entity, "no partial results")
	assert.True(t, errors.Is(err, ErrFieldNotFound))

	var notFound *FieldNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "publisher", notFound.Field)
}

func TestShapeMissingIdentityIsAnError(t *testing.T) {
	_, err := Shape(noIdentity{}, "")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	assert.True(t, TypeHasProperties(noIdentity{}, ""), "an empty field list is always valid")
	assert.True(t, TypeHasProperties(noIdentity{}, "NAME"))
	assert.False(t, TypeHasProperties(noIdentity{}, "id"))
}

func TestShapeMany(t *testing.T) {
	authors := []testAuthor{
		{ID: "a-1", Name: "One"},
		{ID: "a-2", Name: "Two"},
		{ID: "a-3", Name: "Three"},
	}

	entities, err := ShapeMany(authors, "name")
	require.NoError(t, err)
	require.Len(t, entities, 3)

	for i, entity := range entities {
		id, _ := entity.Get("id")
		name, _ := entity.Get("name")
		assert.Equal(t, authors[i].ID, id)
		assert.Equal(t, authors[i].Name, name)
	}

	_, err = ShapeMany(authors, "name,bogus")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	empty, err := ShapeMany([]testAuthor{}, "name")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTypeHasProperties(t *testing.T) {
	tests := []struct {
		fields string
		want   bool
	}{
		{fields: "", want: true},
		{fields: "   ", want: true},
		{fields: ",,,", want: true},
		{fields: "name", want: true},
		{fields: " ID , Genre ,", want: true},
		{fields: "name,,age", want: true},
		{fields: "nam", want: false},
		{fields: "name,publisher", want: false},
		{fields: "name desc", want: false},
		{fields: "\x00,\t\n", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.fields, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tc.want, TypeHasProperties(testAuthor{}, tc.fields))
			})
		})
	}
}

func TestShapeIsAFixedPoint(t *testing.T) {
	for _, fields := range []string{"", "name,genre", "genre,id", "age"} {
		first, err := Shape(sampleAuthor(), fields)
		require.NoError(t, err)

		second, err := Shape(first, fields)
		require.NoError(t, err)

		assert.Equal(t, first, second, fields)
	}
}

func TestEntitySetKeepsPosition(t *testing.T) {
	var e Entity
	e.Set("id", 1)
	e.Set("name", "a")
	e.Set("id", 2)
	e.Set("links", []string{"self"})

	assert.Equal(t, []string{"id", "name", "links"}, e.Keys())
	assert.Equal(t, 3, e.Len())
	v, _ := e.Get("id")
	assert.Equal(t, 2, v)
}

func TestEntityMarshalJSONPreservesOrder(t *testing.T) {
	entity, err := Shape(sampleAuthor(), "genre,name")
	require.NoError(t, err)
	entity.Set("links", []map[string]string{{"rel": "self"}})

	data, err := json.Marshal(entity)
	require.NoError(t, err)

	assert.Equal(t,
		`{"id":"a-1","genre":"Horror","name":"Stephen King","links":[{"rel":"self"}]}`,
		string(data))

	var nilEntity *Entity
	data, err = json.Marshal(nilEntity)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(&Entity{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestEntityMarshalJSONReportsBadValue(t *testing.T) {
	var e Entity
	e.Set("id", "x")
	e.Set("bad", func() {})

	_, err := json.Marshal(&e)
	assert.Error(t, err)
}
