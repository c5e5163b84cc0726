package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exograph/exoschema/internal/catalog"
	"github.com/exograph/exoschema/testutil"
)

func TestBuildSchemaFromLiveDatabase(t *testing.T) {
	ctx := context.Background()
	pg, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	require.NoError(t, pg.LoadSQL(ctx, `
		CREATE TABLE authors (
			id serial PRIMARY KEY,
			name text NOT NULL
		);
		CREATE TABLE books (
			id serial PRIMARY KEY,
			title text NOT NULL,
			author_id integer NOT NULL REFERENCES authors(id)
		);
	`))

	schema, err := catalog.NewBuilder(pg.Exec).BuildSchema(ctx, []string{"public"})
	require.NoError(t, err)

	authors := schema.Tables["public.authors"]
	require.NotNil(t, authors)
	assert.Equal(t, []string{"id"}, authors.PrimaryKey)

	books := schema.Tables["public.books"]
	require.NotNil(t, books)
	assert.Len(t, books.ForeignKeys, 1)
}
