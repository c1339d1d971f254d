package database

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MissingURI(t *testing.T) {
	_, err := New(Config{URI: "  "})
	assert.ErrorIs(t, err, ErrMissingURI)
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		uri     string
		want    Driver
		wantErr bool
	}{
		{uri: "mongodb://localhost:27017/vendors", want: DriverMongo},
		{uri: "mongodb+srv://user:pw@cluster0.example.net/", want: DriverMongo},
		{uri: "postgres://user:pw@localhost:5432/vendors?sslmode=disable", want: DriverPostgres},
		{uri: "postgresql://localhost/vendors", want: DriverPostgres},
		{uri: "memory://", want: DriverMemory},
		{uri: "mysql://localhost/vendors", wantErr: true},
		{uri: "localhost:27017", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := DriverFor(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedScheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_DefaultsDatabaseName(t *testing.T) {
	g, err := New(Config{URI: "mongodb://localhost:27017"})
	require.NoError(t, err)
	assert.Equal(t, DefaultMongoDatabase, g.cfg.Database)
}

func TestConnect_MongoOnceUnderConcurrentFirstUse(t *testing.T) {
	// The mongo client connects lazily, so no server is needed here.
	g, err := New(Config{URI: "mongodb://localhost:27017", Database: "vendors_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close(context.Background()) })

	const callers = 32
	var wg sync.WaitGroup
	handles := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := g.Mongo()
			if err == nil {
				handles[i] = db.Client()
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
	assert.NotNil(t, handles[0])
}

func TestConnect_PostgresReusesPool(t *testing.T) {
	g, err := New(Config{URI: "postgres://user:pw@localhost:5432/vendors?sslmode=disable"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close(context.Background()) })

	first, err := g.SQL()
	require.NoError(t, err)
	second, err := g.SQL()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestHandles_WrongDriver(t *testing.T) {
	g, err := New(Config{URI: "memory://"})
	require.NoError(t, err)

	_, err = g.Mongo()
	assert.ErrorIs(t, err, ErrWrongDriver)
	_, err = g.SQL()
	assert.ErrorIs(t, err, ErrWrongDriver)
	assert.NoError(t, g.Ping(context.Background()))
	assert.NoError(t, g.Close(context.Background()))
}

func TestNewSQL_UsesGivenPool(t *testing.T) {
	db, err := sql.Open("postgres", "postgres://localhost/vendors?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	g := NewSQL(db)
	got, err := g.SQL()
	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, DriverPostgres, g.Driver())
}
