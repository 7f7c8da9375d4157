package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roadwatch/accident-tracker-api/api/handlers"
	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/databases/mocks"
	"github.com/roadwatch/accident-tracker-api/feed"
	"github.com/roadwatch/accident-tracker-api/models"
)

func dialFeed(t *testing.T, f *feed.Feed) (*websocket.Conn, func()) {
	t.Helper()

	fs := handlers.FeedSocket{Feed: f}
	srv := httptest.NewServer(http.HandlerFunc(fs.ServeWS))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatal(err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestFeedSocket_DeliversSnapshots(t *testing.T) {
	block := make(chan struct{})

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var cursor databases.CursorHelper
	var stream databases.ChangeStreamHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	cursor = &mocks.CursorHelper{}
	stream = &mocks.ChangeStreamHelper{}

	reportID := primitive.NewObjectID()
	cursor.(*mocks.CursorHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.AccidentReport)
		*arg = []models.AccidentReport{{
			ID:               reportID,
			Severity:         models.SeverityMinor,
			AccidentType:     models.AccidentTypeBike,
			VehiclesInvolved: "1",
			Casualties:       "1",
		}}
	})
	stream.(*mocks.ChangeStreamHelper).On("Next", mock.Anything).Return(false).Run(func(args mock.Arguments) {
		<-block
	})
	stream.(*mocks.ChangeStreamHelper).On("Err").Return(nil)
	stream.(*mocks.ChangeStreamHelper).On("Close", mock.Anything).Return(nil)
	conn.(*mocks.CollectionHelper).On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	conn.(*mocks.CollectionHelper).On("Watch", mock.Anything, mock.Anything).Return(stream, nil)
	db.(*MockDatabaseHelper).On("Collection", "accidentReports").Return(conn)

	f := feed.New(databases.NewAccidentReportDatabase(db))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	// wait for the initial snapshot to materialize
	deadline := time.Now().Add(2 * time.Second)
	for f.Current() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if f.Current() == nil {
		t.Fatal("feed never materialized a snapshot")
	}

	wsConn, cleanup := dialFeed(t, f)
	defer cleanup()

	wsConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snapshot []models.AccidentReport
	if err := wsConn.ReadJSON(&snapshot); err != nil {
		t.Fatal(err)
	}

	assert.Len(t, snapshot, 1)
	assert.Equal(t, reportID, snapshot[0].ID)
	assert.Equal(t, models.SeverityMinor, snapshot[0].Severity)

	close(block)
}

func TestFeedSocket_ClosesWhenFeedStops(t *testing.T) {
	f := feed.New(databases.NewAccidentReportDatabase(&MockDatabaseHelper{}))

	wsConn, cleanup := dialFeed(t, f)
	defer cleanup()

	// give the handler a moment to register its subscription
	deadline := time.Now().Add(2 * time.Second)
	for f.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	f.Close()

	wsConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := wsConn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	if assert.True(t, ok, "expected a close error, got %v", err) {
		assert.Equal(t, websocket.CloseInternalServerErr, closeErr.Code)
	}
}
