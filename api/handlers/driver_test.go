package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadwatch/accident-tracker-api/api/handlers"
	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/databases/mocks"
	"github.com/roadwatch/accident-tracker-api/models"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

func TestDriver_RegisterDriverHandlerValidationErrors(t *testing.T) {
	body := `{"name":"","address":"","phone":"123","aadhaar":"abc","license":"","vehicle":""}`
	req, err := http.NewRequest("POST", "/api/v1/driver/register", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	d := handlers.Driver{DB: databases.NewDriverDatabase(&MockDatabaseHelper{})}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(d.RegisterDriverHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var resp models.ValidationErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Name is required", resp.Errors["name"])
	assert.Equal(t, "Address is required", resp.Errors["address"])
	assert.Equal(t, "Phone number must be 10 digits", resp.Errors["phone"])
	assert.Equal(t, "Aadhaar must be 12 digits", resp.Errors["aadhaar"])
	assert.Equal(t, "License details are required", resp.Errors["license"])
	assert.Equal(t, "Vehicle details are required", resp.Errors["vehicle"])
}

func TestDriver_RegisterDriverHandlerCreated(t *testing.T) {
	body := `{"name":"Asha","address":"12 MG Road","phone":"9876543210","aadhaar":"123456789012","license":"KA0120220001","vehicle":"KA01AB1234"}`
	req, err := http.NewRequest("POST", "/api/v1/driver/register", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db.(*MockDatabaseHelper).On("Collection", "drivers").Return(conn)

	d := handlers.Driver{DB: databases.NewDriverDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(d.RegisterDriverHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.Driver
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Asha", created.Name)
	assert.Equal(t, "9876543210", created.Phone)
	assert.False(t, created.IsOnline)
	assert.False(t, created.ID.IsZero())
}

func TestDriver_DriverByIDHandlerBadHex(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/driver/asdf", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"driver_id": "asdf"})
	req.Header.Set("Authorization", "Bearer abc123")

	d := handlers.Driver{DB: databases.NewDriverDatabase(&MockDatabaseHelper{})}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(d.DriverByIDHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	expected := `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`
	assert.Equal(t, expected, rr.Body.String())
}

func TestDriver_SetOnlineStatusHandlerBlockedWithoutLocation(t *testing.T) {
	body := `{"driverId":"608cafe595eb9dc05379b7f4","isOnline":true}`
	req, err := http.NewRequest("PUT", "/api/v1/driver/online-status", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Driver)
		(*arg).IsOnline = false
		(*arg).Location = nil
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "drivers").Return(conn)

	d := handlers.Driver{DB: databases.NewDriverDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(d.SetOnlineStatusHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	expected := `{"response": "Please enable location services to go online, location required to go online"}`
	assert.Equal(t, expected, rr.Body.String())
	conn.(*mocks.CollectionHelper).AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestDriver_SetOnlineStatusHandlerTogglesOnline(t *testing.T) {
	body := `{"driverId":"608cafe595eb9dc05379b7f4","isOnline":true}`
	req, err := http.NewRequest("PUT", "/api/v1/driver/online-status", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Driver)
		(*arg).IsOnline = false
		(*arg).Location = &models.GeoPoint{Latitude: 12.9716, Longitude: 77.5946}
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.(*mocks.CollectionHelper).On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{ModifiedCount: 1}, nil)
	db.(*MockDatabaseHelper).On("Collection", "drivers").Return(conn)

	d := handlers.Driver{DB: databases.NewDriverDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(d.SetOnlineStatusHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.OnlineStatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	assert.True(t, resp.IsOnline)
	assert.True(t, resp.RecordsVisible)
}

func TestDriver_UpdateLocationHandler(t *testing.T) {
	body := `{"driverId":"608cafe595eb9dc05379b7f4","location":{"latitude":12.9716,"longitude":77.5946}}`
	req, err := http.NewRequest("PUT", "/api/v1/driver/location", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}

	conn.(*mocks.CollectionHelper).On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{ModifiedCount: 1}, nil)
	db.(*MockDatabaseHelper).On("Collection", "drivers").Return(conn)

	d := handlers.Driver{DB: databases.NewDriverDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(d.UpdateLocationHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var region map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &region); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 12.9716, region["latitude"])
	assert.Equal(t, 77.5946, region["longitude"])
	assert.Equal(t, 0.0922, region["latitudeDelta"])
	assert.Equal(t, 0.0421, region["longitudeDelta"])
}
