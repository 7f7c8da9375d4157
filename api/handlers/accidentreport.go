package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/api"
	"github.com/roadwatch/accident-tracker-api/config"
	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/models"
)

// AccidentReport exported for testing purposes
type AccidentReport struct {
	RDB databases.AccidentReportDatabase
}

// CreateAccidentReportHandler validates a report draft, stamps it with the
// submission instant and persists it. The change stream picks the insert up
// and pushes a fresh snapshot to every feed subscriber.
func (a AccidentReport) CreateAccidentReportHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var draft models.AccidentReportDraft
	err := json.NewDecoder(r.Body).Decode(&draft)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if err := draft.Validate(); err != nil {
		config.ErrorStatus("invalid report", http.StatusBadRequest, w, err)
		return
	}

	report := models.ComposeReport(draft, time.Now())
	report.ID = primitive.NewObjectID()
	report.ReportedBy = r.Header.Get("X-Driver-ID")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err = a.RDB.InsertOne(ctx, report)
	if err != nil {
		config.ErrorStatus("failed to insert report", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Debugf("created accident report: %v", report.ID.Hex())

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// AccidentReportsHandler runs a mongo find{} query to find all reports,
// newest first
func (a AccidentReport) AccidentReportsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.RDB.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"timestamp": -1}))
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusNotFound, w, err)
		return
	}
	// Because the frontend requires that the data elements exist, if
	// len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.AccidentReport{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AccidentReportByIDHandler returns a report given a reportID
func (a AccidentReport) AccidentReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	zap.S().Debugf("report_id: %v", reportID)

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.RDB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
